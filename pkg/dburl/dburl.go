// Package dburl validates engine connection URLs of the form
// scheme://host:port[/database] without performing any network I/O.
package dburl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Validation errors. Callers match them with errors.Is; the wrapped message
// carries the offending fragment but never credentials.
var (
	ErrMalformedScheme    = errors.New("connection URL does not start with the expected scheme")
	ErrMalformedAuthority = errors.New("connection URL has no host:port section")
	ErrMalformedHostPort  = errors.New("connection URL host:port section is malformed")
	ErrInvalidPort        = errors.New("connection URL port is not a number in range 1-65535")
	ErrHostNotAllowed     = errors.New("connection URL host is not in the allowed host list")
)

// Descriptor is the validated, decomposed form of a connection URL.
// It is constructed per call and discarded after use.
type Descriptor struct {
	Scheme       string
	Host         string
	Port         int
	DatabaseName string
}

// Address returns the host:port pair of the descriptor.
func (d *Descriptor) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

type options struct {
	allowedHosts *regexp.Regexp
}

// Option customizes URL validation.
type Option func(*options)

// WithAllowedHosts restricts the host part to the given pattern. The pattern
// must match the full host name.
func WithAllowedHosts(pattern *regexp.Regexp) Option {
	return func(o *options) {
		o.allowedHosts = pattern
	}
}

// Parse validates raw against expectedScheme and returns its decomposed form.
// Pure string parsing; it never dials the target.
func Parse(raw, expectedScheme string, opts ...Option) (*Descriptor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.HasPrefix(raw, expectedScheme) {
		return nil, fmt.Errorf("%w: want prefix %q", ErrMalformedScheme, expectedScheme)
	}

	rest := strings.TrimPrefix(raw, expectedScheme)
	rest = strings.TrimPrefix(rest, "://")

	hostPort, dbName := splitAuthority(rest)
	if hostPort == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAuthority, raw)
	}

	parts := strings.Split(hostPort, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHostPort, hostPort)
	}
	host, portStr := parts[0], parts[1]
	if host == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHostPort, hostPort)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPort, portStr)
	}

	if o.allowedHosts != nil && !o.allowedHosts.MatchString(host) {
		return nil, fmt.Errorf("%w: %q", ErrHostNotAllowed, host)
	}

	return &Descriptor{
		Scheme:       expectedScheme,
		Host:         host,
		Port:         port,
		DatabaseName: dbName,
	}, nil
}

// splitAuthority separates the host:port pair from the optional database path
// and drops any query parameters from the database name.
func splitAuthority(rest string) (hostPort, dbName string) {
	hostPort, dbName, _ = strings.Cut(rest, "/")
	dbName, _, _ = strings.Cut(dbName, "?")
	return hostPort, dbName
}
