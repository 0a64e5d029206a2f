// Package config loads the manager service configuration from the
// environment and command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvListenAddr       = "SW_LISTEN_ADDR"
	EnvMasterAddr       = "SW_MQ_MASTER_ADDR"
	EnvClusterMasters   = "SW_MQ_CLUSTER_MASTERS"
	EnvMasterTimeout    = "SW_MQ_MASTER_TIMEOUT"
	EnvDialTimeout      = "SW_SINK_DIAL_TIMEOUT"
	EnvStatementTimeout = "SW_SINK_STATEMENT_TIMEOUT"
)

// Config is the manager service configuration.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string

	// DefaultMasterAddr is the cluster master used when a request names no
	// cluster or names one without a dedicated master.
	DefaultMasterAddr string

	// ClusterMasters maps cluster IDs to their master addresses.
	ClusterMasters map[int64]string

	// MasterTimeout bounds one round trip to a cluster master.
	MasterTimeout time.Duration

	// DialTimeout bounds sink connection establishment.
	DialTimeout time.Duration

	// StatementTimeout bounds sink statement execution.
	StatementTimeout time.Duration
}

// Load builds the configuration from the environment, applying defaults for
// everything unset.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:        getEnv(EnvListenAddr, ":8085"),
		DefaultMasterAddr: os.Getenv(EnvMasterAddr),
		ClusterMasters:    make(map[int64]string),
		MasterTimeout:     10 * time.Second,
		DialTimeout:       10 * time.Second,
		StatementTimeout:  30 * time.Second,
	}

	if raw := os.Getenv(EnvClusterMasters); raw != "" {
		masters, err := ParseClusterMasters(raw)
		if err != nil {
			return nil, err
		}
		cfg.ClusterMasters = masters
	}

	var err error
	if cfg.MasterTimeout, err = getDuration(EnvMasterTimeout, cfg.MasterTimeout); err != nil {
		return nil, err
	}
	if cfg.DialTimeout, err = getDuration(EnvDialTimeout, cfg.DialTimeout); err != nil {
		return nil, err
	}
	if cfg.StatementTimeout, err = getDuration(EnvStatementTimeout, cfg.StatementTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.DefaultMasterAddr == "" && len(c.ClusterMasters) == 0 {
		return fmt.Errorf("no cluster master configured: set %s or %s", EnvMasterAddr, EnvClusterMasters)
	}
	if c.MasterTimeout <= 0 || c.DialTimeout <= 0 || c.StatementTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// MasterAddr resolves the master address for a cluster, falling back to the
// default master for unknown clusters.
func (c *Config) MasterAddr(clusterID int64) (string, bool) {
	if addr, ok := c.ClusterMasters[clusterID]; ok {
		return addr, true
	}
	if c.DefaultMasterAddr != "" {
		return c.DefaultMasterAddr, true
	}
	return "", false
}

// ParseClusterMasters parses a "1=host:port,2=host:port" mapping.
func ParseClusterMasters(raw string) (map[int64]string, error) {
	masters := make(map[int64]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, addr, ok := strings.Cut(pair, "=")
		if !ok || addr == "" {
			return nil, fmt.Errorf("malformed cluster master entry %q", pair)
		}
		clusterID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed cluster id in entry %q", pair)
		}
		masters[clusterID] = strings.TrimSpace(addr)
	}
	return masters, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
