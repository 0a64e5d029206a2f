package adapter

import "time"

// Default timeouts applied when a ConnectionConfig leaves them zero.
const (
	DefaultDialTimeout      = 10 * time.Second
	DefaultStatementTimeout = 30 * time.Second
)

// ConnectionConfig holds everything an adapter needs to reach a sink engine.
// The URL carries scheme, host, port and database name; credentials travel
// separately so they never appear in logs or error messages.
type ConnectionConfig struct {
	// URL is the engine connection URL, e.g. jdbc:mysql://host:3306/db.
	URL string

	// Username and Password authenticate against the engine. Both may be
	// empty for engines running without authentication.
	Username string
	Password string

	// DatabaseName overrides the database embedded in the URL when set.
	DatabaseName string

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// StatementTimeout bounds individual statement execution.
	StatementTimeout time.Duration
}

// withDefaults returns a copy with zero timeouts replaced by defaults.
func (c ConnectionConfig) withDefaults() ConnectionConfig {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.StatementTimeout <= 0 {
		c.StatementTimeout = DefaultStatementTimeout
	}
	return c
}

// Normalize applies default timeouts to a config before handing it to a
// driver. Adapters call this at the top of Connect.
func (c ConnectionConfig) Normalize() ConnectionConfig {
	return c.withDefaults()
}
