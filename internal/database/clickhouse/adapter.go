package clickhouse

import (
	"context"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/streamweld/streamweld/pkg/adapter"
	"github.com/streamweld/streamweld/pkg/dburl"
)

func init() {
	adapter.Register(NewAdapter())
}

// allowedHosts restricts ClickHouse targets to hosts inside the platform
// network. Writable warehouse clusters live on these ranges only.
var allowedHosts = regexp.MustCompile(`^(localhost|192\.168\.1\.\d{1,3}|10\.0\.0\.\d{1,3})$`)

// executionTimeoutSeconds converts the statement timeout to whole seconds for
// the max_execution_time setting. Sub-second timeouts round up to one second;
// zero would mean unlimited server-side.
func executionTimeoutSeconds(d time.Duration) int {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Adapter implements the adapter.DatabaseAdapter interface for ClickHouse.
type Adapter struct{}

// NewAdapter creates a new ClickHouse adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() adapter.DatabaseType {
	return adapter.ClickHouse
}

// Connect establishes a connection to a ClickHouse database. Hosts outside
// the allow-list are rejected before any dial.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	config = config.Normalize()

	desc, err := dburl.Parse(config.URL, adapter.ClickHouseScheme, dburl.WithAllowedHosts(allowedHosts))
	if err != nil {
		return nil, adapter.NewConfigurationError(adapter.ClickHouse, "url", err.Error())
	}

	dbName := desc.DatabaseName
	if config.DatabaseName != "" {
		dbName = config.DatabaseName
	}

	// Build connection options
	options := &clickhouse.Options{
		Addr: []string{desc.Address()},
		Auth: clickhouse.Auth{
			Database: dbName,
			Username: config.Username,
			Password: config.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": executionTimeoutSeconds(config.StatementTimeout),
		},
		DialTimeout:     config.DialTimeout,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, adapter.NewConnectionError(adapter.ClickHouse, desc.Host, desc.Port, err)
	}
	if conn == nil {
		return nil, adapter.NewConnectionError(adapter.ClickHouse, desc.Host, desc.Port, adapter.ErrNullConnection)
	}

	// Test the connection within the dial timeout
	pingCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, adapter.NewConnectionError(adapter.ClickHouse, desc.Host, desc.Port, err)
	}

	return &Connection{
		id:        uuid.NewString(),
		conn:      conn,
		config:    config,
		adapter:   a,
		connected: 1,
	}, nil
}

// Connection implements adapter.Connection for ClickHouse.
type Connection struct {
	id        string
	conn      chdriver.Conn
	config    adapter.ConnectionConfig
	adapter   *Adapter
	connected int32
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Type returns the database type.
func (c *Connection) Type() adapter.DatabaseType {
	return adapter.ClickHouse
}

// Ping checks if the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the connection.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return nil
	}
	return c.conn.Close()
}

// SchemaOperations returns the schema operator for ClickHouse.
func (c *Connection) SchemaOperations() adapter.SchemaOperator {
	return &SchemaOps{conn: c}
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
