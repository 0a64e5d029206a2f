package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/streamweld/streamweld/pkg/adapter"
	"github.com/streamweld/streamweld/pkg/dburl"
)

func init() {
	adapter.Register(NewAdapter())
}

// Adapter implements the adapter.DatabaseAdapter interface for MySQL.
type Adapter struct{}

// NewAdapter creates a new MySQL adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() adapter.DatabaseType {
	return adapter.MySQL
}

// Connect establishes a connection to a MySQL database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	config = config.Normalize()

	desc, err := dburl.Parse(config.URL, adapter.MySQLScheme)
	if err != nil {
		return nil, adapter.NewConfigurationError(adapter.MySQL, "url", err.Error())
	}

	dbName := desc.DatabaseName
	if config.DatabaseName != "" {
		dbName = config.DatabaseName
	}

	// Build the connection string. The timeout parameter bounds the TCP
	// dial inside the driver.
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?timeout=%s&readTimeout=%s&writeTimeout=%s&charset=utf8mb4",
		config.Username, config.Password, desc.Address(), dbName,
		config.DialTimeout, config.StatementTimeout, config.StatementTimeout)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, adapter.NewConnectionError(adapter.MySQL, desc.Host, desc.Port, err)
	}
	if db == nil {
		return nil, adapter.NewConnectionError(adapter.MySQL, desc.Host, desc.Port, adapter.ErrNullConnection)
	}

	// Test the connection within the dial timeout
	pingCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, adapter.NewConnectionError(adapter.MySQL, desc.Host, desc.Port, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &Connection{
		id:        uuid.NewString(),
		db:        db,
		config:    config,
		adapter:   a,
		connected: 1,
	}, nil
}

// Connection implements adapter.Connection for MySQL.
type Connection struct {
	id        string
	db        *sql.DB
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
	return adapter.MySQL
}

// Ping checks if the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the connection.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return nil
	}
	return c.db.Close()
}

// SchemaOperations returns the schema operator for MySQL.
func (c *Connection) SchemaOperations() adapter.SchemaOperator {
	return &SchemaOps{conn: c}
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
