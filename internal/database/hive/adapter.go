package hive

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/beltran/gohive"
	"github.com/google/uuid"

	"github.com/streamweld/streamweld/pkg/adapter"
	"github.com/streamweld/streamweld/pkg/dburl"
)

func init() {
	adapter.Register(NewAdapter())
}

// Adapter implements the adapter.DatabaseAdapter interface for Hive.
type Adapter struct{}

// NewAdapter creates a new Hive adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() adapter.DatabaseType {
	return adapter.Hive
}

// Connect establishes a connection to a HiveServer2 endpoint. The thrift
// client has no dial deadline of its own, so the dial runs in a goroutine
// bounded by the configured timeout.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	config = config.Normalize()

	desc, err := dburl.Parse(config.URL, adapter.HiveScheme)
	if err != nil {
		return nil, adapter.NewConfigurationError(adapter.Hive, "url", err.Error())
	}

	configuration := gohive.NewConnectConfiguration()
	configuration.Username = config.Username
	configuration.Password = config.Password

	auth := "NOSASL"
	if config.Username != "" {
		auth = "NONE"
	}

	type dialResult struct {
		conn *gohive.Connection
		err  error
	}
	done := make(chan dialResult, 1)
	go func() {
		conn, err := gohive.Connect(desc.Host, desc.Port, auth, configuration)
		done <- dialResult{conn: conn, err: err}
	}()

	dialCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	var conn *gohive.Connection
	select {
	case res := <-done:
		if res.err != nil {
			return nil, adapter.NewConnectionError(adapter.Hive, desc.Host, desc.Port, res.err)
		}
		conn = res.conn
	case <-dialCtx.Done():
		// The dial goroutine will close the connection if it ever lands.
		go func() {
			if res := <-done; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, adapter.NewConnectionError(adapter.Hive, desc.Host, desc.Port,
			fmt.Errorf("dial timed out after %s: %w", config.DialTimeout, dialCtx.Err()))
	}
	if conn == nil {
		return nil, adapter.NewConnectionError(adapter.Hive, desc.Host, desc.Port, adapter.ErrNullConnection)
	}

	c := &Connection{
		id:        uuid.NewString(),
		conn:      conn,
		config:    config,
		adapter:   a,
		connected: 1,
	}

	// Verify the session with a trivial statement
	if err := c.Ping(dialCtx); err != nil {
		c.Close()
		return nil, adapter.NewConnectionError(adapter.Hive, desc.Host, desc.Port, err)
	}

	return c, nil
}

// Connection implements adapter.Connection for Hive.
type Connection struct {
	id        string
	conn      *gohive.Connection
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
	return adapter.Hive
}

// Ping checks if the session is alive. HiveServer2 has no ping operation, so
// it runs a constant select.
func (c *Connection) Ping(ctx context.Context) error {
	cursor := c.conn.Cursor()
	defer cursor.Close()

	cursor.Exec(ctx, "SELECT 1")
	return cursor.Err
}

// Close closes the connection.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return nil
	}
	return c.conn.Close()
}

// SchemaOperations returns the schema operator for Hive.
func (c *Connection) SchemaOperations() adapter.SchemaOperator {
	return &SchemaOps{conn: c}
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
