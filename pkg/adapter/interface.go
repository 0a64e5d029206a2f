package adapter

import "context"

// DatabaseAdapter is the entry point for an engine-specific implementation.
// Adapters register themselves in the package registry from an init func and
// are looked up by DatabaseType.
type DatabaseAdapter interface {
	// Type returns the engine this adapter serves.
	Type() DatabaseType

	// Connect validates the config, establishes a live connection within
	// the configured dial timeout, and verifies it with a ping. Any
	// resource opened before a failure is released before returning.
	Connect(ctx context.Context, config ConnectionConfig) (Connection, error)
}

// Connection is a live, verified connection to a sink engine.
type Connection interface {
	// ID returns the unique identifier assigned to this connection.
	ID() string

	// Type returns the engine this connection talks to.
	Type() DatabaseType

	// Ping verifies the connection is still usable.
	Ping(ctx context.Context) error

	// Close releases the connection. Safe to call more than once.
	Close() error

	// SchemaOperations returns the schema operator bound to this connection.
	SchemaOperations() SchemaOperator

	// Config returns the config the connection was established with.
	Config() ConnectionConfig
}

// SchemaOperator performs schema introspection and DDL against one engine.
// Existence checks report absence as (false, nil); an error means the check
// itself could not run.
type SchemaOperator interface {
	// DatabaseExists reports whether the named database exists.
	DatabaseExists(ctx context.Context, dbName string) (bool, error)

	// TableExists reports whether the named table exists in dbName.
	TableExists(ctx context.Context, dbName, tableName string) (bool, error)

	// ColumnExists reports whether the named column exists on the table.
	ColumnExists(ctx context.Context, dbName, tableName, columnName string) (bool, error)

	// GetColumns returns the table's columns in engine order, excluding
	// platform-managed bookkeeping columns.
	GetColumns(ctx context.Context, dbName, tableName string) ([]ColumnInfo, error)

	// CreateDatabase creates the database. Idempotent: creating an
	// existing database succeeds without change.
	CreateDatabase(ctx context.Context, dbName string) error

	// CreateTable creates the table described by info. Idempotent.
	CreateTable(ctx context.Context, info *TableInfo) error

	// AddColumns appends the given columns to an existing table. Columns
	// that already exist must be filtered out by the caller.
	AddColumns(ctx context.Context, dbName, tableName string, columns []ColumnInfo) error

	// ExecuteSQL runs a single raw statement.
	ExecuteSQL(ctx context.Context, query string) (*ExecutionResult, error)

	// ExecuteSQLBatch runs multiple statements, transactionally when the
	// engine supports it, and stops at the first failure.
	ExecuteSQLBatch(ctx context.Context, queries []string) error
}
