// Package reconcile drives idempotent schema convergence against a sink
// engine: missing databases and tables get created, missing columns get
// appended, and everything already present is left untouched.
package reconcile

import (
	"context"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
	"github.com/streamweld/streamweld/pkg/logger"
)

// Reconciler converges sink schemas toward their desired shape.
type Reconciler struct {
	ops    adapter.SchemaOperator
	dbType adapter.DatabaseType
	logger *logger.Logger
}

// New creates a reconciler bound to one live connection.
func New(conn adapter.Connection, log *logger.Logger) *Reconciler {
	return &Reconciler{
		ops:    conn.SchemaOperations(),
		dbType: conn.Type(),
		logger: log,
	}
}

// NewWithOperator creates a reconciler from a bare schema operator.
func NewWithOperator(ops adapter.SchemaOperator, dbType adapter.DatabaseType, log *logger.Logger) *Reconciler {
	return &Reconciler{ops: ops, dbType: dbType, logger: log}
}

// EnsureDatabase creates the database unless it already exists. It reports
// whether anything was created.
func (r *Reconciler) EnsureDatabase(ctx context.Context, dbName string) (bool, error) {
	exists, err := r.ops.DatabaseExists(ctx, dbName)
	if err != nil {
		return false, err
	}
	if exists {
		r.logf("database %s already exists on %s, skipping", dbName, r.dbType)
		return false, nil
	}

	if err := r.ops.CreateDatabase(ctx, dbName); err != nil {
		return false, err
	}
	r.logf("created database %s on %s", dbName, r.dbType)
	return true, nil
}

// EnsureTable creates the table unless it already exists, creating the
// database first when needed. Existing tables are reconciled column-wise.
func (r *Reconciler) EnsureTable(ctx context.Context, info *adapter.TableInfo) (bool, error) {
	if _, err := r.EnsureDatabase(ctx, info.DatabaseName); err != nil {
		return false, err
	}

	exists, err := r.ops.TableExists(ctx, info.DatabaseName, info.TableName)
	if err != nil {
		return false, err
	}
	if exists {
		r.logf("table %s.%s already exists on %s, reconciling columns", info.DatabaseName, info.TableName, r.dbType)
		return false, r.EnsureColumns(ctx, info.DatabaseName, info.TableName, info.Columns)
	}

	if err := r.ops.CreateTable(ctx, info); err != nil {
		return false, err
	}
	r.logf("created table %s.%s on %s", info.DatabaseName, info.TableName, r.dbType)
	return true, nil
}

// EnsureColumns appends the desired columns that the table does not have yet.
// Column types of existing columns are never altered.
func (r *Reconciler) EnsureColumns(ctx context.Context, dbName, tableName string, desired []adapter.ColumnInfo) error {
	existing, err := r.ops.GetColumns(ctx, dbName, tableName)
	if err != nil {
		return err
	}

	missing := MissingColumns(existing, desired, foldsIdentifierCase(r.dbType))
	if len(missing) == 0 {
		return nil
	}

	if err := r.ops.AddColumns(ctx, dbName, tableName, missing); err != nil {
		return err
	}
	r.logf("added %d column(s) to %s.%s on %s", len(missing), dbName, tableName, r.dbType)
	return nil
}

// MissingColumns returns the desired columns absent from existing, preserving
// the desired order. foldCase selects case-insensitive name comparison for
// engines that fold identifier case.
func MissingColumns(existing, desired []adapter.ColumnInfo, foldCase bool) []adapter.ColumnInfo {
	key := func(name string) string {
		if foldCase {
			return strings.ToLower(name)
		}
		return name
	}

	present := make(map[string]bool, len(existing))
	for _, col := range existing {
		present[key(col.Name)] = true
	}

	var missing []adapter.ColumnInfo
	for _, col := range desired {
		if !present[key(col.Name)] {
			missing = append(missing, col)
		}
	}
	return missing
}

// foldsIdentifierCase reports whether the engine compares column names
// case-insensitively. ClickHouse identifiers are case-sensitive; MySQL and
// Hive fold identifier case.
func foldsIdentifierCase(dbType adapter.DatabaseType) bool {
	return dbType != adapter.ClickHouse
}

func (r *Reconciler) logf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Infof(format, args...)
	}
}
