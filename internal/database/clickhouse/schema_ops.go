package clickhouse

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// SchemaOps implements adapter.SchemaOperator for ClickHouse.
type SchemaOps struct {
	conn *Connection
}

func (s *SchemaOps) stmtCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.conn.config.StatementTimeout)
}

func (s *SchemaOps) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	var count uint64
	if err := s.conn.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DatabaseExists checks system.databases for the database.
func (s *SchemaOps) DatabaseExists(ctx context.Context, dbName string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT count() FROM system.databases WHERE name = ?", dbName)
	if err != nil {
		return false, adapter.WrapError(adapter.ClickHouse, "database_exists", err)
	}
	return ok, nil
}

// TableExists checks system.tables for the table.
func (s *SchemaOps) TableExists(ctx context.Context, dbName, tableName string) (bool, error) {
	ok, err := s.exists(ctx,
		"SELECT count() FROM system.tables WHERE database = ? AND name = ?", dbName, tableName)
	if err != nil {
		return false, adapter.WrapError(adapter.ClickHouse, "table_exists", err)
	}
	return ok, nil
}

// ColumnExists checks system.columns for the column.
func (s *SchemaOps) ColumnExists(ctx context.Context, dbName, tableName, columnName string) (bool, error) {
	ok, err := s.exists(ctx,
		"SELECT count() FROM system.columns WHERE database = ? AND table = ? AND name = ?",
		dbName, tableName, columnName)
	if err != nil {
		return false, adapter.WrapError(adapter.ClickHouse, "column_exists", err)
	}
	return ok, nil
}

// GetColumns returns the table's columns in position order. The retention
// column is platform bookkeeping and is excluded.
func (s *SchemaOps) GetColumns(ctx context.Context, dbName, tableName string) ([]adapter.ColumnInfo, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	rows, err := s.conn.conn.Query(ctx,
		`SELECT name, type, default_expression, comment
		 FROM system.columns
		 WHERE database = ? AND table = ?
		 ORDER BY position`,
		dbName, tableName)
	if err != nil {
		return nil, adapter.WrapError(adapter.ClickHouse, "get_columns", err)
	}
	defer rows.Close()

	var columns []adapter.ColumnInfo
	for rows.Next() {
		var col adapter.ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.Default, &col.Comment); err != nil {
			return nil, adapter.WrapError(adapter.ClickHouse, "get_columns", err)
		}
		if col.Name == RetentionColumn {
			continue
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, adapter.WrapError(adapter.ClickHouse, "get_columns", err)
	}
	return columns, nil
}

// CreateDatabase creates the database if it does not exist.
func (s *SchemaOps) CreateDatabase(ctx context.Context, dbName string) error {
	query, err := BuildCreateDatabaseSQL(dbName)
	if err != nil {
		return adapter.WrapError(adapter.ClickHouse, "create_database", err)
	}
	_, err = s.ExecuteSQL(ctx, query)
	return err
}

// CreateTable creates the table if it does not exist.
func (s *SchemaOps) CreateTable(ctx context.Context, info *adapter.TableInfo) error {
	query, err := BuildCreateTableSQL(info)
	if err != nil {
		return adapter.WrapError(adapter.ClickHouse, "create_table", err)
	}
	_, err = s.ExecuteSQL(ctx, query)
	return err
}

// AddColumns appends the given columns one statement at a time.
func (s *SchemaOps) AddColumns(ctx context.Context, dbName, tableName string, columns []adapter.ColumnInfo) error {
	if len(columns) == 0 {
		return nil
	}
	stmts, err := BuildAddColumnsSQL(dbName, tableName, columns)
	if err != nil {
		return adapter.WrapError(adapter.ClickHouse, "add_columns", err)
	}
	return s.ExecuteSQLBatch(ctx, stmts)
}

// ExecuteSQL runs a single statement. Queries returning rows have their
// result captured as strings.
func (s *SchemaOps) ExecuteSQL(ctx context.Context, query string) (*adapter.ExecutionResult, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	if returnsRows(query) {
		rows, err := s.conn.conn.Query(ctx, query)
		if err != nil {
			return nil, adapter.NewDatabaseError(adapter.ClickHouse, "execute_sql", err).WithContext("sql", query)
		}
		defer rows.Close()
		result, err := scanStringRows(rows)
		if err != nil {
			return nil, adapter.NewDatabaseError(adapter.ClickHouse, "execute_sql", err).WithContext("sql", query)
		}
		return result, nil
	}

	if err := s.conn.conn.Exec(ctx, query); err != nil {
		return nil, adapter.NewDatabaseError(adapter.ClickHouse, "execute_sql", err).WithContext("sql", query)
	}
	return &adapter.ExecutionResult{Success: true}, nil
}

// ExecuteSQLBatch runs statements sequentially. ClickHouse DDL has no
// transactions; the batch stops at the first failure and already applied
// statements stay applied.
func (s *SchemaOps) ExecuteSQLBatch(ctx context.Context, queries []string) error {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	for _, query := range queries {
		if err := s.conn.conn.Exec(ctx, query); err != nil {
			return adapter.NewDatabaseError(adapter.ClickHouse, "execute_sql_batch", err).WithContext("sql", query)
		}
	}
	return nil
}

// returnsRows reports whether the statement produces a result set.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "EXISTS", "WITH":
		return true
	}
	return false
}

// scanStringRows materializes a native result set as strings using the
// driver's scan types.
func scanStringRows(rows chdriver.Rows) (*adapter.ExecutionResult, error) {
	types := rows.ColumnTypes()

	result := &adapter.ExecutionResult{Success: true}
	for rows.Next() {
		dest := make([]interface{}, len(types))
		for i, ct := range types {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(types))
		for i, v := range dest {
			row[i] = fmt.Sprint(reflect.ValueOf(v).Elem().Interface())
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
