package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// SchemaOps implements adapter.SchemaOperator for MySQL.
type SchemaOps struct {
	conn *Connection
}

func (s *SchemaOps) stmtCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.conn.config.StatementTimeout)
}

// DatabaseExists checks information_schema for the database.
func (s *SchemaOps) DatabaseExists(ctx context.Context, dbName string) (bool, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	var one int
	err := s.conn.db.QueryRowContext(ctx,
		"SELECT 1 FROM information_schema.schemata WHERE schema_name = ?", dbName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, adapter.WrapError(adapter.MySQL, "database_exists", err)
	}
	return true, nil
}

// TableExists checks information_schema for the table.
func (s *SchemaOps) TableExists(ctx context.Context, dbName, tableName string) (bool, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	var one int
	err := s.conn.db.QueryRowContext(ctx,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
		dbName, tableName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, adapter.WrapError(adapter.MySQL, "table_exists", err)
	}
	return true, nil
}

// ColumnExists checks information_schema for the column.
func (s *SchemaOps) ColumnExists(ctx context.Context, dbName, tableName, columnName string) (bool, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	var one int
	err := s.conn.db.QueryRowContext(ctx,
		"SELECT 1 FROM information_schema.columns WHERE table_schema = ? AND table_name = ? AND column_name = ?",
		dbName, tableName, columnName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, adapter.WrapError(adapter.MySQL, "column_exists", err)
	}
	return true, nil
}

// GetColumns returns the table's columns in ordinal order.
func (s *SchemaOps) GetColumns(ctx context.Context, dbName, tableName string) ([]adapter.ColumnInfo, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	rows, err := s.conn.db.QueryContext(ctx,
		`SELECT column_name, column_type, COALESCE(column_default, ''), COALESCE(column_comment, '')
		 FROM information_schema.columns
		 WHERE table_schema = ? AND table_name = ?
		 ORDER BY ordinal_position`,
		dbName, tableName)
	if err != nil {
		return nil, adapter.WrapError(adapter.MySQL, "get_columns", err)
	}
	defer rows.Close()

	var columns []adapter.ColumnInfo
	for rows.Next() {
		var col adapter.ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.Default, &col.Comment); err != nil {
			return nil, adapter.WrapError(adapter.MySQL, "get_columns", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, adapter.WrapError(adapter.MySQL, "get_columns", err)
	}
	return columns, nil
}

// CreateDatabase creates the database if it does not exist.
func (s *SchemaOps) CreateDatabase(ctx context.Context, dbName string) error {
	query, err := BuildCreateDatabaseSQL(dbName)
	if err != nil {
		return adapter.WrapError(adapter.MySQL, "create_database", err)
	}
	_, err = s.ExecuteSQL(ctx, query)
	return err
}

// CreateTable creates the table if it does not exist.
func (s *SchemaOps) CreateTable(ctx context.Context, info *adapter.TableInfo) error {
	query, err := BuildCreateTableSQL(info)
	if err != nil {
		return adapter.WrapError(adapter.MySQL, "create_table", err)
	}
	_, err = s.ExecuteSQL(ctx, query)
	return err
}

// AddColumns appends the given columns in a single transaction.
func (s *SchemaOps) AddColumns(ctx context.Context, dbName, tableName string, columns []adapter.ColumnInfo) error {
	if len(columns) == 0 {
		return nil
	}
	stmts, err := BuildAddColumnsSQL(dbName, tableName, columns)
	if err != nil {
		return adapter.WrapError(adapter.MySQL, "add_columns", err)
	}
	return s.ExecuteSQLBatch(ctx, stmts)
}

// ExecuteSQL runs a single statement. Queries returning rows have their
// result captured as strings.
func (s *SchemaOps) ExecuteSQL(ctx context.Context, query string) (*adapter.ExecutionResult, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	if returnsRows(query) {
		rows, err := s.conn.db.QueryContext(ctx, query)
		if err != nil {
			return nil, adapter.NewDatabaseError(adapter.MySQL, "execute_sql", err).WithContext("sql", query)
		}
		defer rows.Close()
		result, err := scanStringRows(rows)
		if err != nil {
			return nil, adapter.NewDatabaseError(adapter.MySQL, "execute_sql", err).WithContext("sql", query)
		}
		return result, nil
	}

	if _, err := s.conn.db.ExecContext(ctx, query); err != nil {
		return nil, adapter.NewDatabaseError(adapter.MySQL, "execute_sql", err).WithContext("sql", query)
	}
	return &adapter.ExecutionResult{Success: true}, nil
}

// ExecuteSQLBatch runs all statements in one transaction, rolling back on the
// first failure.
func (s *SchemaOps) ExecuteSQLBatch(ctx context.Context, queries []string) error {
	if len(queries) == 0 {
		return nil
	}
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	tx, err := s.conn.db.BeginTx(ctx, nil)
	if err != nil {
		return adapter.WrapError(adapter.MySQL, "execute_sql_batch", err)
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return adapter.NewDatabaseError(adapter.MySQL, "execute_sql_batch", err).WithContext("sql", query)
		}
	}

	if err := tx.Commit(); err != nil {
		return adapter.NewDatabaseError(adapter.MySQL, "execute_sql_batch", adapter.ErrTransactionFailed).
			WithContext("cause", err.Error())
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
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN":
		return true
	}
	return false
}

// scanStringRows materializes a result set as strings.
func scanStringRows(rows *sql.Rows) (*adapter.ExecutionResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &adapter.ExecutionResult{Success: true}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = v.String
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
