package hive

import (
	"context"
	"fmt"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// SchemaOps implements adapter.SchemaOperator for Hive. HiveServer2 exposes
// no information_schema, so existence checks go through SHOW and DESCRIBE.
type SchemaOps struct {
	conn *Connection
}

func (s *SchemaOps) stmtCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.conn.config.StatementTimeout)
}

// query runs a statement and returns all rows as strings.
func (s *SchemaOps) query(ctx context.Context, operation, statement string) ([][]string, error) {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	cursor := s.conn.conn.Cursor()
	defer cursor.Close()

	cursor.Exec(ctx, statement)
	if cursor.Err != nil {
		return nil, adapter.NewDatabaseError(adapter.Hive, operation, cursor.Err).WithContext("sql", statement)
	}

	var rows [][]string
	for cursor.HasMore(ctx) {
		desc := cursor.Description()
		dest := make([]interface{}, len(desc))
		strs := make([]*string, len(desc))
		for i := range dest {
			strs[i] = new(string)
			dest[i] = strs[i]
		}
		cursor.FetchOne(ctx, dest...)
		if cursor.Err != nil {
			return nil, adapter.NewDatabaseError(adapter.Hive, operation, cursor.Err).WithContext("sql", statement)
		}
		row := make([]string, len(strs))
		for i, sp := range strs {
			row[i] = *sp
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// exec runs a statement and discards any result.
func (s *SchemaOps) exec(ctx context.Context, operation, statement string) error {
	ctx, cancel := s.stmtCtx(ctx)
	defer cancel()

	cursor := s.conn.conn.Cursor()
	defer cursor.Close()

	cursor.Exec(ctx, statement)
	if cursor.Err != nil {
		return adapter.NewDatabaseError(adapter.Hive, operation, cursor.Err).WithContext("sql", statement)
	}
	return nil
}

// DatabaseExists checks SHOW DATABASES LIKE for the database.
func (s *SchemaOps) DatabaseExists(ctx context.Context, dbName string) (bool, error) {
	if err := adapter.ValidateIdentifier(dbName); err != nil {
		return false, adapter.WrapError(adapter.Hive, "database_exists", err)
	}
	rows, err := s.query(ctx, "database_exists", fmt.Sprintf("SHOW DATABASES LIKE '%s'", dbName))
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if len(row) > 0 && strings.EqualFold(row[0], dbName) {
			return true, nil
		}
	}
	return false, nil
}

// TableExists checks SHOW TABLES IN ... LIKE for the table.
func (s *SchemaOps) TableExists(ctx context.Context, dbName, tableName string) (bool, error) {
	if err := adapter.ValidateIdentifiers(dbName, tableName); err != nil {
		return false, adapter.WrapError(adapter.Hive, "table_exists", err)
	}
	rows, err := s.query(ctx, "table_exists",
		fmt.Sprintf("SHOW TABLES IN %s LIKE '%s'", QuoteIdentifier(dbName), tableName))
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if len(row) > 0 && strings.EqualFold(row[0], tableName) {
			return true, nil
		}
	}
	return false, nil
}

// ColumnExists scans DESCRIBE output for the column.
func (s *SchemaOps) ColumnExists(ctx context.Context, dbName, tableName, columnName string) (bool, error) {
	columns, err := s.GetColumns(ctx, dbName, tableName)
	if err != nil {
		return false, err
	}
	for _, col := range columns {
		if strings.EqualFold(col.Name, columnName) {
			return true, nil
		}
	}
	return false, nil
}

// GetColumns returns the table's columns from DESCRIBE output. The scan stops
// at the partition information section, which repeats the partition columns.
func (s *SchemaOps) GetColumns(ctx context.Context, dbName, tableName string) ([]adapter.ColumnInfo, error) {
	if err := adapter.ValidateIdentifiers(dbName, tableName); err != nil {
		return nil, adapter.WrapError(adapter.Hive, "get_columns", err)
	}
	rows, err := s.query(ctx, "get_columns",
		fmt.Sprintf("DESCRIBE %s.%s", QuoteIdentifier(dbName), QuoteIdentifier(tableName)))
	if err != nil {
		return nil, err
	}

	var columns []adapter.ColumnInfo
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, "#") {
			break
		}
		col := adapter.ColumnInfo{Name: name, Type: strings.TrimSpace(row[1])}
		if len(row) > 2 {
			col.Comment = strings.TrimSpace(row[2])
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// CreateDatabase creates the database if it does not exist.
func (s *SchemaOps) CreateDatabase(ctx context.Context, dbName string) error {
	query, err := BuildCreateDatabaseSQL(dbName)
	if err != nil {
		return adapter.WrapError(adapter.Hive, "create_database", err)
	}
	return s.exec(ctx, "create_database", query)
}

// CreateTable creates the table if it does not exist.
func (s *SchemaOps) CreateTable(ctx context.Context, info *adapter.TableInfo) error {
	query, err := BuildCreateTableSQL(info)
	if err != nil {
		return adapter.WrapError(adapter.Hive, "create_table", err)
	}
	return s.exec(ctx, "create_table", query)
}

// AddColumns appends the given columns in a single ADD COLUMNS statement.
func (s *SchemaOps) AddColumns(ctx context.Context, dbName, tableName string, columns []adapter.ColumnInfo) error {
	if len(columns) == 0 {
		return nil
	}
	query, err := BuildAddColumnsSQL(dbName, tableName, columns)
	if err != nil {
		return adapter.WrapError(adapter.Hive, "add_columns", err)
	}
	return s.exec(ctx, "add_columns", query)
}

// ExecuteSQL runs a single statement. Queries returning rows have their
// result captured as strings.
func (s *SchemaOps) ExecuteSQL(ctx context.Context, query string) (*adapter.ExecutionResult, error) {
	if returnsRows(query) {
		rows, err := s.query(ctx, "execute_sql", query)
		if err != nil {
			return nil, err
		}
		return &adapter.ExecutionResult{Success: true, Rows: rows}, nil
	}
	if err := s.exec(ctx, "execute_sql", query); err != nil {
		return nil, err
	}
	return &adapter.ExecutionResult{Success: true}, nil
}

// ExecuteSQLBatch runs statements sequentially. Hive DDL has no transactions;
// the batch stops at the first failure.
func (s *SchemaOps) ExecuteSQLBatch(ctx context.Context, queries []string) error {
	for _, query := range queries {
		if err := s.exec(ctx, "execute_sql_batch", query); err != nil {
			return err
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
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH":
		return true
	}
	return false
}
