package mysql

import (
	"fmt"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// QuoteIdentifier quotes a MySQL identifier using backticks
func QuoteIdentifier(name string) string {
	// Replace any existing backticks with double backticks to escape them
	name = strings.Replace(name, "`", "``", -1)
	// Wrap the entire name in backticks
	return fmt.Sprintf("`%s`", name)
}

// quoteString quotes a string literal for use in DDL comments and defaults.
func quoteString(s string) string {
	return "'" + strings.Replace(s, "'", "''", -1) + "'"
}

// BuildCreateDatabaseSQL returns the idempotent CREATE DATABASE statement.
func BuildCreateDatabaseSQL(dbName string) (string, error) {
	if err := adapter.ValidateIdentifier(dbName); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s CHARACTER SET utf8mb4", QuoteIdentifier(dbName)), nil
}

// BuildCreateTableSQL returns the idempotent CREATE TABLE statement for info.
func BuildCreateTableSQL(info *adapter.TableInfo) (string, error) {
	if err := adapter.ValidateIdentifiers(info.DatabaseName, info.TableName); err != nil {
		return "", err
	}
	if len(info.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", info.TableName)
	}

	defs := make([]string, 0, len(info.Columns))
	for _, col := range info.Columns {
		def, err := columnDef(col)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s.%s (\n    %s\n)",
		QuoteIdentifier(info.DatabaseName), QuoteIdentifier(info.TableName),
		strings.Join(defs, ",\n    "))
	if info.Comment != "" {
		fmt.Fprintf(&sb, " COMMENT=%s", quoteString(info.Comment))
	}
	return sb.String(), nil
}

// BuildAddColumnsSQL returns one ALTER TABLE statement per column so a batch
// failure points at the exact column that broke.
func BuildAddColumnsSQL(dbName, tableName string, columns []adapter.ColumnInfo) ([]string, error) {
	if err := adapter.ValidateIdentifiers(dbName, tableName); err != nil {
		return nil, err
	}

	stmts := make([]string, 0, len(columns))
	for _, col := range columns {
		def, err := columnDef(col)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s.%s ADD COLUMN %s",
			QuoteIdentifier(dbName), QuoteIdentifier(tableName), def))
	}
	return stmts, nil
}

// columnDef renders a single column definition.
func columnDef(col adapter.ColumnInfo) (string, error) {
	if err := adapter.ValidateIdentifier(col.Name); err != nil {
		return "", err
	}
	if col.Type == "" {
		return "", fmt.Errorf("column %s has no type", col.Name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", QuoteIdentifier(col.Name), col.Type)
	if col.Default != "" {
		fmt.Fprintf(&sb, " DEFAULT %s", quoteString(col.Default))
	}
	if col.Comment != "" {
		fmt.Fprintf(&sb, " COMMENT %s", quoteString(col.Comment))
	}
	return sb.String(), nil
}
