package clickhouse

import (
	"fmt"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// RetentionColumn is the platform-managed bookkeeping column added to tables
// created with a TTL. The table TTL expression references it, and schema
// introspection hides it from callers so reconciliation never tries to
// re-add it.
const RetentionColumn = "sw_ttl_date_time"

// DefaultEngine is used when TableInfo.Engine is empty.
const DefaultEngine = "MergeTree"

// QuoteIdentifier quotes a ClickHouse identifier using backticks
func QuoteIdentifier(name string) string {
	name = strings.Replace(name, "`", "``", -1)
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
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", QuoteIdentifier(dbName)), nil
}

// BuildCreateTableSQL returns the idempotent CREATE TABLE statement for info.
// Tables with TTLDays > 0 get the retention column appended and a table TTL
// derived from it.
func BuildCreateTableSQL(info *adapter.TableInfo) (string, error) {
	if err := adapter.ValidateIdentifiers(info.DatabaseName, info.TableName); err != nil {
		return "", err
	}
	if len(info.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", info.TableName)
	}

	defs := make([]string, 0, len(info.Columns)+1)
	for _, col := range info.Columns {
		if col.Name == RetentionColumn {
			return "", fmt.Errorf("column name %s is reserved", RetentionColumn)
		}
		def, err := columnDef(col)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}
	if info.TTLDays > 0 {
		defs = append(defs, fmt.Sprintf("%s DateTime DEFAULT now()", QuoteIdentifier(RetentionColumn)))
	}

	engine := info.Engine
	if engine == "" {
		engine = DefaultEngine
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s.%s (\n    %s\n) ENGINE = %s",
		QuoteIdentifier(info.DatabaseName), QuoteIdentifier(info.TableName),
		strings.Join(defs, ",\n    "), engine)

	if info.PartitionBy != "" {
		if err := adapter.ValidateIdentifier(info.PartitionBy); err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\nPARTITION BY %s", QuoteIdentifier(info.PartitionBy))
	}

	if info.OrderBy != "" {
		if err := adapter.ValidateIdentifier(info.OrderBy); err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\nORDER BY %s", QuoteIdentifier(info.OrderBy))
	} else {
		sb.WriteString("\nORDER BY tuple()")
	}

	if info.TTLDays > 0 {
		fmt.Fprintf(&sb, "\nTTL %s + toIntervalDay(%d)", QuoteIdentifier(RetentionColumn), info.TTLDays)
	}

	if info.Comment != "" {
		fmt.Fprintf(&sb, "\nCOMMENT %s", quoteString(info.Comment))
	}
	return sb.String(), nil
}

// BuildAddColumnsSQL returns one ALTER TABLE statement per column. ClickHouse
// DDL is not transactional, so IF NOT EXISTS keeps a partially applied batch
// safe to rerun.
func BuildAddColumnsSQL(dbName, tableName string, columns []adapter.ColumnInfo) ([]string, error) {
	if err := adapter.ValidateIdentifiers(dbName, tableName); err != nil {
		return nil, err
	}

	stmts := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Name == RetentionColumn {
			return nil, fmt.Errorf("column name %s is reserved", RetentionColumn)
		}
		def, err := columnDef(col)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s.%s ADD COLUMN IF NOT EXISTS %s",
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
	if col.CompressionCodec != "" {
		fmt.Fprintf(&sb, " CODEC(%s)", col.CompressionCodec)
	}
	if col.TTLExpr != "" {
		fmt.Fprintf(&sb, " TTL %s", col.TTLExpr)
	}
	return sb.String(), nil
}
