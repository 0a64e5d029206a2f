package hive

import (
	"fmt"
	"strings"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// DefaultStorageFormat is used when TableInfo.StorageFormat is empty.
const DefaultStorageFormat = "TEXTFILE"

// storageFormats is the set of Hive file formats accepted in DDL.
var storageFormats = map[string]bool{
	"TEXTFILE":     true,
	"ORC":          true,
	"PARQUET":      true,
	"AVRO":         true,
	"RCFILE":       true,
	"SEQUENCEFILE": true,
}

// QuoteIdentifier quotes a Hive identifier using backticks
func QuoteIdentifier(name string) string {
	name = strings.Replace(name, "`", "``", -1)
	return fmt.Sprintf("`%s`", name)
}

// quoteString quotes a string literal for use in DDL comments.
func quoteString(s string) string {
	return "'" + strings.Replace(s, "'", "\\'", -1) + "'"
}

// BuildCreateDatabaseSQL returns the idempotent CREATE DATABASE statement.
func BuildCreateDatabaseSQL(dbName string) (string, error) {
	if err := adapter.ValidateIdentifier(dbName); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", QuoteIdentifier(dbName)), nil
}

// BuildCreateTableSQL returns the idempotent CREATE TABLE statement for info.
func BuildCreateTableSQL(info *adapter.TableInfo) (string, error) {
	if err := adapter.ValidateIdentifiers(info.DatabaseName, info.TableName); err != nil {
		return "", err
	}
	if len(info.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", info.TableName)
	}

	format := strings.ToUpper(info.StorageFormat)
	if format == "" {
		format = DefaultStorageFormat
	}
	if !storageFormats[format] {
		return "", fmt.Errorf("unsupported storage format %q", info.StorageFormat)
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
		fmt.Fprintf(&sb, "\nCOMMENT %s", quoteString(info.Comment))
	}
	fmt.Fprintf(&sb, "\nSTORED AS %s", format)
	return sb.String(), nil
}

// BuildAddColumnsSQL returns a single ADD COLUMNS statement covering all
// columns. Hive applies the whole list atomically at the metastore, so one
// statement beats a per-column batch.
func BuildAddColumnsSQL(dbName, tableName string, columns []adapter.ColumnInfo) (string, error) {
	if err := adapter.ValidateIdentifiers(dbName, tableName); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("no columns to add")
	}

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		def, err := columnDef(col)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("ALTER TABLE %s.%s ADD COLUMNS (%s)",
		QuoteIdentifier(dbName), QuoteIdentifier(tableName), strings.Join(defs, ", ")), nil
}

// columnDef renders a single column definition. Hive columns carry no
// defaults, only a type and an optional comment.
func columnDef(col adapter.ColumnInfo) (string, error) {
	if err := adapter.ValidateIdentifier(col.Name); err != nil {
		return "", err
	}
	if col.Type == "" {
		return "", fmt.Errorf("column %s has no type", col.Name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", QuoteIdentifier(col.Name), col.Type)
	if col.Comment != "" {
		fmt.Fprintf(&sb, " COMMENT %s", quoteString(col.Comment))
	}
	return sb.String(), nil
}
