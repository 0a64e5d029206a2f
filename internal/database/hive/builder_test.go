package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamweld/streamweld/pkg/adapter"
)

func TestBuildCreateDatabaseSQL(t *testing.T) {
	sql, err := BuildCreateDatabaseSQL("warehouse")
	require.NoError(t, err)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `warehouse`", sql)

	_, err = BuildCreateDatabaseSQL("bad-name")
	assert.ErrorIs(t, err, adapter.ErrInvalidIdentifier)
}

func TestBuildCreateTableSQL(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName:  "warehouse",
		TableName:     "page_views",
		Comment:       "raw page views",
		StorageFormat: "orc",
		Columns: []adapter.ColumnInfo{
			{Name: "url", Type: "STRING", Comment: "page url"},
			{Name: "hits", Type: "BIGINT"},
		},
	}

	sql, err := BuildCreateTableSQL(info)
	require.NoError(t, err)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS `warehouse`.`page_views`")
	assert.Contains(t, sql, "`url` STRING COMMENT 'page url'")
	assert.Contains(t, sql, "`hits` BIGINT")
	assert.Contains(t, sql, "COMMENT 'raw page views'")
	assert.Contains(t, sql, "STORED AS ORC")
}

func TestBuildCreateTableSQLDefaultFormat(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName: "warehouse",
		TableName:    "t",
		Columns:      []adapter.ColumnInfo{{Name: "c", Type: "STRING"}},
	}
	sql, err := BuildCreateTableSQL(info)
	require.NoError(t, err)
	assert.Contains(t, sql, "STORED AS TEXTFILE")
}

func TestBuildCreateTableSQLRejectsUnknownFormat(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName:  "warehouse",
		TableName:     "t",
		StorageFormat: "CSV",
		Columns:       []adapter.ColumnInfo{{Name: "c", Type: "STRING"}},
	}
	_, err := BuildCreateTableSQL(info)
	assert.Error(t, err)
}

func TestBuildAddColumnsSQL(t *testing.T) {
	sql, err := BuildAddColumnsSQL("warehouse", "page_views", []adapter.ColumnInfo{
		{Name: "referrer", Type: "STRING", Comment: "http referrer"},
		{Name: "status", Type: "INT"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `warehouse`.`page_views` ADD COLUMNS (`referrer` STRING COMMENT 'http referrer', `status` INT)", sql)
}

func TestBuildAddColumnsSQLRejectsInjection(t *testing.T) {
	_, err := BuildAddColumnsSQL("warehouse", "page_views", []adapter.ColumnInfo{
		{Name: "x; DROP TABLE page_views", Type: "STRING"},
	})
	assert.ErrorIs(t, err, adapter.ErrInvalidIdentifier)
}

func TestQuoteStringEscapesQuotes(t *testing.T) {
	assert.Equal(t, `'user\'s page'`, quoteString("user's page"))
}
