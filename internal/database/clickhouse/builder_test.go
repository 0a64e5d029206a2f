package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamweld/streamweld/pkg/adapter"
)

func TestBuildCreateDatabaseSQL(t *testing.T) {
	sql, err := BuildCreateDatabaseSQL("events")
	require.NoError(t, err)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `events`", sql)

	_, err = BuildCreateDatabaseSQL("bad name")
	assert.ErrorIs(t, err, adapter.ErrInvalidIdentifier)
}

func TestBuildCreateTableSQLWithTTL(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName: "events",
		TableName:    "clicks",
		TTLDays:      7,
		OrderBy:      "ts",
		PartitionBy:  "day",
		Columns: []adapter.ColumnInfo{
			{Name: "ts", Type: "DateTime"},
			{Name: "user_id", Type: "UInt64", Comment: "actor"},
		},
	}

	sql, err := BuildCreateTableSQL(info)
	require.NoError(t, err)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS `events`.`clicks`")
	assert.Contains(t, sql, "ENGINE = MergeTree")
	assert.Contains(t, sql, "`sw_ttl_date_time` DateTime DEFAULT now()")
	assert.Contains(t, sql, "TTL `sw_ttl_date_time` + toIntervalDay(7)")
	assert.Contains(t, sql, "ORDER BY `ts`")
	assert.Contains(t, sql, "PARTITION BY `day`")
	assert.Contains(t, sql, "`user_id` UInt64 COMMENT 'actor'")
}

func TestBuildCreateTableSQLWithoutTTL(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName: "events",
		TableName:    "clicks",
		Columns:      []adapter.ColumnInfo{{Name: "id", Type: "UInt64"}},
	}

	sql, err := BuildCreateTableSQL(info)
	require.NoError(t, err)
	assert.NotContains(t, sql, RetentionColumn)
	assert.Contains(t, sql, "ORDER BY tuple()")
}

func TestBuildCreateTableSQLRejectsReservedColumn(t *testing.T) {
	info := &adapter.TableInfo{
		DatabaseName: "events",
		TableName:    "clicks",
		Columns:      []adapter.ColumnInfo{{Name: RetentionColumn, Type: "DateTime"}},
	}
	_, err := BuildCreateTableSQL(info)
	assert.Error(t, err)
}

func TestBuildAddColumnsSQL(t *testing.T) {
	stmts, err := BuildAddColumnsSQL("events", "clicks", []adapter.ColumnInfo{
		{Name: "region", Type: "String", CompressionCodec: "ZSTD(3)"},
	})
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "ALTER TABLE `events`.`clicks` ADD COLUMN IF NOT EXISTS `region` String CODEC(ZSTD(3))", stmts[0])
}

func TestBuildAddColumnsSQLRejectsInjection(t *testing.T) {
	_, err := BuildAddColumnsSQL("events", "clicks", []adapter.ColumnInfo{
		{Name: "x`; DROP TABLE clicks", Type: "String"},
	})
	assert.ErrorIs(t, err, adapter.ErrInvalidIdentifier)
}

func TestAllowedHostsPattern(t *testing.T) {
	allowed := []string{"localhost", "192.168.1.1", "192.168.1.255", "10.0.0.42"}
	for _, host := range allowed {
		assert.True(t, allowedHosts.MatchString(host), host)
	}

	denied := []string{"example.com", "192.168.2.1", "10.0.1.1", "203.0.113.9", "localhost.evil.com"}
	for _, host := range denied {
		assert.False(t, allowedHosts.MatchString(host), host)
	}
}
