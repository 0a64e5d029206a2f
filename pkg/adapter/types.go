package adapter

// DatabaseType is the canonical identifier of a supported sink engine.
type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	Hive       DatabaseType = "hive"
	ClickHouse DatabaseType = "clickhouse"
)

// Connection URL scheme prefixes, one per engine. Kept in the historical
// jdbc:* form because sink URLs are shared with JVM-based ingest components.
const (
	MySQLScheme      = "jdbc:mysql"
	HiveScheme       = "jdbc:hive2"
	ClickHouseScheme = "jdbc:clickhouse"
)

var aliases = map[string]DatabaseType{
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"hive":       Hive,
	"hive2":      Hive,
	"clickhouse": ClickHouse,
	"ck":         ClickHouse,
}

// ParseType resolves a database name or alias to its canonical type.
func ParseType(name string) (DatabaseType, bool) {
	dbType, ok := aliases[name]
	return dbType, ok
}
