package adapter

// ColumnInfo describes a single column in a sink table.
type ColumnInfo struct {
	// Name is the column identifier. It must pass ValidateIdentifier
	// before being interpolated into DDL.
	Name string `json:"name"`

	// Type is the engine-native column type, e.g. "VARCHAR(255)" or "Int64".
	Type string `json:"type"`

	// Default is the optional default value expression.
	Default string `json:"default,omitempty"`

	// Comment is the optional column comment.
	Comment string `json:"comment,omitempty"`

	// CompressionCodec is an optional per-column codec (ClickHouse only).
	CompressionCodec string `json:"compressionCodec,omitempty"`

	// TTLExpr is an optional per-column TTL expression (ClickHouse only).
	TTLExpr string `json:"ttlExpr,omitempty"`
}

// TableInfo describes a sink table to create or reconcile.
type TableInfo struct {
	DatabaseName string       `json:"databaseName"`
	TableName    string       `json:"tableName"`
	Columns      []ColumnInfo `json:"columns"`

	// Comment is the optional table comment.
	Comment string `json:"comment,omitempty"`

	// Engine selects the ClickHouse table engine; empty means MergeTree.
	Engine string `json:"engine,omitempty"`

	// PartitionBy is the optional partition expression (ClickHouse).
	PartitionBy string `json:"partitionBy,omitempty"`

	// OrderBy is the sorting key column; ClickHouse requires one for
	// MergeTree tables, so empty falls back to ORDER BY tuple().
	OrderBy string `json:"orderBy,omitempty"`

	// TTLDays sets row retention in days. Zero disables table TTL.
	TTLDays int `json:"ttlDays,omitempty"`

	// StorageFormat selects the Hive file format; empty means TEXTFILE.
	StorageFormat string `json:"storageFormat,omitempty"`
}

// ExecutionResult reports the outcome of a raw SQL execution, including any
// result columns for statements that return rows.
type ExecutionResult struct {
	Success bool       `json:"success"`
	Rows    [][]string `json:"rows,omitempty"`
	Message string     `json:"message,omitempty"`
}
