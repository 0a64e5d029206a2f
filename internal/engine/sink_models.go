package engine

import "github.com/streamweld/streamweld/pkg/adapter"

// SinkConnectionRequest carries the connection half of every sink request.
type SinkConnectionRequest struct {
	URL      string `json:"url"`
	Username string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// CreateDatabaseRequest asks for a database to exist on a sink engine.
type CreateDatabaseRequest struct {
	SinkConnectionRequest
	DatabaseName string `json:"dbName"`
}

// CreateTableRequest asks for a table to exist with the given shape.
type CreateTableRequest struct {
	SinkConnectionRequest
	Table adapter.TableInfo `json:"table"`
}

// AddColumnsRequest asks for columns to be appended to an existing table.
type AddColumnsRequest struct {
	SinkConnectionRequest
	DatabaseName string               `json:"dbName"`
	TableName    string               `json:"tableName"`
	Columns      []adapter.ColumnInfo `json:"columns"`
}

// ListColumnsRequest asks for a table's current columns.
type ListColumnsRequest struct {
	SinkConnectionRequest
	DatabaseName string `json:"dbName"`
	TableName    string `json:"tableName"`
}

// SinkResponse reports the outcome of a sink provisioning operation. Created
// is false when the object already existed and the call was a no-op.
type SinkResponse struct {
	Success bool                 `json:"success"`
	Created bool                 `json:"created,omitempty"`
	Message string               `json:"message,omitempty"`
	Columns []adapter.ColumnInfo `json:"columns,omitempty"`
}
