package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamweld/streamweld/pkg/adapter"
)

// fakeOps is an in-memory SchemaOperator tracking what got created.
type fakeOps struct {
	databases map[string]bool
	tables    map[string][]adapter.ColumnInfo

	failExists error
	failCreate error

	createDatabaseCalls int
	createTableCalls    int
	addColumnsCalls     int
}

func newFakeOps() *fakeOps {
	return &fakeOps{
		databases: make(map[string]bool),
		tables:    make(map[string][]adapter.ColumnInfo),
	}
}

func tableKey(db, table string) string { return db + "." + table }

func (f *fakeOps) DatabaseExists(ctx context.Context, dbName string) (bool, error) {
	if f.failExists != nil {
		return false, f.failExists
	}
	return f.databases[dbName], nil
}

func (f *fakeOps) TableExists(ctx context.Context, dbName, tableName string) (bool, error) {
	if f.failExists != nil {
		return false, f.failExists
	}
	_, ok := f.tables[tableKey(dbName, tableName)]
	return ok, nil
}

func (f *fakeOps) ColumnExists(ctx context.Context, dbName, tableName, columnName string) (bool, error) {
	for _, col := range f.tables[tableKey(dbName, tableName)] {
		if col.Name == columnName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOps) GetColumns(ctx context.Context, dbName, tableName string) ([]adapter.ColumnInfo, error) {
	return f.tables[tableKey(dbName, tableName)], nil
}

func (f *fakeOps) CreateDatabase(ctx context.Context, dbName string) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.createDatabaseCalls++
	f.databases[dbName] = true
	return nil
}

func (f *fakeOps) CreateTable(ctx context.Context, info *adapter.TableInfo) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.createTableCalls++
	f.tables[tableKey(info.DatabaseName, info.TableName)] = append([]adapter.ColumnInfo(nil), info.Columns...)
	return nil
}

func (f *fakeOps) AddColumns(ctx context.Context, dbName, tableName string, columns []adapter.ColumnInfo) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.addColumnsCalls++
	key := tableKey(dbName, tableName)
	f.tables[key] = append(f.tables[key], columns...)
	return nil
}

func (f *fakeOps) ExecuteSQL(ctx context.Context, query string) (*adapter.ExecutionResult, error) {
	return &adapter.ExecutionResult{Success: true}, nil
}

func (f *fakeOps) ExecuteSQLBatch(ctx context.Context, queries []string) error {
	return nil
}

func newTestReconciler(ops *fakeOps) *Reconciler {
	return NewWithOperator(ops, adapter.MySQL, nil)
}

func TestEnsureDatabaseIdempotent(t *testing.T) {
	ops := newFakeOps()
	r := newTestReconciler(ops)

	created, err := r.EnsureDatabase(context.Background(), "sales")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.EnsureDatabase(context.Background(), "sales")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, ops.createDatabaseCalls)
}

func TestEnsureTableCreatesDatabaseFirst(t *testing.T) {
	ops := newFakeOps()
	r := newTestReconciler(ops)

	info := &adapter.TableInfo{
		DatabaseName: "sales",
		TableName:    "orders",
		Columns:      []adapter.ColumnInfo{{Name: "id", Type: "BIGINT"}},
	}

	created, err := r.EnsureTable(context.Background(), info)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, ops.databases["sales"])
	assert.Equal(t, 1, ops.createTableCalls)
}

func TestEnsureTableReconcilesColumnsWhenPresent(t *testing.T) {
	ops := newFakeOps()
	ops.databases["sales"] = true
	ops.tables["sales.orders"] = []adapter.ColumnInfo{{Name: "id", Type: "BIGINT"}}
	r := newTestReconciler(ops)

	info := &adapter.TableInfo{
		DatabaseName: "sales",
		TableName:    "orders",
		Columns: []adapter.ColumnInfo{
			{Name: "id", Type: "BIGINT"},
			{Name: "amount", Type: "DECIMAL(10,2)"},
		},
	}

	created, err := r.EnsureTable(context.Background(), info)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, ops.createTableCalls)
	assert.Equal(t, 1, ops.addColumnsCalls)
	assert.Len(t, ops.tables["sales.orders"], 2)
}

func TestEnsureColumnsNoopWhenAllPresent(t *testing.T) {
	ops := newFakeOps()
	ops.tables["sales.orders"] = []adapter.ColumnInfo{{Name: "id", Type: "BIGINT"}}
	r := newTestReconciler(ops)

	err := r.EnsureColumns(context.Background(), "sales", "orders",
		[]adapter.ColumnInfo{{Name: "ID", Type: "BIGINT"}})
	require.NoError(t, err)
	assert.Equal(t, 0, ops.addColumnsCalls)
}

func TestEnsureDatabasePropagatesCheckError(t *testing.T) {
	ops := newFakeOps()
	ops.failExists = errors.New("network down")
	r := newTestReconciler(ops)

	_, err := r.EnsureDatabase(context.Background(), "sales")
	assert.Error(t, err)
	assert.Equal(t, 0, ops.createDatabaseCalls)
}

func TestMissingColumns(t *testing.T) {
	existing := []adapter.ColumnInfo{
		{Name: "id", Type: "BIGINT"},
		{Name: "Amount", Type: "DECIMAL"},
	}
	desired := []adapter.ColumnInfo{
		{Name: "id", Type: "BIGINT"},
		{Name: "amount", Type: "DECIMAL"},
		{Name: "region", Type: "VARCHAR(64)"},
		{Name: "priority", Type: "INT"},
	}

	missing := MissingColumns(existing, desired, true)
	require.Len(t, missing, 2)
	assert.Equal(t, "region", missing[0].Name)
	assert.Equal(t, "priority", missing[1].Name)
}

func TestMissingColumnsCaseSensitive(t *testing.T) {
	existing := []adapter.ColumnInfo{{Name: "userid", Type: "UInt64"}}
	desired := []adapter.ColumnInfo{{Name: "UserID", Type: "UInt64"}}

	missing := MissingColumns(existing, desired, false)
	require.Len(t, missing, 1)
	assert.Equal(t, "UserID", missing[0].Name)

	assert.Empty(t, MissingColumns(existing, desired, true))
}

func TestEnsureColumnsClickHouseDistinguishesCase(t *testing.T) {
	ops := newFakeOps()
	ops.tables["sales.orders"] = []adapter.ColumnInfo{{Name: "userid", Type: "UInt64"}}
	r := NewWithOperator(ops, adapter.ClickHouse, nil)

	err := r.EnsureColumns(context.Background(), "sales", "orders",
		[]adapter.ColumnInfo{{Name: "UserID", Type: "UInt64"}})
	require.NoError(t, err)
	assert.Equal(t, 1, ops.addColumnsCalls)
	assert.Len(t, ops.tables["sales.orders"], 2)
}
