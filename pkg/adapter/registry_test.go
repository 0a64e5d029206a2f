package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	dbType DatabaseType
}

func (a *stubAdapter) Type() DatabaseType { return a.dbType }

func (a *stubAdapter) Connect(ctx context.Context, config ConnectionConfig) (Connection, error) {
	return nil, ErrConnectionFailed
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{dbType: MySQL})

	a, err := r.Get(MySQL)
	require.NoError(t, err)
	assert.Equal(t, MySQL, a.Type())

	_, err = r.Get(ClickHouse)
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}

func TestRegistryGetByName(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{dbType: Hive})

	a, err := r.GetByName("hive2")
	require.NoError(t, err)
	assert.Equal(t, Hive, a.Type())

	_, err = r.GetByName("oracle")
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{dbType: MySQL})
	assert.Panics(t, func() {
		r.Register(&stubAdapter{dbType: MySQL})
	})
}
