package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcatalog/internal/domain"
)

// foreignTableHandle stands in for another connector's handle leaking into
// this one.
type foreignTableHandle struct{}

type foreignColumnHandle struct{}

type foreignLayoutHandle struct{}

func TestHandleResolver_ConvertTableHandle(t *testing.T) {
	resolver := NewHandleResolver()
	handle := domain.KVTableHandle{ConnectorID: "kv", SchemaName: "s1", TableName: "t1"}

	byValue, err := resolver.ConvertTableHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, handle, byValue)

	byPointer, err := resolver.ConvertTableHandle(&handle)
	require.NoError(t, err)
	assert.Equal(t, handle, byPointer)
}

func TestHandleResolver_ConvertTableHandle_Invalid(t *testing.T) {
	resolver := NewHandleResolver()

	for _, handle := range []domain.TableHandle{nil, foreignTableHandle{}, (*domain.KVTableHandle)(nil)} {
		_, err := resolver.ConvertTableHandle(handle)
		require.Error(t, err)
		var invalid *domain.InvalidHandleError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestHandleResolver_ConvertColumnHandle(t *testing.T) {
	resolver := NewHandleResolver()
	handle := domain.KVColumnHandle{ConnectorID: "kv", Name: "c1", Ordinal: 3}

	converted, err := resolver.ConvertColumnHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, handle, converted)

	_, err = resolver.ConvertColumnHandle(foreignColumnHandle{})
	var invalid *domain.InvalidHandleError
	require.ErrorAs(t, err, &invalid)
}

func TestHandleResolver_ConvertLayout(t *testing.T) {
	resolver := NewHandleResolver()
	handle := domain.KVTableLayoutHandle{
		Table: domain.KVTableHandle{ConnectorID: "kv", SchemaName: "s1", TableName: "t1"},
	}

	converted, err := resolver.ConvertLayout(&handle)
	require.NoError(t, err)
	assert.Equal(t, handle, converted)

	_, err = resolver.ConvertLayout(foreignLayoutHandle{})
	var invalid *domain.InvalidHandleError
	require.ErrorAs(t, err, &invalid)
}

func TestResolver_OpaqueHandleRejection(t *testing.T) {
	resolver, _ := newTestResolver(t, scenarioTables(), false)

	var invalid *domain.InvalidHandleError

	_, err := resolver.GetTableMetadata(context.Background(), foreignTableHandle{})
	require.ErrorAs(t, err, &invalid)

	_, err = resolver.GetColumnHandles(context.Background(), foreignTableHandle{})
	require.ErrorAs(t, err, &invalid)

	_, err = resolver.GetColumnMetadata(context.Background(), foreignTableHandle{}, domain.KVColumnHandle{})
	require.ErrorAs(t, err, &invalid)

	_, err = resolver.GetColumnMetadata(context.Background(), domain.KVTableHandle{}, foreignColumnHandle{})
	require.ErrorAs(t, err, &invalid)

	_, err = resolver.GetTableLayouts(context.Background(), foreignTableHandle{}, domain.AlwaysTrue(), nil)
	require.ErrorAs(t, err, &invalid)

	_, err = resolver.GetTableLayout(context.Background(), foreignLayoutHandle{})
	require.ErrorAs(t, err, &invalid)
}
