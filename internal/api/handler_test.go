package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcatalog/internal/catalog"
	"kvcatalog/internal/domain"
)

type staticProvider struct {
	tables map[domain.SchemaTableName]domain.TableDescription
}

func (p *staticProvider) Get(_ context.Context) (map[domain.SchemaTableName]domain.TableDescription, error) {
	return p.tables, nil
}

func setupHandler(t *testing.T) http.Handler {
	t.Helper()
	tables := map[domain.SchemaTableName]domain.TableDescription{
		{Schema: "web", Table: "users"}: {
			SchemaName: "web",
			TableName:  "users",
			Key: &domain.FieldGroup{DataFormat: "raw", Fields: []domain.FieldDescription{
				{Name: "id", Type: "bigint"},
			}},
			Value: &domain.FieldGroup{DataFormat: "json", Fields: []domain.FieldDescription{
				{Name: "email", Type: "varchar"},
			}},
		},
		{Schema: "web", Table: "events"}: {SchemaName: "web", TableName: "events"},
		{Schema: "ops", Table: "audit"}:  {SchemaName: "ops", TableName: "audit"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// hideInternalColumns=false keeps the internal columns in metadata
	// output so the browse payloads can be asserted end to end.
	resolver := catalog.NewResolver("kv-test", &staticProvider{tables: tables}, domain.InternalFields(), false, logger)
	return NewHandler(resolver, logger).Routes()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_Health(t *testing.T) {
	rec := get(t, setupHandler(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ListSchemas(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, []any{"ops", "web"}, body["schemas"])
}

func TestHandler_ListTables(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/web/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	tables, ok := body["tables"].([]any)
	require.True(t, ok)
	assert.Len(t, tables, 2)
}

func TestHandler_ListAllTables(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	tables, ok := body["tables"].([]any)
	require.True(t, ok)
	assert.Len(t, tables, 3)
}

func TestHandler_GetTable(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/web/tables/users")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	handle, ok := body["handle"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "raw", handle["keyDataFormat"])
	assert.Equal(t, "json", handle["valueDataFormat"])

	columns, ok := body["columns"].([]any)
	require.True(t, ok)
	// id + email + six internal columns.
	assert.Len(t, columns, 8)
	first := columns[0].(map[string]any)
	assert.Equal(t, "id", first["name"])
}

func TestHandler_GetTable_DummyFormats(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/web/tables/events")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	handle := body["handle"].(map[string]any)
	assert.Equal(t, "dummy", handle["keyDataFormat"])
	assert.Equal(t, "dummy", handle["valueDataFormat"])
}

func TestHandler_GetTable_NotFound(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/web/tables/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(404), body["code"])
}

func TestHandler_ListColumns(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/web/tables/users/columns")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	columns, ok := body["columns"].([]any)
	require.True(t, ok)
	require.Len(t, columns, 8)

	// Declared columns first, internal columns after, ordinals contiguous.
	last := columns[7].(map[string]any)
	assert.Equal(t, "_value_corrupt", last["name"])
	assert.Equal(t, float64(7), last["ordinal"])
}

func TestHandler_UnknownSchemaListsEmpty(t *testing.T) {
	rec := get(t, setupHandler(t), "/v1/schemas/nope/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Empty(t, body["tables"])
}
