package description

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcatalog/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newTestSource(t *testing.T, dir string) *FileSource {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileSource(dir, "default", logger)
}

func TestFileSource_FetchAll_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `{
		"schemaName": "web",
		"tableName": "users",
		"key": {"dataFormat": "raw", "fields": [{"name": "id", "type": "bigint"}]},
		"value": {"dataFormat": "json", "fields": [
			{"name": "email", "type": "varchar", "mapping": "email"},
			{"name": "age", "type": "bigint", "mapping": "age"}
		]}
	}`)
	writeFile(t, dir, "events.yaml", `
schemaName: web
tableName: events
value:
  dataFormat: json
  fields:
    - name: kind
      type: varchar
`)

	source := newTestSource(t, dir)
	tables, err := source.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)

	users := tables[domain.SchemaTableName{Schema: "web", Table: "users"}]
	require.NotNil(t, users.Key)
	assert.Equal(t, "raw", users.Key.DataFormat)
	require.Len(t, users.Value.Fields, 2)
	assert.Equal(t, "email", users.Value.Fields[0].Mapping)

	events := tables[domain.SchemaTableName{Schema: "web", Table: "events"}]
	assert.Nil(t, events.Key)
	require.NotNil(t, events.Value)
	assert.Equal(t, "json", events.Value.DataFormat)
}

func TestFileSource_FetchAll_NameDefaults(t *testing.T) {
	dir := t.TempDir()
	// No tableName: the file basename supplies it. No schemaName: the
	// configured default schema applies.
	writeFile(t, dir, "orders.json", `{"value": {"dataFormat": "csv", "fields": [{"name": "total", "type": "double"}]}}`)

	source := newTestSource(t, dir)
	tables, err := source.FetchAll(context.Background())
	require.NoError(t, err)

	name := domain.SchemaTableName{Schema: "default", Table: "orders"}
	require.Contains(t, tables, name)
	assert.Equal(t, "orders", tables[name].TableName)
	assert.Equal(t, "default", tables[name].SchemaName)
}

func TestFileSource_FetchAll_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "t1.json", `{"tableName": "t1"}`)
	writeFile(t, dir, "README.md", "not a description")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

	source := newTestSource(t, dir)
	tables, err := source.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestFileSource_FetchAll_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.json", `{"tableName": "ok"}`)
	writeFile(t, dir, "broken.json", `{"tableName": `)

	source := newTestSource(t, dir)
	_, err := source.FetchAll(context.Background())
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestFileSource_FetchAll_RejectsUnnamedField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"tableName": "bad", "value": {"dataFormat": "json", "fields": [{"type": "varchar"}]}}`)

	source := newTestSource(t, dir)
	_, err := source.FetchAll(context.Background())
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestFileSource_FetchAll_MissingDir(t *testing.T) {
	source := newTestSource(t, filepath.Join(t.TempDir(), "nope"))
	_, err := source.FetchAll(context.Background())
	require.Error(t, err)
}

func TestFileSource_FetchAll_Deterministic(t *testing.T) {
	dir := t.TempDir()
	// Two files declaring the same qualified name: the lexically later
	// file wins deterministically.
	writeFile(t, dir, "a.json", `{"schemaName": "s", "tableName": "dup", "value": {"dataFormat": "json", "fields": [{"name": "from_a", "type": "varchar"}]}}`)
	writeFile(t, dir, "b.json", `{"schemaName": "s", "tableName": "dup", "value": {"dataFormat": "json", "fields": [{"name": "from_b", "type": "varchar"}]}}`)

	source := newTestSource(t, dir)
	for i := 0; i < 5; i++ {
		tables, err := source.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, tables, 1)
		desc := tables[domain.SchemaTableName{Schema: "s", Table: "dup"}]
		assert.Equal(t, "from_b", desc.Value.Fields[0].Name)
	}
}
