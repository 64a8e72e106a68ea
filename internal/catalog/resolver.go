// Package catalog implements the schema-catalog resolver: the mapping from
// table description documents to the handle and metadata operations a query
// planner consumes. Every table additionally exposes the synthetic columns
// of the internal field registry; see domain.InternalFields.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"kvcatalog/internal/domain"
)

// Resolver composes the memoized description snapshot and the internal
// field registry into catalog operations. It holds no mutable state of its
// own: every operation is a pure function of the snapshot, the registry,
// the visibility flag, and its arguments, so concurrent calls never
// interfere.
type Resolver struct {
	connectorID         string
	hideInternalColumns bool
	descriptions        domain.SnapshotProvider
	internalFields      []domain.InternalFieldDescription
	handles             *HandleResolver
	logger              *slog.Logger
}

// NewResolver creates a Resolver. The internal field registry and the
// visibility flag are fixed for the resolver's lifetime.
func NewResolver(
	connectorID string,
	descriptions domain.SnapshotProvider,
	internalFields []domain.InternalFieldDescription,
	hideInternalColumns bool,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		connectorID:         connectorID,
		hideInternalColumns: hideInternalColumns,
		descriptions:        descriptions,
		internalFields:      internalFields,
		handles:             NewHandleResolver(),
		logger:              logger.With("component", "catalog-resolver"),
	}
}

// HandleResolver exposes the codec for callers that hold opaque handles.
func (r *Resolver) HandleResolver() *HandleResolver {
	return r.handles
}

// definedTables returns the current snapshot.
func (r *Resolver) definedTables(ctx context.Context) (map[domain.SchemaTableName]domain.TableDescription, error) {
	return r.descriptions.Get(ctx)
}

// sortedNames returns the snapshot's qualified names ordered by
// (schema, table). Go maps iterate in random order, so listing operations
// iterate this index to stay idempotent across calls.
func sortedNames(tables map[domain.SchemaTableName]domain.TableDescription) []domain.SchemaTableName {
	names := make([]domain.SchemaTableName, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].Schema != names[j].Schema {
			return names[i].Schema < names[j].Schema
		}
		return names[i].Table < names[j].Table
	})
	return names
}

// ListSchemaNames returns the distinct schema names in the snapshot, in
// first-occurrence order over the sorted name index, without duplicates.
func (r *Resolver) ListSchemaNames(ctx context.Context) ([]string, error) {
	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	schemas := []string{}
	for _, name := range sortedNames(tables) {
		if !seen[name.Schema] {
			seen[name.Schema] = true
			schemas = append(schemas, name.Schema)
		}
	}
	return schemas, nil
}

// ListTables returns every qualified name in the snapshot, restricted to
// one schema when schema is non-empty.
func (r *Resolver) ListTables(ctx context.Context, schema string) ([]domain.SchemaTableName, error) {
	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}

	names := []domain.SchemaTableName{}
	for _, name := range sortedNames(tables) {
		if schema == "" || name.Schema == schema {
			names = append(names, name)
		}
	}
	return names, nil
}

// GetTableHandle resolves a qualified name to a table handle. Absence is a
// normal outcome here, reported as (nil, nil): planners probe table
// existence speculatively, so an unknown name is not an error.
func (r *Resolver) GetTableHandle(ctx context.Context, name domain.SchemaTableName) (*domain.KVTableHandle, error) {
	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}

	table, ok := tables[name]
	if !ok {
		return nil, nil
	}

	// The key group may carry the name of the store object that supplies
	// the table's keys.
	keyName := ""
	if table.Key != nil {
		keyName = table.Key.Name
	}

	return &domain.KVTableHandle{
		ConnectorID:     r.connectorID,
		SchemaName:      name.Schema,
		TableName:       name.Table,
		KeyDataFormat:   table.Key.EffectiveDataFormat(),
		ValueDataFormat: table.Value.EffectiveDataFormat(),
		KeyName:         keyName,
	}, nil
}

// GetTableMetadata returns the full ordered column metadata for the
// handle's table. Unlike GetTableHandle this assumes the table was already
// resolved: a vanished name is a TableNotFoundError.
func (r *Resolver) GetTableMetadata(ctx context.Context, handle domain.TableHandle) (*domain.TableMetadata, error) {
	tableHandle, err := r.handles.ConvertTableHandle(handle)
	if err != nil {
		return nil, err
	}
	return r.tableMetadata(ctx, tableHandle.SchemaTableName())
}

func (r *Resolver) tableMetadata(ctx context.Context, name domain.SchemaTableName) (*domain.TableMetadata, error) {
	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}
	table, ok := tables[name]
	if !ok {
		return nil, domain.ErrTableNotFound(name)
	}

	// One counter across key fields, value fields, then internal fields.
	// Column ordinals must be contiguous and reproducible for a given
	// snapshot.
	columns := []domain.ColumnMetadata{}
	ordinal := 0
	if table.Key != nil {
		for _, field := range table.Key.Fields {
			columns = append(columns, field.ColumnMetadataAt(ordinal))
			ordinal++
		}
	}
	if table.Value != nil {
		for _, field := range table.Value.Fields {
			columns = append(columns, field.ColumnMetadataAt(ordinal))
			ordinal++
		}
	}
	for _, field := range r.internalFields {
		// Hidden internal columns stay out of the metadata listing but keep
		// their ordinals: GetColumnHandles still addresses them by name at
		// the same positions.
		if !r.hideInternalColumns {
			columns = append(columns, field.ColumnMetadataAt(ordinal, false))
		}
		ordinal++
	}

	return &domain.TableMetadata{Name: name, Columns: columns}, nil
}

// GetColumnHandles returns the name-to-handle map for the handle's table,
// assigning ordinals with the same shared counter as GetTableMetadata. A
// name collision across the key, value, and internal groups lets the later
// insertion overwrite the earlier one; the hidden internal columns are
// still present in the map regardless of the visibility flag.
func (r *Resolver) GetColumnHandles(ctx context.Context, handle domain.TableHandle) (map[string]domain.ColumnHandle, error) {
	tableHandle, err := r.handles.ConvertTableHandle(handle)
	if err != nil {
		return nil, err
	}

	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}
	table, ok := tables[tableHandle.SchemaTableName()]
	if !ok {
		return nil, domain.ErrTableNotFound(tableHandle.SchemaTableName())
	}

	columnHandles := make(map[string]domain.ColumnHandle)
	ordinal := 0
	if table.Key != nil {
		for _, field := range table.Key.Fields {
			columnHandles[field.Name] = field.ColumnHandleFor(r.connectorID, domain.OriginKey, ordinal)
			ordinal++
		}
	}
	if table.Value != nil {
		for _, field := range table.Value.Fields {
			columnHandles[field.Name] = field.ColumnHandleFor(r.connectorID, domain.OriginValue, ordinal)
			ordinal++
		}
	}
	for _, field := range r.internalFields {
		columnHandles[field.Name] = field.ColumnHandleFor(r.connectorID, ordinal, r.hideInternalColumns)
		ordinal++
	}

	return columnHandles, nil
}

// GetColumnMetadata projects metadata off a column handle. Both handles are
// validated through the codec, but the snapshot is not consulted: the
// column handle already carries everything the metadata needs.
func (r *Resolver) GetColumnMetadata(ctx context.Context, tableHandle domain.TableHandle, columnHandle domain.ColumnHandle) (*domain.ColumnMetadata, error) {
	if _, err := r.handles.ConvertTableHandle(tableHandle); err != nil {
		return nil, err
	}
	column, err := r.handles.ConvertColumnHandle(columnHandle)
	if err != nil {
		return nil, err
	}

	metadata := column.ColumnMetadata()
	return &metadata, nil
}

// ListTableColumns returns column metadata for every table matching the
// prefix. Listing is best-effort: a table that vanishes between
// enumeration and metadata lookup is skipped, never failing the batch.
func (r *Resolver) ListTableColumns(ctx context.Context, prefix domain.SchemaTablePrefix) (map[domain.SchemaTableName][]domain.ColumnMetadata, error) {
	tables, err := r.definedTables(ctx)
	if err != nil {
		return nil, err
	}

	columns := make(map[domain.SchemaTableName][]domain.ColumnMetadata)
	for _, name := range sortedNames(tables) {
		if !prefix.Matches(name) {
			continue
		}
		metadata, err := r.tableMetadata(ctx, name)
		if err != nil {
			// Tables can disappear during a listing operation.
			var notFound *domain.TableNotFoundError
			if errors.As(err, &notFound) {
				r.logger.Debug("table vanished during listing", "table", name.String())
				continue
			}
			return nil, err
		}
		columns[name] = metadata.Columns
	}
	return columns, nil
}

// GetTableLayouts returns the table's layouts. There is exactly one: no
// partitioning, no local properties, predicate left wide open, and the
// constraint summary handed back unenforced, since nothing at this layer
// can prune by predicate.
func (r *Resolver) GetTableLayouts(ctx context.Context, handle domain.TableHandle, constraint domain.Constraint, _ []domain.ColumnHandle) ([]domain.TableLayoutResult, error) {
	tableHandle, err := r.handles.ConvertTableHandle(handle)
	if err != nil {
		return nil, err
	}

	layout := domain.TableLayout{
		Handle:    domain.KVTableLayoutHandle{Table: tableHandle},
		Predicate: domain.AllTupleDomain(),
	}
	return []domain.TableLayoutResult{{Layout: layout, Unenforced: constraint.Summary}}, nil
}

// GetTableLayout re-derives the single layout for a layout handle. Since
// each table has exactly one layout this is deterministic, not a cache
// lookup.
func (r *Resolver) GetTableLayout(ctx context.Context, handle domain.LayoutHandle) (*domain.TableLayout, error) {
	layoutHandle, err := r.handles.ConvertLayout(handle)
	if err != nil {
		return nil, err
	}

	results, err := r.GetTableLayouts(ctx, layoutHandle.Table, domain.AlwaysTrue(), nil)
	if err != nil {
		return nil, err
	}
	return &results[0].Layout, nil
}
