// Package domain defines core types, interfaces, and errors for the
// key-value catalog.
package domain

// DummyDataFormat is the no-op decoding format assigned to a table's key or
// value side when the corresponding field group is absent from its
// description.
const DummyDataFormat = "dummy"

// SchemaTableName is the qualified name of a table. It is a comparable value
// type and is used as the snapshot map key.
type SchemaTableName struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

func (n SchemaTableName) String() string {
	return n.Schema + "." + n.Table
}

// SchemaTablePrefix selects a subset of qualified names. An empty field
// matches everything: the zero prefix matches all tables, a schema-only
// prefix matches every table in that schema.
type SchemaTablePrefix struct {
	Schema string
	Table  string
}

// Matches reports whether the qualified name falls under the prefix.
func (p SchemaTablePrefix) Matches(n SchemaTableName) bool {
	if p.Schema != "" && p.Schema != n.Schema {
		return false
	}
	if p.Table != "" && p.Table != n.Table {
		return false
	}
	return true
}

// TableDescription declares how a key-value store entry decodes into a row.
// Either field group may be absent; a table with both absent still exposes
// the internal columns.
type TableDescription struct {
	SchemaName string      `json:"schemaName" yaml:"schemaName"`
	TableName  string      `json:"tableName" yaml:"tableName"`
	Key        *FieldGroup `json:"key,omitempty" yaml:"key,omitempty"`
	Value      *FieldGroup `json:"value,omitempty" yaml:"value,omitempty"`
}

// SchemaTableName returns the qualified name declared by the description.
func (d TableDescription) SchemaTableName() SchemaTableName {
	return SchemaTableName{Schema: d.SchemaName, Table: d.TableName}
}

// FieldGroup is the key-side or value-side column declaration block of a
// table description. Field order is significant: it determines column
// ordinals.
type FieldGroup struct {
	// Name identifies the key source in the store (for example the name of
	// a sorted set holding the table's keys). Only meaningful on the key
	// group.
	Name       string             `json:"name,omitempty" yaml:"name,omitempty"`
	DataFormat string             `json:"dataFormat" yaml:"dataFormat"`
	Fields     []FieldDescription `json:"fields" yaml:"fields"`
}

// EffectiveDataFormat returns the group's decoding format, or the dummy
// format when the group is absent.
func (g *FieldGroup) EffectiveDataFormat() string {
	if g == nil || g.DataFormat == "" {
		return DummyDataFormat
	}
	return g.DataFormat
}

// FieldDescription declares a single column of a field group. Type, mapping
// and format metadata are opaque to the catalog; they are carried through to
// the row decoder downstream.
type FieldDescription struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Mapping    string `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	DataFormat string `json:"dataFormat,omitempty" yaml:"dataFormat,omitempty"`
	FormatHint string `json:"formatHint,omitempty" yaml:"formatHint,omitempty"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ColumnHandleFor builds the planner-facing handle for this declared field.
func (f FieldDescription) ColumnHandleFor(connectorID string, origin ColumnOrigin, ordinal int) KVColumnHandle {
	return KVColumnHandle{
		ConnectorID: connectorID,
		Name:        f.Name,
		Type:        f.Type,
		Mapping:     f.Mapping,
		DataFormat:  f.DataFormat,
		FormatHint:  f.FormatHint,
		Origin:      origin,
		Ordinal:     ordinal,
	}
}

// ColumnMetadataAt projects the field as column metadata at the given
// ordinal. Declared columns are always visible.
func (f FieldDescription) ColumnMetadataAt(ordinal int) ColumnMetadata {
	return ColumnMetadata{
		Name:    f.Name,
		Type:    f.Type,
		Ordinal: ordinal,
		Comment: f.Comment,
	}
}

// ColumnMetadata describes one column of a table as seen by the planner.
type ColumnMetadata struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Ordinal int    `json:"ordinal"`
	Comment string `json:"comment,omitempty"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// TableMetadata is the full ordered column listing of a table.
type TableMetadata struct {
	Name    SchemaTableName  `json:"name"`
	Columns []ColumnMetadata `json:"columns"`
}

// TupleDomain summarizes constraints on column values. The catalog performs
// no pruning, so it only needs identity semantics: a nil Domains map means
// unconstrained, and whatever the planner hands in is echoed back untouched.
type TupleDomain struct {
	Domains map[string]string `json:"domains,omitempty"`
}

// AllTupleDomain returns the unconstrained domain.
func AllTupleDomain() TupleDomain {
	return TupleDomain{}
}

// IsAll reports whether the domain places no constraint on any column.
func (d TupleDomain) IsAll() bool {
	return len(d.Domains) == 0
}

// Constraint is the planner's predicate summary passed to layout resolution.
type Constraint struct {
	Summary TupleDomain
}

// AlwaysTrue is the constraint that admits every row.
func AlwaysTrue() Constraint {
	return Constraint{Summary: AllTupleDomain()}
}

// TableLayout describes the single physical layout of a table. This store
// has no secondary indexes to exploit, so there is exactly one layout per
// table, with no partitioning columns and no local ordering properties.
type TableLayout struct {
	Handle    KVTableLayoutHandle
	Predicate TupleDomain
}

// TableLayoutResult pairs a layout with the portion of the constraint the
// layout could not enforce. The catalog enforces nothing, so the constraint
// summary comes back whole.
type TableLayoutResult struct {
	Layout     TableLayout
	Unenforced TupleDomain
}
