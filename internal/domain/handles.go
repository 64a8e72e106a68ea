package domain

// TableHandle, ColumnHandle, and LayoutHandle are the opaque handle types
// the planner passes back into the catalog. The planner never inspects
// them; the handle codec in internal/catalog converts them back to the
// concrete KV* types and fails loudly on anything else.

// TableHandle is an opaque reference to a resolved table. Deliberately an
// empty interface: the engine treats handles as opaque tokens, and handing
// the wrong one back is an integration fault the codec reports, not a
// compile-time guarantee.
type TableHandle interface{}

// ColumnHandle is an opaque reference to a resolved column.
type ColumnHandle interface{}

// LayoutHandle is an opaque reference to a table layout.
type LayoutHandle interface{}

// ColumnOrigin tags where a column's bytes come from.
type ColumnOrigin string

const (
	// OriginKey marks a column decoded from the store key.
	OriginKey ColumnOrigin = "key"
	// OriginValue marks a column decoded from the store value.
	OriginValue ColumnOrigin = "value"
	// OriginInternal marks a synthetic column contributed by the internal
	// field registry.
	OriginInternal ColumnOrigin = "internal"
)

// KVTableHandle identifies one table of this connector. Identity is
// (ConnectorID, SchemaName, TableName); the remaining fields are resolved
// decoding metadata carried along for the execution layer. Immutable value
// type, rebuilt fresh on every resolver call.
type KVTableHandle struct {
	ConnectorID     string `json:"connectorId"`
	SchemaName      string `json:"schemaName"`
	TableName       string `json:"tableName"`
	KeyDataFormat   string `json:"keyDataFormat"`
	ValueDataFormat string `json:"valueDataFormat"`
	// KeyName is the key group's source name, empty when the description
	// declares no key group or no name on it.
	KeyName string `json:"keyName,omitempty"`
}

// SchemaTableName returns the qualified name the handle points at.
func (h KVTableHandle) SchemaTableName() SchemaTableName {
	return SchemaTableName{Schema: h.SchemaName, Table: h.TableName}
}

// KVColumnHandle identifies one column of a table, declared or internal.
// Immutable value type.
type KVColumnHandle struct {
	ConnectorID string       `json:"connectorId"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Mapping     string       `json:"mapping,omitempty"`
	DataFormat  string       `json:"dataFormat,omitempty"`
	FormatHint  string       `json:"formatHint,omitempty"`
	Origin      ColumnOrigin `json:"origin"`
	Ordinal     int          `json:"ordinal"`
	Hidden      bool         `json:"hidden,omitempty"`
}

// ColumnMetadata projects the handle as planner-facing metadata. This is a
// pure projection; it never goes back to the snapshot.
func (h KVColumnHandle) ColumnMetadata() ColumnMetadata {
	return ColumnMetadata{
		Name:    h.Name,
		Type:    h.Type,
		Ordinal: h.Ordinal,
		Hidden:  h.Hidden,
	}
}

// KVTableLayoutHandle wraps a table handle; each table has exactly one
// layout, so the wrapper carries no further state.
type KVTableLayoutHandle struct {
	Table KVTableHandle `json:"table"`
}

