package domain

// InternalFieldDescription describes one synthetic column of store-level
// metadata. Every table exposes the full registry in addition to its
// declared fields; whether the columns are hidden is a connector-wide
// configuration choice, not a per-column one.
type InternalFieldDescription struct {
	Name    string
	Type    string
	Comment string
}

// Reserved names of the internal fields. The underscore prefix keeps them
// out of the declared-field namespace by convention; collisions are not
// validated (a declared field of the same name shadows the internal one in
// the column-handle map).
const (
	InternalKeyField          = "_key"
	InternalValueField        = "_value"
	InternalKeyLengthField    = "_key_length"
	InternalValueLengthField  = "_value_length"
	InternalKeyCorruptField   = "_key_corrupt"
	InternalValueCorruptField = "_value_corrupt"
)

// InternalFields returns the fixed, configuration-independent registry of
// internal fields, in registry order. Ordinal assignment depends on this
// order being stable across calls.
func InternalFields() []InternalFieldDescription {
	return []InternalFieldDescription{
		{Name: InternalKeyField, Type: "varchar", Comment: "Raw key bytes"},
		{Name: InternalValueField, Type: "varchar", Comment: "Raw value bytes"},
		{Name: InternalKeyLengthField, Type: "bigint", Comment: "Raw key length in bytes"},
		{Name: InternalValueLengthField, Type: "bigint", Comment: "Raw value length in bytes"},
		{Name: InternalKeyCorruptField, Type: "boolean", Comment: "True if the key could not be decoded"},
		{Name: InternalValueCorruptField, Type: "boolean", Comment: "True if the value could not be decoded"},
	}
}

// ColumnHandleFor builds the handle for this internal field at the given
// ordinal. Hidden follows the connector's hide-internal-columns flag.
func (f InternalFieldDescription) ColumnHandleFor(connectorID string, ordinal int, hidden bool) KVColumnHandle {
	return KVColumnHandle{
		ConnectorID: connectorID,
		Name:        f.Name,
		Type:        f.Type,
		Origin:      OriginInternal,
		Ordinal:     ordinal,
		Hidden:      hidden,
	}
}

// ColumnMetadataAt projects the internal field as column metadata.
func (f InternalFieldDescription) ColumnMetadataAt(ordinal int, hidden bool) ColumnMetadata {
	return ColumnMetadata{
		Name:    f.Name,
		Type:    f.Type,
		Ordinal: ordinal,
		Comment: f.Comment,
		Hidden:  hidden,
	}
}
