package domain

import "context"

// DescriptionSource supplies the full mapping from qualified table name to
// table description. The catalog calls FetchAll at most once per process
// (through the memoizing supplier); fetch-level timeouts and retries are the
// source's own concern.
// Implemented by description.FileSource.
type DescriptionSource interface {
	FetchAll(ctx context.Context) (map[SchemaTableName]TableDescription, error)
}

// SnapshotProvider hands out the current description snapshot. The resolver
// depends on this narrow port rather than the memoizing supplier directly;
// in production the provider is description.Supplier, so every call after
// the first observes the identical snapshot.
type SnapshotProvider interface {
	Get(ctx context.Context) (map[SchemaTableName]TableDescription, error)
}
