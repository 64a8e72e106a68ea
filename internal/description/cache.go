package description

import (
	"context"
	"sync"

	"kvcatalog/internal/domain"
)

// Supplier memoizes one successful DescriptionSource fetch for the process
// lifetime. Concurrent first callers share a single underlying fetch: the
// mutex is held across the fetch, so late arrivals block until the first
// caller finishes and then read the stored snapshot. A failed fetch is not
// memoized; the error propagates unchanged and the next caller retries.
//
// There is no invalidation. A fresh snapshot requires a fresh Supplier,
// which in practice means a process restart.
type Supplier struct {
	source domain.DescriptionSource

	mu       sync.Mutex
	loaded   bool
	snapshot map[domain.SchemaTableName]domain.TableDescription
}

// NewSupplier wraps a source in a memoize-once cell.
func NewSupplier(source domain.DescriptionSource) *Supplier {
	return &Supplier{source: source}
}

// Get returns the memoized snapshot, fetching it on first use. The returned
// map is shared across all callers and must be treated as read-only.
func (s *Supplier) Get(ctx context.Context) (map[domain.SchemaTableName]domain.TableDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.snapshot, nil
	}
	snapshot, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshot = snapshot
	s.loaded = true
	return s.snapshot, nil
}
