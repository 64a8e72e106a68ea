package catalog

import (
	"kvcatalog/internal/domain"
)

// HandleResolver converts the opaque handle types of the planner vocabulary
// back into this connector's concrete handles. Exactly one conversion
// exists per handle kind; anything but the expected concrete type is an
// integration fault and fails with InvalidHandleError.
type HandleResolver struct{}

// NewHandleResolver creates a HandleResolver.
func NewHandleResolver() *HandleResolver {
	return &HandleResolver{}
}

// ConvertTableHandle unwraps an opaque table handle.
func (r *HandleResolver) ConvertTableHandle(h domain.TableHandle) (domain.KVTableHandle, error) {
	switch t := h.(type) {
	case domain.KVTableHandle:
		return t, nil
	case *domain.KVTableHandle:
		if t != nil {
			return *t, nil
		}
	}
	return domain.KVTableHandle{}, domain.ErrInvalidHandle("table handle is not a kv table handle: %T", h)
}

// ConvertColumnHandle unwraps an opaque column handle.
func (r *HandleResolver) ConvertColumnHandle(h domain.ColumnHandle) (domain.KVColumnHandle, error) {
	switch c := h.(type) {
	case domain.KVColumnHandle:
		return c, nil
	case *domain.KVColumnHandle:
		if c != nil {
			return *c, nil
		}
	}
	return domain.KVColumnHandle{}, domain.ErrInvalidHandle("column handle is not a kv column handle: %T", h)
}

// ConvertLayout unwraps an opaque layout handle.
func (r *HandleResolver) ConvertLayout(h domain.LayoutHandle) (domain.KVTableLayoutHandle, error) {
	switch l := h.(type) {
	case domain.KVTableLayoutHandle:
		return l, nil
	case *domain.KVTableLayoutHandle:
		if l != nil {
			return *l, nil
		}
	}
	return domain.KVTableLayoutHandle{}, domain.ErrInvalidHandle("layout handle is not a kv table layout handle: %T", h)
}
