package domain

import "fmt"

// TableNotFoundError indicates the qualified name a handle or lookup points
// at is absent from the current snapshot. Tables can legitimately vanish
// between calls, so callers treat this as a reportable condition, not a
// bug.
type TableNotFoundError struct {
	Name SchemaTableName
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found", e.Name)
}

// InvalidHandleError indicates an opaque handle argument is not one of this
// connector's handle types. This is an integration fault: no retry, no
// fallback.
type InvalidHandleError struct {
	Message string
}

func (e *InvalidHandleError) Error() string { return e.Message }

// ValidationError indicates invalid input, such as a malformed table
// description document.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrTableNotFound creates a TableNotFoundError for the given name.
func ErrTableNotFound(name SchemaTableName) *TableNotFoundError {
	return &TableNotFoundError{Name: name}
}

// ErrInvalidHandle creates an InvalidHandleError with a formatted message.
func ErrInvalidHandle(format string, args ...interface{}) *InvalidHandleError {
	return &InvalidHandleError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
