// Package errors provides standardized error types for table operations.
// This package defines one error type per failure kind so callers can
// dispatch with errors.As, with operation context and error wrapping support.
package errors

import (
	"fmt"
)

// CastError reports a value that could not be parsed under the active
// DataType rules. Row is -1 when the failing value has no row context.
type CastError struct {
	Column string // Column name if known
	Row    int    // Row index, -1 when unknown
	Value  any    // The raw value that failed to cast
	Reason string // Human-readable cause
}

// Error implements the error interface
func (e *CastError) Error() string {
	switch {
	case e.Column != "" && e.Row >= 0:
		return fmt.Sprintf("cast failed on column %q row %d: can not cast %q: %s", e.Column, e.Row, fmt.Sprint(e.Value), e.Reason)
	case e.Column != "":
		return fmt.Sprintf("cast failed on column %q: can not cast %q: %s", e.Column, fmt.Sprint(e.Value), e.Reason)
	default:
		return fmt.Sprintf("can not cast %q: %s", fmt.Sprint(e.Value), e.Reason)
	}
}

// Is implements error equality checking for errors.Is()
func (e *CastError) Is(target error) bool {
	t, ok := target.(*CastError)
	if !ok {
		return false
	}
	return e.Column == t.Column && e.Row == t.Row && e.Reason == t.Reason
}

// NewCastError creates an error for an unparseable value without row context
func NewCastError(value any, reason string) *CastError {
	return &CastError{Column: "", Row: -1, Value: value, Reason: reason}
}

// WithContext returns a copy of the error annotated with column and row
// information. It is used when a bare cast failure surfaces through a
// table-level operation that knows the position of the offending cell.
func (e *CastError) WithContext(column string, row int) *CastError {
	return &CastError{Column: column, Row: row, Value: e.Value, Reason: e.Reason}
}

// ColumnDoesNotExistError reports access to a column name that is not part
// of the table schema.
type ColumnDoesNotExistError struct {
	Op   string // Operation name (e.g., "Select", "GroupBy")
	Name string // The missing column name
}

// Error implements the error interface
func (e *ColumnDoesNotExistError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s operation failed: column %q does not exist", e.Op, e.Name)
	}
	return fmt.Sprintf("column %q does not exist", e.Name)
}

// Is implements error equality checking for errors.Is()
func (e *ColumnDoesNotExistError) Is(target error) bool {
	t, ok := target.(*ColumnDoesNotExistError)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Name == t.Name
}

// NewColumnDoesNotExistError creates an error for operations on non-existent columns
func NewColumnDoesNotExistError(op, name string) *ColumnDoesNotExistError {
	return &ColumnDoesNotExistError{Op: op, Name: name}
}

// RowDoesNotExistError reports access to a row index outside the table.
type RowDoesNotExistError struct {
	Op     string // Operation name
	Index  int    // The requested row index
	Length int    // Number of rows in the table
}

// Error implements the error interface
func (e *RowDoesNotExistError) Error() string {
	return fmt.Sprintf("%s operation failed: row %d does not exist (table has %d rows)", e.Op, e.Index, e.Length)
}

// Is implements error equality checking for errors.Is()
func (e *RowDoesNotExistError) Is(target error) bool {
	t, ok := target.(*RowDoesNotExistError)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Index == t.Index && e.Length == t.Length
}

// NewRowDoesNotExistError creates an error for out-of-range row access
func NewRowDoesNotExistError(op string, index, length int) *RowDoesNotExistError {
	return &RowDoesNotExistError{Op: op, Index: index, Length: length}
}

// DuplicateColumnNameError reports a table construction with two columns of
// the same name.
type DuplicateColumnNameError struct {
	Name string // The duplicated column name
}

// Error implements the error interface
func (e *DuplicateColumnNameError) Error() string {
	return fmt.Sprintf("duplicate column name %q", e.Name)
}

// Is implements error equality checking for errors.Is()
func (e *DuplicateColumnNameError) Is(target error) bool {
	t, ok := target.(*DuplicateColumnNameError)
	if !ok {
		return false
	}
	return e.Name == t.Name
}

// NewDuplicateColumnNameError creates an error for a duplicated column name
func NewDuplicateColumnNameError(name string) *DuplicateColumnNameError {
	return &DuplicateColumnNameError{Name: name}
}

// TypeMismatchError reports an aggregation, computation, join or comparison
// applied to a column of an incompatible data type.
type TypeMismatchError struct {
	Op       string // Operation name (e.g., "Sum", "ZScores")
	Column   string // Column name if applicable
	Expected string // Expected data type name(s)
	Actual   string // Actual data type name
}

// Error implements the error interface
func (e *TypeMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column %q: expected %s, got %s", e.Op, e.Column, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s operation failed: expected %s, got %s", e.Op, e.Expected, e.Actual)
}

// Is implements error equality checking for errors.Is()
func (e *TypeMismatchError) Is(target error) bool {
	t, ok := target.(*TypeMismatchError)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Column == t.Column && e.Expected == t.Expected && e.Actual == t.Actual
}

// NewTypeMismatchError creates an error for unsupported column data types
func NewTypeMismatchError(op, column, expected, actual string) *TypeMismatchError {
	return &TypeMismatchError{Op: op, Column: column, Expected: expected, Actual: actual}
}

// ValidationError reports a pre-run validation failure of a computation or
// aggregation, or invalid operation input.
type ValidationError struct {
	Op      string // Operation name
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s validation failed on column %q: %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Column == t.Column && e.Message == t.Message
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *ValidationError {
	return &ValidationError{Op: op, Column: column, Message: message}
}

// DivisionError reports a computation that would divide by zero, such as
// z-scores over a column with zero variance.
type DivisionError struct {
	Op      string // Operation name
	Column  string // Column name if applicable
	Message string // Human-readable error description
}

// Error implements the error interface
func (e *DivisionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column %q: %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Is implements error equality checking for errors.Is()
func (e *DivisionError) Is(target error) bool {
	t, ok := target.(*DivisionError)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Column == t.Column && e.Message == t.Message
}

// NewDivisionError creates an error for divisions with a zero divisor
func NewDivisionError(op, column, message string) *DivisionError {
	return &DivisionError{Op: op, Column: column, Message: message}
}
