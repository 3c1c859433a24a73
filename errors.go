package slate

import "github.com/paveg/slate/internal/errors"

// Error types returned by table operations, re-exported so callers can
// match them with errors.As and errors.Is.
type (
	// CastError reports a raw value that could not be cast to a column type.
	CastError = errors.CastError
	// ColumnDoesNotExistError reports a reference to an unknown column.
	ColumnDoesNotExistError = errors.ColumnDoesNotExistError
	// RowDoesNotExistError reports a row index out of range.
	RowDoesNotExistError = errors.RowDoesNotExistError
	// DuplicateColumnNameError reports a column name collision.
	DuplicateColumnNameError = errors.DuplicateColumnNameError
	// TypeMismatchError reports an operation applied to a column of the
	// wrong type.
	TypeMismatchError = errors.TypeMismatchError
	// ValidationError reports invalid operation inputs.
	ValidationError = errors.ValidationError
	// DivisionError reports a division by zero during a computation.
	DivisionError = errors.DivisionError
)
