package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastError_Message(t *testing.T) {
	err := NewCastError("abc", "can not parse as Decimal")

	assert.Contains(t, err.Error(), "abc")
	assert.Contains(t, err.Error(), "can not parse as Decimal")
	assert.NotContains(t, err.Error(), "column")
}

func TestCastError_WithContext(t *testing.T) {
	err := NewCastError("abc", "can not parse as Decimal").WithContext("price", 3)

	assert.Equal(t, "price", err.Column)
	assert.Equal(t, 3, err.Row)
	assert.Contains(t, err.Error(), `column "price"`)
	assert.Contains(t, err.Error(), "row 3")
}

func TestCastError_ErrorsAs(t *testing.T) {
	var cast *CastError
	wrapped := fmt.Errorf("loading table: %w", NewCastError("x", "bad value"))

	require.ErrorAs(t, wrapped, &cast)
	assert.Equal(t, "bad value", cast.Reason)
}

func TestColumnDoesNotExistError_Message(t *testing.T) {
	err := NewColumnDoesNotExistError("Select", "ghost")

	assert.Contains(t, err.Error(), "Select")
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestRowDoesNotExistError_Message(t *testing.T) {
	err := NewRowDoesNotExistError("Row", 10, 5)

	assert.Contains(t, err.Error(), "row 10")
	assert.Contains(t, err.Error(), "5 rows")
}

func TestErrorKinds_Is(t *testing.T) {
	dup := NewDuplicateColumnNameError("id")

	assert.ErrorIs(t, dup, NewDuplicateColumnNameError("id"))
	assert.NotErrorIs(t, dup, NewDuplicateColumnNameError("name"))
	assert.NotErrorIs(t, dup, errors.New("duplicate column name \"id\""))
}

func TestTypeMismatchError_Message(t *testing.T) {
	err := NewTypeMismatchError("Sum", "name", "Number", "Text")

	assert.Contains(t, err.Error(), `column "name"`)
	assert.Contains(t, err.Error(), "expected Number, got Text")
}

func TestValidationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewValidationError("Compute", "delta", "missing source column")
	err.Cause = cause

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestDivisionError_Message(t *testing.T) {
	err := NewDivisionError("ZScores", "score", "standard deviation is zero")

	assert.Contains(t, err.Error(), `column "score"`)
	assert.Contains(t, err.Error(), "standard deviation is zero")
}
