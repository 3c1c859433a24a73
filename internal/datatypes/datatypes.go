// Package datatypes implements the pluggable data type system for table
// columns. Each DataType owns the rules for casting raw ingress values
// (strings or native scalars) into the typed cell representation, for
// recognizing its null tokens, and for comparing and formatting typed
// values. Dispatch is interface based; no type is ever selected by name.
package datatypes

import (
	"strings"

	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// DataType governs parsing, casting and null recognition for one column.
type DataType interface {
	// Name returns the type name used in schemas and error messages.
	Name() string

	// Test reports whether raw could plausibly be cast to this type.
	Test(raw any) bool

	// Cast converts a raw ingress value into the typed cell value, or nil
	// when raw matches the type's null token set. Unparseable non-null
	// values fail with a CastError.
	Cast(raw any) (any, error)

	// ValidValue reports whether v is an acceptable already-typed cell
	// value for this type. Null is always valid.
	ValidValue(v any) bool

	// Compare orders two cell values of this type. Null compares greater
	// than any non-null value.
	Compare(a, b any) (int, error)

	// Format renders a typed cell value as its canonical string form.
	// Null renders as the empty string.
	Format(v any) string

	// NullTokens returns the strings this type recognizes as null.
	NullTokens() []string
}

// DefaultNullTokens are the strings every type treats as null unless
// overridden, matched case-insensitively after trimming space.
func DefaultNullTokens() []string {
	return []string{"", "na", "n/a", "none", "null", "."}
}

// nullSet holds a type's null token set with case-insensitive matching.
type nullSet struct {
	tokens []string
}

func newNullSet(tokens []string) nullSet {
	if tokens == nil {
		tokens = DefaultNullTokens()
	}
	return nullSet{tokens: tokens}
}

func (n nullSet) NullTokens() []string {
	out := make([]string, len(n.tokens))
	copy(out, n.tokens)
	return out
}

// matches reports whether the trimmed raw string is a null token.
func (n nullSet) matches(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tok := range n.tokens {
		if s == tok {
			return true
		}
	}
	return false
}

// compareNullable is the shared Compare implementation: delegate to the
// value package's null-aware ordering after checking both operands are
// valid for the type.
func compareNullable(dt DataType, a, b any) (int, error) {
	for _, v := range []any{a, b} {
		if !dt.ValidValue(v) {
			return 0, errors.NewTypeMismatchError("Compare", "", dt.Name(), value.TypeName(v))
		}
	}
	return value.CompareNullable(a, b)
}
