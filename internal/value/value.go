// Package value provides comparison, equality and key-encoding helpers for
// the typed cell values used by table columns: bool, decimal.Decimal,
// string, date.Date, time.Time and time.Duration. Null cells are untyped
// nil. All table algebra (sorting, ranking, joins, grouping, distinct)
// funnels through these helpers so the value semantics live in one place.
package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/errors"
)

// IsNull reports whether a cell value is the null sentinel.
func IsNull(v any) bool {
	return v == nil
}

// TypeName returns a short name for the dynamic type of a cell value,
// used in error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "Boolean"
	case decimal.Decimal:
		return "Number"
	case string:
		return "Text"
	case date.Date:
		return "Date"
	case time.Time:
		return "DateTime"
	case time.Duration:
		return "TimeDelta"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Normalize maps Go-native numeric values onto the canonical Number
// representation, so key functions may return plain ints or floats and
// still participate in sorting, joining and grouping. Cell values and
// other types pass through unchanged.
func Normalize(v any) any {
	switch tv := v.(type) {
	case int:
		return decimal.NewFromInt(int64(tv))
	case int8:
		return decimal.NewFromInt(int64(tv))
	case int16:
		return decimal.NewFromInt(int64(tv))
	case int32:
		return decimal.NewFromInt(int64(tv))
	case int64:
		return decimal.NewFromInt(tv)
	case uint:
		return decimal.NewFromUint64(uint64(tv))
	case uint8:
		return decimal.NewFromUint64(uint64(tv))
	case uint16:
		return decimal.NewFromUint64(uint64(tv))
	case uint32:
		return decimal.NewFromUint64(uint64(tv))
	case uint64:
		return decimal.NewFromUint64(tv)
	case float32:
		return decimal.NewFromFloat32(tv)
	case float64:
		return decimal.NewFromFloat(tv)
	default:
		return v
	}
}

// Compare orders two non-null cell values of the same dynamic type.
// It returns a negative number, zero, or a positive number when a is less
// than, equal to, or greater than b. Native numeric values are normalized
// first; values of different or unsupported types produce a
// TypeMismatchError.
func Compare(a, b any) (int, error) {
	a, b = Normalize(a), Normalize(b)
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		switch {
		case av == bv:
			return 0, nil
		case bv: // false < true
			return -1, nil
		default:
			return 1, nil
		}
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		return av.Cmp(bv), nil
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		return strings.Compare(av, bv), nil
	case date.Date:
		bv, ok := b.(date.Date)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		return DateTime(av).Compare(DateTime(bv)), nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		return av.Compare(bv), nil
	case time.Duration:
		bv, ok := b.(time.Duration)
		if !ok {
			return 0, compareMismatch(a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errors.NewTypeMismatchError("Compare", "", "a supported cell value", TypeName(a))
	}
}

func compareMismatch(a, b any) error {
	return errors.NewTypeMismatchError("Compare", "", TypeName(a), TypeName(b))
}

// CompareNullable orders two cell values where either may be null. Null
// compares greater than every non-null value, so ascending sorts place
// nulls last. Two nulls compare equal.
func CompareNullable(a, b any) (int, error) {
	switch {
	case IsNull(a) && IsNull(b):
		return 0, nil
	case IsNull(a):
		return 1, nil
	case IsNull(b):
		return -1, nil
	default:
		return Compare(a, b)
	}
}

// Equal reports whether two cell values are equal. Nulls equal only nulls;
// values of different types are never equal. Values without an ordering
// fall back to their canonical key encoding, keeping Equal consistent
// with Key for joins and grouping.
func Equal(a, b any) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	c, err := Compare(a, b)
	if err != nil {
		return Key(a) == Key(b)
	}
	return c == 0
}

// EncodeKey appends a canonical, type-prefixed encoding of a cell value to
// the builder. Encodings are injective per value so that two values encode
// identically exactly when Equal reports true; in particular decimals are
// normalized so 1.50 and 1.5 share one encoding, and native numerics share
// the Number encoding. String payloads carry a length prefix so composite
// keys cannot collide across field boundaries.
func EncodeKey(sb *strings.Builder, v any) {
	switch tv := Normalize(v).(type) {
	case nil:
		sb.WriteString("z;")
	case bool:
		if tv {
			sb.WriteString("b1;")
		} else {
			sb.WriteString("b0;")
		}
	case decimal.Decimal:
		s := canonicalDecimal(tv)
		sb.WriteByte('n')
		sb.WriteString(s)
		sb.WriteByte(';')
	case string:
		sb.WriteByte('t')
		sb.WriteString(strconv.Itoa(len(tv)))
		sb.WriteByte(':')
		sb.WriteString(tv)
		sb.WriteByte(';')
	case date.Date:
		sb.WriteByte('d')
		sb.WriteString(tv.String())
		sb.WriteByte(';')
	case time.Time:
		sb.WriteByte('s')
		sb.WriteString(strconv.FormatInt(tv.UnixNano(), 10))
		sb.WriteByte(';')
	case time.Duration:
		sb.WriteByte('u')
		sb.WriteString(strconv.FormatInt(int64(tv), 10))
		sb.WriteByte(';')
	default:
		sb.WriteByte('?')
		sb.WriteString(fmt.Sprint(tv))
		sb.WriteByte(';')
	}
}

// Key returns the canonical encoding of one or more cell values as a single
// composite key string.
func Key(values ...any) string {
	var sb strings.Builder
	for _, v := range values {
		EncodeKey(&sb, v)
	}
	return sb.String()
}

// Hash returns a 64-bit hash of the canonical encoding of the given values.
// Equal values always hash identically; the caller must confirm candidate
// matches with Equal to rule out collisions.
func Hash(values ...any) uint64 {
	return xxhash.Sum64String(Key(values...))
}

// DateTime converts a civil date to the UTC midnight instant that anchor it.
// Date arithmetic and ordering go through this conversion.
func DateTime(d date.Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// canonicalDecimal strips insignificant trailing zeros so numerically equal
// decimals share one representation.
func canonicalDecimal(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
