package value

import (
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/slate/internal/errors"
)

func num(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompare_Numbers(t *testing.T) {
	c, err := Compare(num("1.5"), num("2"))
	require.NoError(t, err)
	assert.Negative(t, c)

	c, err = Compare(num("2.00"), num("2"))
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestCompare_MixedTypesFails(t *testing.T) {
	_, err := Compare(num("1"), "1")

	var mismatch *errors.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCompare_Dates(t *testing.T) {
	a := date.New(2021, time.March, 1)
	b := date.New(2021, time.March, 2)

	c, err := Compare(a, b)
	require.NoError(t, err)
	assert.Negative(t, c)

	c, err = Compare(b, a)
	require.NoError(t, err)
	assert.Positive(t, c)
}

func TestCompare_Booleans(t *testing.T) {
	c, err := Compare(false, true)
	require.NoError(t, err)
	assert.Negative(t, c)
}

func TestCompareNullable_NullsSortLast(t *testing.T) {
	c, err := CompareNullable(nil, num("9999"))
	require.NoError(t, err)
	assert.Positive(t, c)

	c, err = CompareNullable(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(num("1.50"), num("1.5")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, num("0")))
	assert.False(t, Equal("1", num("1")))
	assert.True(t, Equal(72*time.Hour, 72*time.Hour))
}

func TestNormalize_NativeNumerics(t *testing.T) {
	// Key functions may return plain Go numerics; they behave as Numbers.
	c, err := Compare(3, num("4"))
	require.NoError(t, err)
	assert.Negative(t, c)

	c, err = CompareNullable(int64(10), 2)
	require.NoError(t, err)
	assert.Positive(t, c)

	assert.True(t, Equal(7, num("7")))
	assert.True(t, Equal(uint8(5), int64(5)))
	assert.Equal(t, Key(2), Key(num("2")))
	assert.Equal(t, Hash(3, "x"), Hash(num("3"), "x"))
}

func TestEqual_UnorderedTypesUseKeyEncoding(t *testing.T) {
	// Types without an ordering still agree with Key, so joins and
	// grouping see the same equality.
	type pair struct{ A, B string }
	assert.True(t, Equal(pair{"x", "y"}, pair{"x", "y"}))
	assert.False(t, Equal(pair{"x", "y"}, pair{"x", "z"}))
}

func TestKey_DecimalNormalization(t *testing.T) {
	assert.Equal(t, Key(num("1.5")), Key(num("1.500")))
	assert.Equal(t, Key(num("10")), Key(num("1e1")))
	assert.NotEqual(t, Key(num("1.5")), Key(num("15")))
}

func TestKey_TypePrefixesPreventCollisions(t *testing.T) {
	assert.NotEqual(t, Key("1"), Key(num("1")))
	assert.NotEqual(t, Key(nil), Key(""))
	assert.NotEqual(t, Key(true), Key("true"))
}

func TestKey_CompositeFraming(t *testing.T) {
	// A value must not bleed into the neighbouring key component.
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestHash_EqualValuesHashEqual(t *testing.T) {
	assert.Equal(t, Hash(num("2.0"), "x"), Hash(num("2"), "x"))
	assert.NotEqual(t, Hash("x"), Hash("y"))
}

func TestDateTime_MidnightUTC(t *testing.T) {
	d := date.New(2020, time.February, 29)

	ts := DateTime(d)
	assert.Equal(t, 2020, ts.Year())
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, 29, ts.Day())
	assert.Equal(t, time.UTC, ts.Location())
	assert.Zero(t, ts.Hour())
}
