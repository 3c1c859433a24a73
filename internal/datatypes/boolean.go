package datatypes

import (
	"fmt"
	"strings"

	"github.com/paveg/slate/internal/errors"
)

// BooleanType casts raw values to bool using configurable token sets.
type BooleanType struct {
	nullSet
	trueTokens  []string
	falseTokens []string
}

// BooleanOption configures a BooleanType.
type BooleanOption func(*BooleanType)

// WithTrueTokens overrides the strings recognized as true.
func WithTrueTokens(tokens ...string) BooleanOption {
	return func(b *BooleanType) { b.trueTokens = lowerAll(tokens) }
}

// WithFalseTokens overrides the strings recognized as false.
func WithFalseTokens(tokens ...string) BooleanOption {
	return func(b *BooleanType) { b.falseTokens = lowerAll(tokens) }
}

// WithBooleanNullTokens overrides the null token set.
func WithBooleanNullTokens(tokens ...string) BooleanOption {
	return func(b *BooleanType) { b.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewBoolean creates a Boolean data type with the default token sets.
func NewBoolean(opts ...BooleanOption) *BooleanType {
	b := &BooleanType{
		nullSet:     newNullSet(nil),
		trueTokens:  []string{"yes", "y", "true", "t", "1"},
		falseTokens: []string{"no", "n", "false", "f", "0"},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BooleanType) Name() string { return "Boolean" }

func (b *BooleanType) Test(raw any) bool {
	_, err := b.Cast(raw)
	return err == nil
}

func (b *BooleanType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return rv, nil
	case int:
		return intToBool(int64(rv))
	case int64:
		return intToBool(rv)
	case string:
		if b.matches(rv) {
			return nil, nil
		}
		s := strings.ToLower(strings.TrimSpace(rv))
		for _, tok := range b.trueTokens {
			if s == tok {
				return true, nil
			}
		}
		for _, tok := range b.falseTokens {
			if s == tok {
				return false, nil
			}
		}
		return nil, errors.NewCastError(raw, "not a recognized true, false or null token")
	default:
		return nil, errors.NewCastError(raw, fmt.Sprintf("can not cast %T to Boolean", raw))
	}
}

func (b *BooleanType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(bool)
	return ok
}

func (b *BooleanType) Compare(x, y any) (int, error) {
	return compareNullable(b, x, y)
}

func (b *BooleanType) Format(v any) string {
	bv, ok := v.(bool)
	if !ok {
		return ""
	}
	if bv {
		return "true"
	}
	return "false"
}

func intToBool(n int64) (any, error) {
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, errors.NewCastError(n, "only 0 and 1 cast to Boolean")
	}
}

func lowerAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}
