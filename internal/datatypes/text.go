package datatypes

import (
	"fmt"
)

// TextType casts raw values to strings. Every non-null value has a string
// form, so Text is the inference fallback that always succeeds.
type TextType struct {
	nullSet
}

// TextOption configures a TextType.
type TextOption func(*TextType)

// WithTextNullTokens overrides the null token set.
func WithTextNullTokens(tokens ...string) TextOption {
	return func(t *TextType) { t.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewText creates a Text data type.
func NewText(opts ...TextOption) *TextType {
	t := &TextType{nullSet: newNullSet(nil)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TextType) Name() string { return "Text" }

func (t *TextType) Test(raw any) bool { return true }

func (t *TextType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if t.matches(rv) {
			return nil, nil
		}
		return rv, nil
	default:
		return fmt.Sprint(rv), nil
	}
}

func (t *TextType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

func (t *TextType) Compare(a, b any) (int, error) {
	return compareNullable(t, a, b)
}

func (t *TextType) Format(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
