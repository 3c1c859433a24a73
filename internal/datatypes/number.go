package datatypes

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/paveg/slate/internal/errors"
)

// currencySymbols are stripped from number strings before parsing.
const currencySymbols = "$¢£¤¥֏؋৳₡₦₩₪₫€₭₮₱₲₴₵₸₹₺₼₽₾"

// NumberType casts raw values to exact decimals. Binary floating point is
// never used: float inputs are rejected so callers cannot smuggle rounding
// drift into financial sums.
type NumberType struct {
	nullSet
	groupSep   string
	decimalSep string
}

// NumberOption configures a NumberType.
type NumberOption func(*NumberType)

// WithLocale selects the group and decimal separators for the given
// language. Locales are passed explicitly; the process environment is
// never consulted.
func WithLocale(tag language.Tag) NumberOption {
	return func(n *NumberType) {
		base, _ := tag.Base()
		n.groupSep, n.decimalSep = localeSeparators(base.String())
	}
}

// WithNumberNullTokens overrides the null token set.
func WithNumberNullTokens(tokens ...string) NumberOption {
	return func(n *NumberType) { n.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewNumber creates a Number data type. The default locale is English
// (comma groups, point decimal).
func NewNumber(opts ...NumberOption) *NumberType {
	n := &NumberType{
		nullSet:    newNullSet(nil),
		groupSep:   ",",
		decimalSep: ".",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *NumberType) Name() string { return "Number" }

func (n *NumberType) Test(raw any) bool {
	_, err := n.Cast(raw)
	return err == nil
}

func (n *NumberType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		return rv, nil
	case int:
		return decimal.NewFromInt(int64(rv)), nil
	case int32:
		return decimal.NewFromInt(int64(rv)), nil
	case int64:
		return decimal.NewFromInt(rv), nil
	case float32, float64:
		return nil, errors.NewCastError(raw, "binary floats are not exact; pass a string or decimal instead")
	case string:
		if n.matches(rv) {
			return nil, nil
		}
		return n.parseString(rv)
	default:
		return nil, errors.NewCastError(raw, fmt.Sprintf("can not cast %T to Number", raw))
	}
}

// parseString applies the locale and accounting rules: currency symbols and
// group separators are stripped, a trailing percent sign divides by 100,
// and parentheses denote a negative amount.
func (n *NumberType) parseString(raw string) (any, error) {
	s := strings.TrimSpace(raw)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(currencySymbols, r) || r == ' ' || r == ' ' || r == ' ' {
			continue
		}
		sb.WriteRune(r)
	}
	s = sb.String()

	if n.groupSep != "" {
		s = strings.ReplaceAll(s, n.groupSep, "")
	}
	if n.decimalSep != "." {
		s = strings.ReplaceAll(s, n.decimalSep, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.NewCastError(raw, "not a valid number")
	}
	if negative {
		d = d.Neg()
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, nil
}

func (n *NumberType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(decimal.Decimal)
	return ok
}

func (n *NumberType) Compare(a, b any) (int, error) {
	return compareNullable(n, a, b)
}

func (n *NumberType) Format(v any) string {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return ""
	}
	return d.String()
}

// localeSeparators maps a base language to its conventional group and
// decimal separators. The table covers the locales the parser is exercised
// with; unknown languages fall back to English conventions.
func localeSeparators(lang string) (group, dec string) {
	switch lang {
	case "de", "es", "it", "nl", "pt", "tr", "da", "id":
		return ".", ","
	case "fr", "ru", "sv", "fi", "nb", "pl", "cs", "uk":
		return " ", ","
	default:
		return ",", "."
	}
}
