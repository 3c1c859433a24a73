package datatypes

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rickb777/date/v2"

	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// DateType casts raw values to civil dates (no time of day, no zone).
type DateType struct {
	nullSet
	layout string
}

// DateOption configures a DateType.
type DateOption func(*DateType)

// WithDateLayout forces parsing with an explicit Go reference layout
// instead of the ISO and flexible fallbacks.
func WithDateLayout(layout string) DateOption {
	return func(d *DateType) { d.layout = layout }
}

// WithDateNullTokens overrides the null token set.
func WithDateNullTokens(tokens ...string) DateOption {
	return func(d *DateType) { d.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewDate creates a Date data type.
func NewDate(opts ...DateOption) *DateType {
	d := &DateType{nullSet: newNullSet(nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DateType) Name() string { return "Date" }

func (d *DateType) Test(raw any) bool {
	_, err := d.Cast(raw)
	return err == nil
}

func (d *DateType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case date.Date:
		return rv, nil
	case time.Time:
		return date.NewAt(rv), nil
	case string:
		if d.matches(rv) {
			return nil, nil
		}
		return d.parseString(rv)
	default:
		return nil, errors.NewCastError(raw, fmt.Sprintf("can not cast %T to Date", raw))
	}
}

func (d *DateType) parseString(raw string) (any, error) {
	if d.layout != "" {
		t, err := time.Parse(d.layout, raw)
		if err != nil {
			return nil, errors.NewCastError(raw, fmt.Sprintf("does not match date layout %q", d.layout))
		}
		return date.NewAt(t), nil
	}
	if dv, err := date.ParseISO(raw); err == nil {
		// ParseISO ignores any time field, so an ISO datetime string would
		// slip through as a Date. Re-parse the raw string and reject a
		// non-midnight clock.
		if t, terr := dateparse.ParseAny(raw); terr == nil && hasClock(t) {
			return nil, errors.NewCastError(raw, "value has a time component")
		}
		return dv, nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, errors.NewCastError(raw, "not a recognizable date")
	}
	// A value carrying a time of day is a DateTime, not a Date. Rejecting
	// it here keeps Date distinguishable from DateTime during inference.
	if hasClock(t) {
		return nil, errors.NewCastError(raw, "value has a time component")
	}
	return date.NewAt(t), nil
}

func hasClock(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0
}

func (d *DateType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(date.Date)
	return ok
}

func (d *DateType) Compare(a, b any) (int, error) {
	return compareNullable(d, a, b)
}

func (d *DateType) Format(v any) string {
	dv, ok := v.(date.Date)
	if !ok {
		return ""
	}
	return dv.String()
}

// Midnight returns the UTC midnight instant anchoring a civil date.
func Midnight(d date.Date) time.Time {
	return value.DateTime(d)
}
