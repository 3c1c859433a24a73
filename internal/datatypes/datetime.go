package datatypes

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rickb777/date/v2"

	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/value"
)

// DateTimeType casts raw values to instants. Zone-less input strings are
// interpreted in the type's configured location (UTC by default).
type DateTimeType struct {
	nullSet
	layout   string
	location *time.Location
}

// DateTimeOption configures a DateTimeType.
type DateTimeOption func(*DateTimeType)

// WithDateTimeLayout forces parsing with an explicit Go reference layout.
func WithDateTimeLayout(layout string) DateTimeOption {
	return func(d *DateTimeType) { d.layout = layout }
}

// WithLocation sets the location applied to zone-less input.
func WithLocation(loc *time.Location) DateTimeOption {
	return func(d *DateTimeType) { d.location = loc }
}

// WithDateTimeNullTokens overrides the null token set.
func WithDateTimeNullTokens(tokens ...string) DateTimeOption {
	return func(d *DateTimeType) { d.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewDateTime creates a DateTime data type.
func NewDateTime(opts ...DateTimeOption) *DateTimeType {
	d := &DateTimeType{nullSet: newNullSet(nil), location: time.UTC}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DateTimeType) Name() string { return "DateTime" }

// Location returns the location applied to zone-less input strings.
func (d *DateTimeType) Location() *time.Location { return d.location }

func (d *DateTimeType) Test(raw any) bool {
	_, err := d.Cast(raw)
	return err == nil
}

func (d *DateTimeType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return rv, nil
	case date.Date:
		return value.DateTime(rv).In(d.location), nil
	case string:
		if d.matches(rv) {
			return nil, nil
		}
		return d.parseString(rv)
	default:
		return nil, errors.NewCastError(raw, fmt.Sprintf("can not cast %T to DateTime", raw))
	}
}

func (d *DateTimeType) parseString(raw string) (any, error) {
	if d.layout != "" {
		t, err := time.ParseInLocation(d.layout, raw, d.location)
		if err != nil {
			return nil, errors.NewCastError(raw, fmt.Sprintf("does not match datetime layout %q", d.layout))
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(raw, d.location)
	if err != nil {
		return nil, errors.NewCastError(raw, "not a recognizable datetime")
	}
	return t, nil
}

func (d *DateTimeType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(time.Time)
	return ok
}

func (d *DateTimeType) Compare(a, b any) (int, error) {
	return compareNullable(d, a, b)
}

func (d *DateTimeType) Format(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		return ""
	}
	return t.Format(time.RFC3339)
}
