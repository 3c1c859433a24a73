package datatypes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rickb777/period"

	"github.com/paveg/slate/internal/errors"
)

// TimeDeltaType casts raw values to durations. It accepts Go duration
// syntax ("1h30m"), clock notation ("1:30:00", "2 days, 3:04:05"), human
// phrases ("3 days", "2 weeks 1 hour") and ISO-8601 periods ("P1DT2H").
type TimeDeltaType struct {
	nullSet
}

// TimeDeltaOption configures a TimeDeltaType.
type TimeDeltaOption func(*TimeDeltaType)

// WithTimeDeltaNullTokens overrides the null token set.
func WithTimeDeltaNullTokens(tokens ...string) TimeDeltaOption {
	return func(t *TimeDeltaType) { t.nullSet = newNullSet(lowerAll(tokens)) }
}

// NewTimeDelta creates a TimeDelta data type.
func NewTimeDelta(opts ...TimeDeltaOption) *TimeDeltaType {
	t := &TimeDeltaType{nullSet: newNullSet(nil)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TimeDeltaType) Name() string { return "TimeDelta" }

func (t *TimeDeltaType) Test(raw any) bool {
	_, err := t.Cast(raw)
	return err == nil
}

func (t *TimeDeltaType) Cast(raw any) (any, error) {
	switch rv := raw.(type) {
	case nil:
		return nil, nil
	case time.Duration:
		return rv, nil
	case string:
		if t.matches(rv) {
			return nil, nil
		}
		return t.parseString(rv)
	default:
		return nil, errors.NewCastError(raw, fmt.Sprintf("can not cast %T to TimeDelta", raw))
	}
}

func (t *TimeDeltaType) parseString(raw string) (any, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "P") || strings.HasPrefix(s, "-P") {
		p, err := period.Parse(s)
		if err != nil {
			return nil, errors.NewCastError(raw, "not a valid ISO-8601 period")
		}
		d, _ := p.Duration()
		return d, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	if d, ok := parseClock(s); ok {
		return d, nil
	}

	if d, ok := parseHumanDuration(s); ok {
		return d, nil
	}

	return nil, errors.NewCastError(raw, "not a recognizable duration")
}

func (t *TimeDeltaType) ValidValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(time.Duration)
	return ok
}

func (t *TimeDeltaType) Compare(a, b any) (int, error) {
	return compareNullable(t, a, b)
}

func (t *TimeDeltaType) Format(v any) string {
	d, ok := v.(time.Duration)
	if !ok {
		return ""
	}
	return d.String()
}

// parseClock handles "H:MM:SS(.fff)", "MM:SS" and an optional
// "N day(s), " prefix, mirroring the rendering of common spreadsheet and
// database exports.
func parseClock(s string) (time.Duration, bool) {
	var days int64
	if idx := strings.Index(s, ","); idx >= 0 {
		prefix := strings.TrimSpace(s[:idx])
		fields := strings.Fields(prefix)
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "day") {
			return 0, false
		}
		n, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, false
		}
		days = n
		s = strings.TrimSpace(s[idx+1:])
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	if len(parts) == 2 {
		units = units[1:]
	}
	for i, part := range parts {
		if i == len(parts)-1 {
			sec, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0, false
			}
			total += time.Duration(sec * float64(units[i]))
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		total += time.Duration(n) * units[i]
	}

	total += time.Duration(days) * 24 * time.Hour
	if negative {
		total = -total
	}
	return total, true
}

// durationUnits maps human unit words to durations. Plural forms are
// normalized by trimming a trailing "s" before lookup.
var durationUnits = map[string]time.Duration{
	"week":        7 * 24 * time.Hour,
	"wk":          7 * 24 * time.Hour,
	"day":         24 * time.Hour,
	"d":           24 * time.Hour,
	"hour":        time.Hour,
	"hr":          time.Hour,
	"minute":      time.Minute,
	"min":         time.Minute,
	"second":      time.Second,
	"sec":         time.Second,
	"millisecond": time.Millisecond,
	"microsecond": time.Microsecond,
}

// parseHumanDuration handles phrases like "3 days" or "2 weeks 1 hour":
// alternating number and unit-word tokens, all summed.
func parseHumanDuration(s string) (time.Duration, bool) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) < 2 || len(fields)%2 != 0 {
		return 0, false
	}

	var total time.Duration
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0, false
		}
		unit, ok := durationUnits[strings.TrimSuffix(fields[i+1], "s")]
		if !ok {
			return 0, false
		}
		total += time.Duration(n * float64(unit))
	}
	return total, true
}
