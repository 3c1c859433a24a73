package datatypes

// TypeTester infers a column's data type from a sample of raw values by
// probing an ordered candidate list, most specific type first. The order
// is explicit configuration so callers (and tests) control precedence
// deterministically; there is no package-level mutable default.
type TypeTester struct {
	types []DataType
}

// NewTypeTester creates a tester over the given candidate types, probed in
// order. With no arguments it uses the default order: Boolean, Number,
// TimeDelta, Date, DateTime, Text.
func NewTypeTester(types ...DataType) *TypeTester {
	if len(types) == 0 {
		types = []DataType{
			NewBoolean(),
			NewNumber(),
			NewTimeDelta(),
			NewDate(),
			NewDateTime(),
			NewText(),
		}
	}
	return &TypeTester{types: types}
}

// Types returns the candidate list in probe order.
func (tt *TypeTester) Types() []DataType {
	out := make([]DataType, len(tt.types))
	copy(out, tt.types)
	return out
}

// Infer returns the first candidate type that casts every sampled value
// successfully. Null tokens cast successfully under every type, so a
// column of nothing but nulls infers as the first candidate that accepts
// them. Text, when present, always succeeds and acts as the fallback.
func (tt *TypeTester) Infer(sample []any) DataType {
	for _, dt := range tt.types {
		ok := true
		for _, raw := range sample {
			if !dt.Test(raw) {
				ok = false
				break
			}
		}
		if ok {
			return dt
		}
	}
	// No candidate accepted the sample and no Text fallback was
	// configured; fall back to Text so inference always yields a type.
	return NewText()
}
