package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdio "io"

	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/table"
)

// Read reads JSON data and returns a typed table. Input is either a
// single array of objects or JSON Lines (one object per line); numbers
// are read as their exact literal text, never as binary floats, so they
// survive the Number column's decimal cast intact. Column order follows
// the key order of the first object; keys that first appear in later
// objects are appended in appearance order, and objects missing a key
// yield null cells.
func (r *JSONReader) Read() (*table.Table, error) {
	data, err := stdio.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	var objects []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if r.options.Lines {
		for dec.More() {
			var obj map[string]any
			if err := dec.Decode(&obj); err != nil {
				return nil, fmt.Errorf("parsing JSON line %d: %w", len(objects)+1, err)
			}
			objects = append(objects, obj)
		}
	} else {
		if err := dec.Decode(&objects); err != nil {
			return nil, fmt.Errorf("parsing JSON array: %w", err)
		}
	}

	keys, err := objectKeyOrder(data)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	// Maps lose key order, so late-appearing keys are recovered by
	// re-scanning each object's raw order only when something is missing.
	for _, obj := range objects {
		if len(seen) == len(obj) {
			continue
		}
		for k := range obj {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}

	specs := make([]table.ColumnSpec, len(keys))
	for i, name := range keys {
		specs[i] = table.ColumnSpec{Name: name, Type: schemaType(r.options.Schema, name)}
	}

	raw := make([][]any, len(objects))
	for ri, obj := range objects {
		row := make([]any, len(keys))
		for ci, key := range keys {
			row[ci] = jsonCell(obj[key])
		}
		raw[ri] = row
	}

	return table.NewFromRaw(specs, raw, rawOptions(r.options.TypeTester, r.options.SampleSize)...)
}

// jsonCell converts a decoded JSON value into a raw cell value for the
// type system. Numbers become their literal text.
func jsonCell(v any) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case json.Number:
		return tv.String()
	case string, bool:
		return tv
	default:
		return fmt.Sprint(tv)
	}
}

// objectKeyOrder extracts the key order of the first object in the input
// by walking its tokens.
func objectKeyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil // no object present; empty input
		}
		if delim, ok := tok.(json.Delim); ok && delim == '{' {
			break
		}
	}

	var keys []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON object keys: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return keys, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing JSON object keys: unexpected token %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
}

// skipValue consumes one JSON value, descending through nested
// containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parsing JSON value: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parsing JSON value: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// Write writes the table as JSON: an array of objects by default, or one
// object per line with Lines. Numbers are emitted as exact decimal
// literals, temporal values as their canonical string forms.
func (w *JSONWriter) Write(t *table.Table) error {
	columns := t.Columns()

	var buf bytes.Buffer
	if !w.options.Lines {
		buf.WriteByte('[')
	}
	for i, row := range t.Rows() {
		if i > 0 {
			if w.options.Lines {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(',')
			}
		}
		buf.WriteByte('{')
		for ci, col := range columns {
			if ci > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col.Name())
			if err != nil {
				return fmt.Errorf("encoding column name %q: %w", col.Name(), err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			encoded, err := jsonValue(col, row.Cells()[ci])
			if err != nil {
				return err
			}
			buf.Write(encoded)
		}
		buf.WriteByte('}')
	}
	if !w.options.Lines {
		buf.WriteByte(']')
	}

	out := buf.Bytes()
	if w.options.Indent != "" && !w.options.Lines {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", w.options.Indent); err != nil {
			return fmt.Errorf("indenting JSON: %w", err)
		}
		out = indented.Bytes()
	}
	if _, err := w.writer.Write(out); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	if w.options.Lines && t.NumRows() > 0 {
		if _, err := w.writer.Write([]byte("\n")); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}
	return nil
}

// jsonValue encodes one typed cell as JSON. Numbers write as raw decimal
// literals so the round trip through Read is exact.
func jsonValue(col *table.Column, cell any) ([]byte, error) {
	switch tv := cell.(type) {
	case nil:
		return []byte("null"), nil
	case bool:
		if tv {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case decimal.Decimal:
		return []byte(tv.String()), nil
	default:
		encoded, err := json.Marshal(col.DataType().Format(cell))
		if err != nil {
			return nil, fmt.Errorf("encoding column %q: %w", col.Name(), err)
		}
		return encoded, nil
	}
}
