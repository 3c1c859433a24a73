// Package io provides adapters between tables and external data
// representations: CSV, JSON and Arrow records. Adapters are consumers of
// the table core's public iteration surface and producers of raw cell
// values for the type system; no file format knowledge lives in the core.
package io

import (
	"io"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/table"
)

// TableReader reads data from a source and produces a table.
type TableReader interface {
	Read() (*table.Table, error)
}

// TableWriter serializes a table to a destination.
type TableWriter interface {
	Write(t *table.Table) error
}

// CSVOptions contains configuration options for CSV operations.
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma).
	Delimiter rune
	// Comment is the comment character (0 disables comment handling).
	Comment rune
	// Header indicates whether the first row contains column names.
	Header bool
	// SkipInitialSpace trims leading whitespace in fields.
	SkipInitialSpace bool
	// Schema forces data types for the named columns; columns not listed
	// are inferred.
	Schema []table.ColumnSpec
	// TypeTester overrides the inference candidate ordering.
	TypeTester *datatypes.TypeTester
	// SampleSize overrides the number of rows sampled during inference.
	SampleSize int
}

// DefaultCSVOptions returns default CSV options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Header:    true,
	}
}

// CSVReader reads CSV data and casts it into a typed table.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a new CSV reader with the specified options.
func NewCSVReader(reader io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{reader: reader, options: options}
}

// CSVWriter writes tables in CSV format.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: writer, options: options}
}

// JSONOptions contains configuration options for JSON operations.
type JSONOptions struct {
	// Lines selects JSON Lines (one object per line) instead of a single
	// array of objects.
	Lines bool
	// Indent sets the indentation for array output; empty writes compact
	// JSON.
	Indent string
	// Schema forces data types for the named columns.
	Schema []table.ColumnSpec
	// TypeTester overrides the inference candidate ordering.
	TypeTester *datatypes.TypeTester
	// SampleSize overrides the number of rows sampled during inference.
	SampleSize int
}

// DefaultJSONOptions returns default JSON options.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{}
}

// JSONReader reads JSON data and casts it into a typed table.
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a new JSON reader with the specified options.
func NewJSONReader(reader io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{reader: reader, options: options}
}

// JSONWriter writes tables in JSON format.
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options.
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{writer: writer, options: options}
}

// schemaType resolves a forced type for a column name from an options
// schema; nil requests inference.
func schemaType(schema []table.ColumnSpec, name string) datatypes.DataType {
	for _, spec := range schema {
		if spec.Name == name {
			return spec.Type
		}
	}
	return nil
}

// rawOptions assembles the table construction options shared by the
// readers.
func rawOptions(tester *datatypes.TypeTester, sampleSize int) []table.RawOption {
	var opts []table.RawOption
	if tester != nil {
		opts = append(opts, table.WithTypeTester(tester))
	}
	if sampleSize > 0 {
		opts = append(opts, table.WithSampleSize(sampleSize))
	}
	return opts
}
