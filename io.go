package slate

import (
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	slateio "github.com/paveg/slate/internal/io"
)

// I/O options, re-exported from the io layer.
type (
	CSVOptions     = slateio.CSVOptions
	JSONOptions    = slateio.JSONOptions
	ParquetOptions = slateio.ParquetOptions
)

// DefaultCSVOptions returns CSV options with comma delimiter and a header row.
func DefaultCSVOptions() CSVOptions { return slateio.DefaultCSVOptions() }

// DefaultJSONOptions returns JSON options for an array of objects.
func DefaultJSONOptions() JSONOptions { return slateio.DefaultJSONOptions() }

// DefaultParquetOptions returns Parquet options with snappy compression.
func DefaultParquetOptions() ParquetOptions { return slateio.DefaultParquetOptions() }

// FromCSV reads CSV data into a table, inferring column types unless the
// options carry a schema.
func FromCSV(r io.Reader, options CSVOptions) (*Table, error) {
	t, err := slateio.NewCSVReader(r, options).Read()
	if err != nil {
		return nil, err
	}
	return wrapTable(t), nil
}

// FromCSVFile reads a CSV file into a table.
func FromCSVFile(path string, options CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromCSV(f, options)
}

// ToCSV writes the table as CSV, formatting each cell with its column type.
func ToCSV(t *Table, w io.Writer, options CSVOptions) error {
	return slateio.NewCSVWriter(w, options).Write(t.t)
}

// FromJSON reads a JSON array of objects (or JSON Lines) into a table,
// preserving the first object's key order as column order.
func FromJSON(r io.Reader, options JSONOptions) (*Table, error) {
	t, err := slateio.NewJSONReader(r, options).Read()
	if err != nil {
		return nil, err
	}
	return wrapTable(t), nil
}

// FromJSONFile reads a JSON file into a table.
func FromJSONFile(path string, options JSONOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromJSON(f, options)
}

// ToJSON writes the table as a JSON array of objects, or JSON Lines when
// the options ask for it. Numbers are written as exact decimal literals.
func ToJSON(t *Table, w io.Writer, options JSONOptions) error {
	return slateio.NewJSONWriter(w, options).Write(t.t)
}

// FromParquet reads Parquet data into a table.
func FromParquet(r io.Reader, options ParquetOptions) (*Table, error) {
	t, err := slateio.NewParquetReader(r, options).Read()
	if err != nil {
		return nil, err
	}
	return wrapTable(t), nil
}

// ToParquet writes the table as Parquet.
func ToParquet(t *Table, w io.Writer, options ParquetOptions) error {
	return slateio.NewParquetWriter(w, options).Write(t.t)
}

// ToArrow converts the table to an Arrow record. Numbers map to
// decimal128, Dates to date32, DateTimes to microsecond timestamps and
// TimeDeltas to nanosecond durations.
func ToArrow(t *Table, mem memory.Allocator) (arrow.Record, error) {
	return slateio.ToArrow(t.t, mem)
}

// FromArrow converts an Arrow record to a table using the inverse of the
// ToArrow mapping.
func FromArrow(rec arrow.Record) (*Table, error) {
	t, err := slateio.FromArrow(rec)
	if err != nil {
		return nil, err
	}
	return wrapTable(t), nil
}
