package io

import (
	"encoding/csv"
	"fmt"

	"github.com/paveg/slate/internal/table"
)

// Read reads CSV data and returns a typed table. Column names come from
// the header row (or are generated positionally when Header is false);
// types come from the options schema or, for unlisted columns, from
// inference over the configured sample.
func (r *CSVReader) Read() (*table.Table, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return table.New(nil, nil)
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	specs := make([]table.ColumnSpec, len(headers))
	for i, name := range headers {
		specs[i] = table.ColumnSpec{Name: name, Type: schemaType(r.options.Schema, name)}
	}

	raw := make([][]any, len(dataRows))
	for ri, record := range dataRows {
		row := make([]any, len(headers))
		for ci := range headers {
			if ci < len(record) {
				row[ci] = record[ci]
			} else {
				row[ci] = ""
			}
		}
		raw[ri] = row
	}

	return table.NewFromRaw(specs, raw, rawOptions(r.options.TypeTester, r.options.SampleSize)...)
}

// Write writes the table in CSV format, serializing each typed cell
// through its column's data type. Nulls write as empty fields.
func (w *CSVWriter) Write(t *table.Table) error {
	csvWriter := csv.NewWriter(w.writer)
	if w.options.Delimiter != 0 {
		csvWriter.Comma = w.options.Delimiter
	}
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(t.ColumnNames()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	columns := t.Columns()
	for _, row := range t.Rows() {
		record := make([]string, len(columns))
		for ci, col := range columns {
			cell := row.Cells()[ci]
			if cell != nil {
				record[ci] = col.DataType().Format(cell)
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Index(), err)
		}
	}

	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
