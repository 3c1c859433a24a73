package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paveg/slate/internal/table"
)

const defaultParquetBatchSize = 1024

// ParquetOptions configures Parquet reading and writing.
type ParquetOptions struct {
	// Compression selects the codec for writing: snappy (default), gzip,
	// lz4, zstd or uncompressed.
	Compression string
	// BatchSize is the row group batch size used when writing.
	BatchSize int
}

// DefaultParquetOptions returns Parquet options with snappy compression.
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   defaultParquetBatchSize,
	}
}

// ParquetReader reads tables from Parquet data via the Arrow bridge.
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a Parquet reader for the given input.
func NewParquetReader(reader io.Reader, options ParquetOptions) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     memory.NewGoAllocator(),
	}
}

// ParquetWriter writes tables to Parquet via the Arrow bridge.
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetWriter creates a Parquet writer for the given output.
func NewParquetWriter(writer io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
		mem:     memory.NewGoAllocator(),
	}
}

// Read reads Parquet data and returns a table. Column types follow the
// Arrow schema mapping used by FromArrow.
func (r *ParquetReader) Read() (*table.Table, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	readerAt := bytes.NewReader(data)

	pqReader, err := file.NewParquetReader(readerAt)
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	arrowTable, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer arrowTable.Release()

	// Record batches arrive chunked; convert each and splice the rows.
	tr := array.NewTableReader(arrowTable, int64(r.options.BatchSize))
	defer tr.Release()

	var result *table.Table
	var rows [][]any
	for tr.Next() {
		part, err := FromArrow(tr.Record())
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = part
		}
		for _, row := range part.Rows() {
			rows = append(rows, row.Cells())
		}
	}
	if result == nil {
		return nil, fmt.Errorf("parquet data contains no record batches")
	}
	if len(rows) == result.NumRows() {
		return result, nil
	}

	specs := make([]table.ColumnSpec, 0, result.NumColumns())
	for _, col := range result.Columns() {
		specs = append(specs, table.ColumnSpec{Name: col.Name(), Type: col.DataType()})
	}
	return table.New(specs, rows)
}

// Write writes the table to Parquet format.
func (w *ParquetWriter) Write(t *table.Table) error {
	rec, err := ToArrow(t, w.mem)
	if err != nil {
		return fmt.Errorf("converting table to arrow: %w", err)
	}
	defer rec.Release()

	var compression compress.Compression
	switch w.options.Compression {
	case "gzip":
		compression = compress.Codecs.Gzip
	case "lz4":
		compression = compress.Codecs.Lz4Raw
	case "zstd":
		compression = compress.Codecs.Zstd
	case "uncompressed":
		compression = compress.Codecs.Uncompressed
	default:
		compression = compress.Codecs.Snappy
	}

	batchSize := w.options.BatchSize
	if batchSize <= 0 {
		batchSize = defaultParquetBatchSize
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(int64(batchSize)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(w.mem))

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	return writer.Close()
}
