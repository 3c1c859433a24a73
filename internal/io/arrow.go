package io

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rickb777/date/v2"
	"github.com/shopspring/decimal"

	"github.com/paveg/slate/internal/datatypes"
	"github.com/paveg/slate/internal/errors"
	"github.com/paveg/slate/internal/table"
	"github.com/paveg/slate/internal/value"
)

// arrowDecimalPrecision is the precision of Number columns in Arrow
// output; 38 digits is the decimal128 maximum.
const arrowDecimalPrecision = 38

// ToArrow converts a table into an Arrow record. Column mapping: Number
// to decimal128 (scale chosen from the data), Text to utf8, Boolean to
// bool, Date to date32, DateTime to microsecond timestamps, TimeDelta to
// nanosecond durations. Nulls map to Arrow nulls. The caller releases the
// record.
func ToArrow(t *table.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	columns := t.Columns()
	fields := make([]arrow.Field, len(columns))
	scales := make([]int32, len(columns))
	for ci, col := range columns {
		dt, scale, err := arrowType(col)
		if err != nil {
			return nil, err
		}
		fields[ci] = arrow.Field{Name: col.Name(), Type: dt, Nullable: true}
		scales[ci] = scale
	}

	builder := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer builder.Release()

	for ci, col := range columns {
		if err := appendArrowColumn(builder.Field(ci), col, scales[ci]); err != nil {
			return nil, err
		}
	}
	return builder.NewRecord(), nil
}

// arrowType maps a column's data type to its Arrow representation; for
// Number columns it also picks the smallest scale that represents every
// value exactly.
func arrowType(col *table.Column) (arrow.DataType, int32, error) {
	switch dt := col.DataType().(type) {
	case *datatypes.BooleanType:
		return arrow.FixedWidthTypes.Boolean, 0, nil
	case *datatypes.TextType:
		return arrow.BinaryTypes.String, 0, nil
	case *datatypes.NumberType:
		scale := int32(0)
		for _, v := range col.NonNullValues() {
			if e := -v.(decimal.Decimal).Exponent(); e > scale {
				scale = e
			}
		}
		return &arrow.Decimal128Type{Precision: arrowDecimalPrecision, Scale: scale}, scale, nil
	case *datatypes.DateType:
		return arrow.FixedWidthTypes.Date32, 0, nil
	case *datatypes.DateTimeType:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: dt.Location().String()}, 0, nil
	case *datatypes.TimeDeltaType:
		return &arrow.DurationType{Unit: arrow.Nanosecond}, 0, nil
	default:
		return nil, 0, errors.NewTypeMismatchError("ToArrow", col.Name(), "a built-in data type", dt.Name())
	}
}

func appendArrowColumn(b array.Builder, col *table.Column, scale int32) error {
	for _, cell := range col.Values() {
		if cell == nil {
			b.AppendNull()
			continue
		}
		switch builder := b.(type) {
		case *array.BooleanBuilder:
			builder.Append(cell.(bool))
		case *array.StringBuilder:
			builder.Append(cell.(string))
		case *array.Decimal128Builder:
			num, err := decimal128FromDecimal(cell.(decimal.Decimal), scale)
			if err != nil {
				return errors.NewTypeMismatchError("ToArrow", col.Name(),
					fmt.Sprintf("a decimal within %d digits", arrowDecimalPrecision), cell.(decimal.Decimal).String())
			}
			builder.Append(num)
		case *array.Date32Builder:
			builder.Append(arrow.Date32FromTime(value.DateTime(cell.(date.Date))))
		case *array.TimestampBuilder:
			builder.Append(arrow.Timestamp(cell.(time.Time).UnixMicro()))
		case *array.DurationBuilder:
			builder.Append(arrow.Duration(cell.(time.Duration).Nanoseconds()))
		default:
			return errors.NewTypeMismatchError("ToArrow", col.Name(), "a supported Arrow builder", fmt.Sprintf("%T", b))
		}
	}
	return nil
}

// decimal128FromDecimal rescales d to the target scale and packs the
// coefficient into 128 bits, failing on overflow.
func decimal128FromDecimal(d decimal.Decimal, scale int32) (decimal128.Num, error) {
	scaled := d.Shift(scale)
	num := decimal128.FromBigInt(scaled.BigInt())
	if !num.FitsInPrecision(arrowDecimalPrecision) {
		return decimal128.Num{}, fmt.Errorf("decimal %s exceeds %d digits", d, arrowDecimalPrecision)
	}
	return num, nil
}

// FromArrow converts an Arrow record into a table, inverting the ToArrow
// mapping. Nulls round-trip to null cells.
func FromArrow(rec arrow.Record) (*table.Table, error) {
	schema := rec.Schema()
	specs := make([]table.ColumnSpec, schema.NumFields())
	for ci := 0; ci < schema.NumFields(); ci++ {
		field := schema.Field(ci)
		dt, err := slateType(field)
		if err != nil {
			return nil, err
		}
		specs[ci] = table.ColumnSpec{Name: field.Name, Type: dt}
	}

	numRows := int(rec.NumRows())
	rows := make([][]any, numRows)
	for ri := 0; ri < numRows; ri++ {
		rows[ri] = make([]any, len(specs))
	}
	for ci := 0; ci < schema.NumFields(); ci++ {
		if err := readArrowColumn(rows, ci, schema.Field(ci), rec.Column(ci)); err != nil {
			return nil, err
		}
	}
	return table.New(specs, rows)
}

func slateType(field arrow.Field) (datatypes.DataType, error) {
	switch ft := field.Type.(type) {
	case *arrow.BooleanType:
		return datatypes.NewBoolean(), nil
	case *arrow.StringType:
		return datatypes.NewText(), nil
	case *arrow.Decimal128Type:
		return datatypes.NewNumber(), nil
	case *arrow.Date32Type:
		return datatypes.NewDate(), nil
	case *arrow.TimestampType:
		loc := time.UTC
		if ft.TimeZone != "" {
			parsed, err := time.LoadLocation(ft.TimeZone)
			if err == nil {
				loc = parsed
			}
		}
		return datatypes.NewDateTime(datatypes.WithLocation(loc)), nil
	case *arrow.DurationType:
		return datatypes.NewTimeDelta(), nil
	default:
		return nil, errors.NewTypeMismatchError("FromArrow", field.Name, "a supported Arrow type", field.Type.String())
	}
}

func readArrowColumn(rows [][]any, ci int, field arrow.Field, arr arrow.Array) error {
	for ri := 0; ri < arr.Len(); ri++ {
		if arr.IsNull(ri) {
			continue
		}
		switch typed := arr.(type) {
		case *array.Boolean:
			rows[ri][ci] = typed.Value(ri)
		case *array.String:
			rows[ri][ci] = typed.Value(ri)
		case *array.Decimal128:
			scale := field.Type.(*arrow.Decimal128Type).Scale
			rows[ri][ci] = decimal.NewFromBigInt(typed.Value(ri).BigInt(), -scale)
		case *array.Date32:
			rows[ri][ci] = date.NewAt(typed.Value(ri).ToTime())
		case *array.Timestamp:
			unit := field.Type.(*arrow.TimestampType).Unit
			rows[ri][ci] = typed.Value(ri).ToTime(unit).UTC()
		case *array.Duration:
			unit := field.Type.(*arrow.DurationType).Unit
			rows[ri][ci] = time.Duration(typed.Value(ri)) * unit.Multiplier()
		default:
			return errors.NewTypeMismatchError("FromArrow", field.Name, "a supported Arrow array", fmt.Sprintf("%T", arr))
		}
	}
	return nil
}
