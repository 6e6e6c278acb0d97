// Package arrowrows decodes Apache Arrow record batches, the format of the BigQuery Storage
// Read API, into gobigquery rows. Values come out as the same native types the JSON row
// decoder produces.
package arrowrows

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/cockroachdb/apd/v3"

	bigquery "github.com/bqdriver/gobigquery"
	"github.com/bqdriver/gobigquery/internal/logger"
	"github.com/bqdriver/gobigquery/metrics"
)

// Option configures DecodeRecord.
type Option func(*decoder)

// WithLocation sets the location TIMESTAMPs are returned in. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(d *decoder) {
		if loc != nil {
			d.loc = loc
		}
	}
}

type decoder struct {
	loc *time.Location
}

// DecodeRecord decodes every row of rec. Column i of the record is decoded with field i of
// schema; a column count or column type that disagrees with the schema fails with a
// structure mismatch error.
func DecodeRecord(schema bigquery.Schema, rec arrow.Record, opts ...Option) ([]bigquery.Row, error) {
	d := &decoder{loc: time.UTC}
	for _, opt := range opts {
		opt(d)
	}
	if int(rec.NumCols()) != len(schema) {
		err := mismatch("", fmt.Sprintf("record has %d columns but the schema has %d fields", rec.NumCols(), len(schema)))
		metrics.ConversionErrors.WithLabelValues("structure").Inc()
		return nil, err
	}
	rows := make([]bigquery.Row, rec.NumRows())
	for i := range rows {
		row := make(bigquery.Row, len(schema))
		for j, f := range schema {
			v, err := d.fieldValue(f, rec.Column(j), i, f.Name)
			if err != nil {
				metrics.ConversionErrors.WithLabelValues("structure").Inc()
				return nil, err
			}
			row[j] = bigquery.Field{Name: f.Name, Value: v}
		}
		rows[i] = row
	}
	metrics.RowsDecoded.Add(float64(len(rows)))
	logger.GetLogger().Debugf("decoded %d rows from an arrow record", len(rows))
	return rows, nil
}

func (d *decoder) fieldValue(f *bigquery.SchemaField, col arrow.Array, i int, path string) (any, error) {
	if !f.Repeated() {
		return d.value(f, col, i, path)
	}
	list, ok := col.(*array.List)
	if !ok {
		return nil, mismatch(path, "expected a list column, got "+col.DataType().String())
	}
	if list.IsNull(i) {
		return []any{}, nil
	}
	start, end := list.ValueOffsets(i)
	values := list.ListValues()
	out := make([]any, 0, end-start)
	for j := start; j < end; j++ {
		v, err := d.value(f, values, int(j), fmt.Sprintf("%s[%d]", path, j-start))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// value decodes one non-repeated value of f at index i of col.
func (d *decoder) value(f *bigquery.SchemaField, col arrow.Array, i int, path string) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}
	switch f.Type {
	case bigquery.DataTypeStruct:
		st, ok := col.(*array.Struct)
		if !ok || st.NumField() != len(f.Fields) {
			return nil, mismatch(path, "expected a struct column with matching fields, got "+col.DataType().String())
		}
		row := make(bigquery.Row, len(f.Fields))
		for k, nested := range f.Fields {
			v, err := d.fieldValue(nested, st.Field(k), i, path+"."+nested.Name)
			if err != nil {
				return nil, err
			}
			row[k] = bigquery.Field{Name: nested.Name, Value: v}
		}
		return row, nil
	case bigquery.DataTypeBool:
		if c, ok := col.(*array.Boolean); ok {
			return c.Value(i), nil
		}
	case bigquery.DataTypeInt64:
		if c, ok := col.(*array.Int64); ok {
			return c.Value(i), nil
		}
	case bigquery.DataTypeFloat64:
		if c, ok := col.(*array.Float64); ok {
			return c.Value(i), nil
		}
	case bigquery.DataTypeString, bigquery.DataTypeGeography, bigquery.DataTypeJSON:
		if c, ok := col.(*array.String); ok {
			return c.Value(i), nil
		}
	case bigquery.DataTypeBytes:
		if c, ok := col.(*array.Binary); ok {
			return append([]byte(nil), c.Value(i)...), nil
		}
	case bigquery.DataTypeDate:
		if c, ok := col.(*array.Date32); ok {
			return civil.DateOf(c.Value(i).ToTime()), nil
		}
	case bigquery.DataTypeTime:
		if c, ok := col.(*array.Time64); ok {
			unit := c.DataType().(*arrow.Time64Type).Unit
			return civil.TimeOf(c.Value(i).ToTime(unit)), nil
		}
	case bigquery.DataTypeTimestamp, bigquery.DataTypeDateTime:
		if c, ok := col.(*array.Timestamp); ok {
			unit := c.DataType().(*arrow.TimestampType).Unit
			t := c.Value(i).ToTime(unit).UTC()
			if f.Type == bigquery.DataTypeDateTime {
				return civil.DateTimeOf(t), nil
			}
			return t.In(d.loc), nil
		}
	case bigquery.DataTypeNumeric, bigquery.DataTypeBigNumeric:
		switch c := col.(type) {
		case *array.Decimal128:
			scale := c.DataType().(*arrow.Decimal128Type).Scale
			return decimalOf(c.Value(i).BigInt(), scale), nil
		case *array.Decimal256:
			scale := c.DataType().(*arrow.Decimal256Type).Scale
			return decimalOf(c.Value(i).BigInt(), scale), nil
		}
	}
	return nil, mismatch(path, fmt.Sprintf("cannot decode %v from a %v column", f.Type, col.DataType()))
}

// decimalOf scales an unscaled decimal coefficient exactly.
func decimalOf(coeff *big.Int, scale int32) *apd.Decimal {
	return apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(coeff), -scale)
}

func mismatch(path, reason string) *bigquery.ConversionError {
	return &bigquery.ConversionError{
		Number:      bigquery.ErrCodeColumnMismatch,
		Message:     "column %q: %v",
		MessageArgs: []interface{}{path, reason},
		Path:        path,
	}
}
