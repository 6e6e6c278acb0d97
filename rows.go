package gobigquery

import (
	"encoding/json"
	"time"

	bq "google.golang.org/api/bigquery/v2"

	"github.com/bqdriver/gobigquery/internal/query"
	"github.com/bqdriver/gobigquery/metrics"
)

const defaultDecodeConcurrency = 4

// Decoder reconstructs native rows from the row data returned by tabledata.list and
// jobs.getQueryResults. A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	codec       scalarCodec
	concurrency int
	logger      BQLogger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLocation sets the location decoded TIMESTAMPs are returned in. The default is UTC.
func WithLocation(loc *time.Location) DecoderOption {
	return func(d *Decoder) { d.codec.loc = loc }
}

// WithInt64Timestamp reads integer TIMESTAMP cells as microseconds since the epoch, the
// rendering the service uses when the request asks for int64 timestamps.
func WithInt64Timestamp(enabled bool) DecoderOption {
	return func(d *Decoder) { d.codec.int64Timestamp = enabled }
}

// WithConcurrency bounds the number of rows of a page decoded at once.
func WithConcurrency(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger the decoder reports to.
func WithLogger(l BQLogger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDecoder returns a Decoder with the given options applied over the defaults.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{concurrency: defaultDecodeConcurrency, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// DecodeRow decodes one row given as its JSON-decoded cell list, [{"v": ...}, ...], against
// schema. Cell i is decoded with field i.
func DecodeRow(schema Schema, cells []any) (Row, error) {
	return defaultDecoder.DecodeRow(schema, cells)
}

// DecodeTableRow decodes one row of a REST response against schema.
func DecodeTableRow(schema Schema, row *bq.TableRow) (Row, error) {
	return defaultDecoder.DecodeTableRow(schema, row)
}

// DecodeRow decodes one row given as its cell list. A nil row decodes to an empty Row. Cells
// missing at the end of the row decode as null, or as an empty list for REPEATED fields. A row
// with more cells than the schema has fields, or a cell whose shape disagrees with its field,
// fails with a structure mismatch naming the field path.
func (d *Decoder) DecodeRow(schema Schema, cells []any) (Row, error) {
	if cells == nil {
		return Row{}, nil
	}
	row, err := d.decodeRecord(schema, cells, "")
	if err != nil {
		metrics.ConversionErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}
	metrics.RowsDecoded.Inc()
	return row, nil
}

// DecodeTableRow decodes one row of a REST response.
func (d *Decoder) DecodeTableRow(schema Schema, row *bq.TableRow) (Row, error) {
	return d.DecodeRow(schema, query.Cells(row))
}

func (d *Decoder) decodeRecord(fields Schema, cells []any, prefix string) (Row, error) {
	if len(cells) > len(fields) {
		return nil, &ConversionError{
			Number:      ErrCodeTooManyCells,
			Message:     errMsgTooManyCells,
			MessageArgs: []interface{}{len(cells), len(fields)},
			Path:        prefix,
		}
	}
	row := make(Row, len(fields))
	for i, f := range fields {
		path := joinPath(prefix, f.Name)
		if i >= len(cells) {
			row[i] = Field{Name: f.Name, Value: d.absent(f, path)}
			continue
		}
		v, ok := query.CellValue(cells[i])
		if !ok {
			return nil, errCellShape(cells[i], path)
		}
		value, err := d.decodeField(f, v, path)
		if err != nil {
			return nil, err
		}
		row[i] = Field{Name: f.Name, Value: value}
	}
	return row, nil
}

func (d *Decoder) absent(f *SchemaField, path string) any {
	if f.Repeated() {
		return []any{}
	}
	if f.Required() {
		d.logger.Warnf("REQUIRED field %v is missing from the row", path)
	}
	return nil
}

// decodeField decodes the value of one cell. Repeated fields decode to []any, records to Row.
func (d *Decoder) decodeField(f *SchemaField, v any, path string) (any, error) {
	if !f.Repeated() {
		if v == nil && f.Required() {
			d.logger.Warnf("REQUIRED field %v is null", path)
		}
		return d.decodeValue(f, v, path)
	}
	if v == nil {
		return []any{}, nil
	}
	cells, ok := query.ListCells(v)
	if !ok {
		return nil, &ConversionError{
			Number:      ErrCodeListExpected,
			Message:     errMsgListExpected,
			MessageArgs: []interface{}{path, v},
			Path:        path,
		}
	}
	out := make([]any, len(cells))
	for j, c := range cells {
		ep := indexPath(path, j)
		cv, ok := query.CellValue(c)
		if !ok {
			return nil, errCellShape(c, ep)
		}
		value, err := d.decodeValue(f, cv, ep)
		if err != nil {
			return nil, err
		}
		out[j] = value
	}
	return out, nil
}

func (d *Decoder) decodeValue(f *SchemaField, v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}
	if f.IsRecord() {
		cells, ok := query.RecordCells(v)
		if !ok {
			return nil, &ConversionError{
				Number:      ErrCodeRecordExpected,
				Message:     errMsgRecordExpected,
				MessageArgs: []interface{}{path, v},
				Path:        path,
			}
		}
		return d.decodeRecord(f.Fields, cells, path)
	}
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return nil, &ConversionError{
			Number:      ErrCodeScalarExpected,
			Message:     errMsgScalarExpected,
			MessageArgs: []interface{}{path, f.Type, v},
			Path:        path,
		}
	}
	value, err := d.codec.stringToValue(s, f.Type)
	if err != nil {
		return nil, pathErr(err, path)
	}
	return value, nil
}

func errCellShape(c any, path string) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeCellShape,
		Message:     errMsgCellShape,
		MessageArgs: []interface{}{c},
		Path:        path,
	}
}
