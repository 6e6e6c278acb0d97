package gobigquery

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	bq "google.golang.org/api/bigquery/v2"

	"github.com/bqdriver/gobigquery/metrics"
)

// InsertIDMode selects how insert IDs, which the service uses to drop duplicate rows on retry,
// are assigned.
type InsertIDMode string

const (
	// InsertIDContent derives the ID from the encoded row, so that a retried row is recognized
	// as a duplicate.
	InsertIDContent InsertIDMode = "content"
	// InsertIDUUID assigns a random UUID to every row.
	InsertIDUUID InsertIDMode = "uuid"
	// InsertIDNone sends rows without IDs, disabling deduplication.
	InsertIDNone InsertIDMode = "none"
)

// ParseInsertIDMode parses an insert ID mode name. The empty string is InsertIDContent.
func ParseInsertIDMode(s string) (InsertIDMode, error) {
	switch m := InsertIDMode(s); m {
	case "":
		return InsertIDContent, nil
	case InsertIDContent, InsertIDUUID, InsertIDNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown insert id mode %q", s)
}

// InsertOptions controls NewInsertAllRequest.
type InsertOptions struct {
	IDMode              InsertIDMode
	SkipInvalidRows     bool
	IgnoreUnknownValues bool
}

// EncodeInsertRow encodes a row for tabledata.insertAll. Only scalar formatting applies: there
// is no typed envelope. Numbers and booleans stay JSON numbers and booleans, decimals become
// NUMERIC strings, bytes become base64, and temporal values become their canonical strings.
// Nested records become JSON objects and lists become JSON arrays.
func EncodeInsertRow(row any) (map[string]bq.JsonValue, error) {
	rec, ok := recordOf(row)
	if !ok {
		return nil, errStructExpected(row, "")
	}
	out := make(map[string]bq.JsonValue, len(rec))
	for _, f := range rec {
		v, err := encodeJSONValue(f.Value, f.Name)
		if err != nil {
			metrics.ConversionErrors.WithLabelValues(errorKind(err)).Inc()
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func encodeJSONValue(v any, path string) (any, error) {
	if isNilValue(v) {
		return nil, nil
	}
	switch v := v.(type) {
	case bool, string, json.RawMessage, json.Number:
		return v, nil
	case float32:
		return jsonFloat(float64(v), 32), nil
	case float64:
		return jsonFloat(v, 64), nil
	case *apd.Decimal, apd.Decimal:
		s, err := defaultCodec.valueToString(v, DataTypeNumeric)
		if err != nil {
			return nil, pathErr(err, path)
		}
		return s, nil
	case civil.Date:
		return formatDate(v), nil
	case civil.DateTime:
		return formatDateTime(v), nil
	case civil.Time:
		return formatTime(v), nil
	case time.Time:
		return formatTimestamp(v), nil
	}
	if _, ok := int64Of(v); ok {
		return v, nil
	}
	switch v.(type) {
	case uint, uint64:
		return v, nil
	}
	if b, ok, err := bytesOf(v); ok {
		if err != nil {
			return nil, errInvalidScalar(DataTypeBytes, fmt.Sprintf("%T", v), err).withPath(path)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	}
	if rec, ok := recordOf(v); ok {
		if rec == nil {
			return nil, nil
		}
		obj := make(map[string]any, len(rec))
		for _, f := range rec {
			fv, err := encodeJSONValue(f.Value, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			obj[f.Name] = fv
		}
		return obj, nil
	}
	if list, _, ok := listOf(v); ok {
		if list == nil {
			return nil, nil
		}
		arr := make([]any, len(list))
		for i, e := range list {
			ev, err := encodeJSONValue(e, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			arr[i] = ev
		}
		return arr, nil
	}
	return stringOf(v), nil
}

// jsonFloat keeps finite floats as JSON numbers. NaN and the infinities have no JSON number
// form and are sent as the strings the service accepts.
func jsonFloat(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatFloat(f, bits)
	}
	if bits == 32 {
		return float32(f)
	}
	return f
}

// NewInsertAllRequest encodes rows, each a Record or a map[string]any, into a
// tabledata.insertAll request.
func NewInsertAllRequest(rows []any, opts InsertOptions) (*bq.TableDataInsertAllRequest, error) {
	req := &bq.TableDataInsertAllRequest{
		SkipInvalidRows:     opts.SkipInvalidRows,
		IgnoreUnknownValues: opts.IgnoreUnknownValues,
		Rows:                make([]*bq.TableDataInsertAllRequestRows, len(rows)),
	}
	for i, row := range rows {
		encoded, err := EncodeInsertRow(row)
		if err != nil {
			if ce, ok := err.(*ConversionError); ok {
				return nil, ce.withPath(indexPath("rows", i) + pathSuffix(ce.Path))
			}
			return nil, err
		}
		id, err := insertID(encoded, opts.IDMode)
		if err != nil {
			return nil, err
		}
		req.Rows[i] = &bq.TableDataInsertAllRequestRows{InsertId: id, Json: encoded}
	}
	return req, nil
}

func pathSuffix(path string) string {
	if path == "" {
		return ""
	}
	return "." + path
}

// insertID assigns the ID of an encoded row. Content IDs are the base64 MD5 digest of the
// row's JSON, whose keys encoding/json sorts, so equal rows get equal IDs.
func insertID(row map[string]bq.JsonValue, mode InsertIDMode) (string, error) {
	switch mode {
	case InsertIDNone:
		return "", nil
	case InsertIDUUID:
		return uuid.NewString(), nil
	}
	b, err := json.Marshal(row)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(b)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// EncodedSize returns the number of bytes rows take once encoded, counting one separator byte
// per row, the measure insert batches are bounded by.
func EncodedSize(rows []any) (int, error) {
	size := 0
	for _, row := range rows {
		encoded, err := EncodeInsertRow(row)
		if err != nil {
			return 0, err
		}
		b, err := json.Marshal(encoded)
		if err != nil {
			return 0, err
		}
		size += len(b) + 1
	}
	return size, nil
}
