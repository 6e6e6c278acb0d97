package gobigquery

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
)

// scalarCodec renders native values to the canonical wire text of a scalar type and parses
// wire text back. The zero value returns TIMESTAMPs in UTC and reads integer TIMESTAMPs as
// seconds since the epoch.
type scalarCodec struct {
	loc            *time.Location
	int64Timestamp bool
}

var defaultCodec = scalarCodec{}

// FormatScalar renders v as the wire text of the scalar type t.
//
// A string is taken to be wire text already: it is validated against t and returned unchanged.
// NUMERIC values are rounded to 9 fractional digits; BIGNUMERIC values keep their precision.
// TIMESTAMPs are normalized to UTC.
func FormatScalar(v any, t WireType) (string, error) {
	return defaultCodec.valueToString(v, t)
}

// ParseScalar parses the wire text s of the scalar type t into its native value: bool, int64,
// float64, *apd.Decimal, string, []byte, civil.Date, civil.DateTime, civil.Time or time.Time.
func ParseScalar(s string, t WireType) (any, error) {
	return defaultCodec.stringToValue(s, t)
}

func (c scalarCodec) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// valueToString converts a native value to the wire text of the scalar type t.
func (c scalarCodec) valueToString(v any, t WireType) (string, error) {
	if v == nil {
		return "", errUnsupportedValue(v, t)
	}
	if s, ok := v.(string); ok {
		return c.validateWireString(s, t)
	}
	switch t {
	case DataTypeBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
	case DataTypeInt64:
		return formatInt64(v)
	case DataTypeFloat64:
		if f, bits, ok := floatOf(v); ok {
			return formatFloat(f, bits), nil
		}
		if i, ok := int64Of(v); ok {
			return strconv.FormatInt(i, 10), nil
		}
		if d, ok := v.(*apd.Decimal); ok && d != nil {
			return d.Text('f'), nil
		}
	case DataTypeNumeric, DataTypeBigNumeric:
		d, ok, err := decimalOf(v)
		if err != nil {
			return "", errInvalidScalar(t, fmt.Sprint(v), err)
		}
		if ok {
			return formatDecimal(d, t)
		}
	case DataTypeString, DataTypeGeography:
		return stringOf(v), nil
	case DataTypeJSON:
		return formatJSON(v)
	case DataTypeBytes:
		b, ok, err := bytesOf(v)
		if err != nil {
			return "", errInvalidScalar(t, fmt.Sprintf("%T", v), err)
		}
		if ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
	case DataTypeDate:
		switch v := v.(type) {
		case civil.Date:
			return formatDate(v), nil
		case civil.DateTime:
			return formatDate(v.Date), nil
		case time.Time:
			return formatDate(civil.DateOf(v)), nil
		}
	case DataTypeDateTime:
		switch v := v.(type) {
		case civil.DateTime:
			return formatDateTime(v), nil
		case civil.Date:
			return formatDateTime(civil.DateTime{Date: v}), nil
		case time.Time:
			return formatDateTime(civil.DateTimeOf(v)), nil
		}
	case DataTypeTimestamp:
		switch v := v.(type) {
		case time.Time:
			return formatTimestamp(v), nil
		case civil.DateTime:
			return formatTimestamp(v.In(time.UTC)), nil
		case civil.Date:
			return formatTimestamp(v.In(time.UTC)), nil
		}
	case DataTypeTime:
		switch v := v.(type) {
		case civil.Time:
			return formatTime(v), nil
		case civil.DateTime:
			return formatTime(v.Time), nil
		case time.Time:
			return formatTime(civil.TimeOf(v)), nil
		}
	}
	return "", errUnsupportedValue(v, t)
}

// validateWireString checks that s is valid wire text for t and returns it unchanged.
func (c scalarCodec) validateWireString(s string, t WireType) (string, error) {
	switch t {
	case DataTypeString, DataTypeGeography, DataTypeJSON:
		return s, nil
	case DataTypeArray, DataTypeStruct:
		return "", errUnsupportedValue(s, t)
	}
	if _, err := defaultCodec.stringToValue(s, t); err != nil {
		return "", err
	}
	return s, nil
}

// stringToValue parses wire text into the native value of the scalar type t.
func (c scalarCodec) stringToValue(s string, t WireType) (any, error) {
	switch t {
	case DataTypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errInvalidScalar(t, s, err)
		}
		return b, nil
	case DataTypeInt64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errInvalidScalar(t, s, err)
		}
		return i, nil
	case DataTypeFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errInvalidScalar(t, s, err)
		}
		return f, nil
	case DataTypeNumeric, DataTypeBigNumeric:
		return parseDecimal(s, t)
	case DataTypeString, DataTypeGeography, DataTypeJSON:
		return s, nil
	case DataTypeBytes:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errInvalidScalar(t, s, err)
		}
		return b, nil
	case DataTypeDate:
		return parseDate(s)
	case DataTypeDateTime:
		return parseDateTime(s)
	case DataTypeTime:
		return parseTime(s)
	case DataTypeTimestamp:
		ts, err := parseTimestamp(s, c.int64Timestamp)
		if err != nil {
			return nil, err
		}
		return ts.In(c.location()), nil
	}
	return nil, errUnsupportedValue(s, t)
}

func formatInt64(v any) (string, error) {
	if i, ok := int64Of(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	switch v := v.(type) {
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return strconv.FormatUint(uint64(v), 10), nil
		}
		return "", errInvalidScalar(DataTypeInt64, strconv.FormatUint(uint64(v), 10), nil)
	case uint64:
		if v <= math.MaxInt64 {
			return strconv.FormatUint(v, 10), nil
		}
		return "", errInvalidScalar(DataTypeInt64, strconv.FormatUint(v, 10), nil)
	}
	if f, _, ok := floatOf(v); ok {
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return "", errInvalidScalar(DataTypeInt64, strconv.FormatFloat(f, 'g', -1, 64), nil)
		}
		return strconv.FormatInt(int64(f), 10), nil
	}
	if d, ok := v.(*apd.Decimal); ok && d != nil {
		i, err := d.Int64()
		if err != nil {
			return "", errInvalidScalar(DataTypeInt64, d.String(), err)
		}
		return strconv.FormatInt(i, 10), nil
	}
	return "", errUnsupportedValue(v, DataTypeInt64)
}

// formatFloat renders f in its shortest round-trip form, in plain notation unless the magnitude
// is very small or very large.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func formatJSON(v any) (string, error) {
	switch v := v.(type) {
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	case Record:
		v2 := v.Map()
		b, err := json.Marshal(v2)
		if err != nil {
			return "", errInvalidScalar(DataTypeJSON, fmt.Sprint(v), err)
		}
		return string(b), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", errInvalidScalar(DataTypeJSON, fmt.Sprint(v), err)
	}
	return string(b), nil
}

func stringOf(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// int64Of converts the signed and narrow unsigned integer kinds to int64.
func int64Of(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

func floatOf(v any) (float64, int, bool) {
	switch v := v.(type) {
	case float32:
		return float64(v), 32, true
	case float64:
		return v, 64, true
	}
	return 0, 0, false
}

// bytesOf returns the content of a byte slice or of a reader, which is read to the end.
func bytesOf(v any) ([]byte, bool, error) {
	switch v := v.(type) {
	case []byte:
		return v, true, nil
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return nil, true, err
		}
		return b, true, nil
	}
	return nil, false, nil
}
