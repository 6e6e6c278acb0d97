package gobigquery

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

type tcFormatScalar struct {
	in  any
	wt  WireType
	out string
}

func TestFormatScalar(t *testing.T) {
	plus2 := time.FixedZone("plus2", 2*3600)
	testcases := []tcFormatScalar{
		{in: true, wt: DataTypeBool, out: "true"},
		{in: false, wt: DataTypeBool, out: "false"},
		{in: 42, wt: DataTypeInt64, out: "42"},
		{in: int8(-3), wt: DataTypeInt64, out: "-3"},
		{in: uint32(7), wt: DataTypeInt64, out: "7"},
		{in: uint64(math.MaxInt64), wt: DataTypeInt64, out: "9223372036854775807"},
		{in: 3.0, wt: DataTypeInt64, out: "3"},
		{in: 1.5, wt: DataTypeFloat64, out: "1.5"},
		{in: float32(0.1), wt: DataTypeFloat64, out: "0.1"},
		{in: 12, wt: DataTypeFloat64, out: "12"},
		{in: math.NaN(), wt: DataTypeFloat64, out: "NaN"},
		{in: math.Inf(1), wt: DataTypeFloat64, out: "Infinity"},
		{in: math.Inf(-1), wt: DataTypeFloat64, out: "-Infinity"},
		{in: 1e21, wt: DataTypeFloat64, out: "1e+21"},
		{in: 1e-7, wt: DataTypeFloat64, out: "1e-07"},
		{in: 0.0, wt: DataTypeFloat64, out: "0"},
		{in: 42, wt: DataTypeString, out: "42"},
		{in: []byte("hi"), wt: DataTypeString, out: "hi"},
		{in: "POINT(1 2)", wt: DataTypeGeography, out: "POINT(1 2)"},
		{in: []byte("hi"), wt: DataTypeBytes, out: "aGk="},
		{in: strings.NewReader("hi"), wt: DataTypeBytes, out: "aGk="},
		{in: civil.Date{Year: 2024, Month: 1, Day: 15}, wt: DataTypeDate, out: "2024-01-15"},
		{in: time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC), wt: DataTypeDate, out: "2024-01-15"},
		{
			in:  civil.DateTime{Date: civil.Date{Year: 2024, Month: 1, Day: 15}, Time: civil.Time{Hour: 13, Minute: 4, Second: 5, Nanosecond: 123456000}},
			wt:  DataTypeDateTime,
			out: "2024-01-15 13:04:05.123456",
		},
		{in: civil.Date{Year: 2024, Month: 1, Day: 15}, wt: DataTypeDateTime, out: "2024-01-15 00:00:00.000000"},
		{in: time.Date(2024, 1, 15, 13, 4, 5, 0, plus2), wt: DataTypeTimestamp, out: "2024-01-15 11:04:05.000000+00:00"},
		{in: time.Date(2024, 1, 15, 13, 4, 5, 7000, time.UTC), wt: DataTypeTimestamp, out: "2024-01-15 13:04:05.000007+00:00"},
		{in: civil.Time{Hour: 1, Minute: 2, Second: 3}, wt: DataTypeTime, out: "01:02:03"},
		{in: civil.Time{Hour: 1, Minute: 2, Second: 3, Nanosecond: 500000}, wt: DataTypeTime, out: "01:02:03.000500"},
		{in: map[string]any{"a": 1}, wt: DataTypeJSON, out: `{"a":1}`},
		{in: Record{{Name: "b", Value: 1}, {Name: "a", Value: 2}}, wt: DataTypeJSON, out: `{"a":2,"b":1}`},
		{in: json.RawMessage(`[1,2]`), wt: DataTypeJSON, out: `[1,2]`},
	}
	for _, test := range testcases {
		t.Run(test.wt.String()+"/"+test.out, func(t *testing.T) {
			s, err := FormatScalar(test.in, test.wt)
			assertNilF(t, err)
			assertEqualE(t, s, test.out)
		})
	}
}

func TestFormatScalarDecimal(t *testing.T) {
	testcases := []struct {
		in  string
		wt  WireType
		out string
	}{
		{in: "123456798.98765432100001", wt: DataTypeNumeric, out: "123456798.987654321"},
		{in: "123456798.98765432100001", wt: DataTypeBigNumeric, out: "123456798.98765432100001"},
		{in: "1.50", wt: DataTypeNumeric, out: "1.5"},
		{in: "0.0000000005", wt: DataTypeNumeric, out: "0.000000001"},
		{in: "-0.0000000004", wt: DataTypeNumeric, out: "0"},
		{in: "1E+3", wt: DataTypeNumeric, out: "1000"},
		{in: "99999999999999999999999999999.999999999", wt: DataTypeNumeric, out: "99999999999999999999999999999.999999999"},
	}
	for _, test := range testcases {
		t.Run(test.wt.String()+"/"+test.in, func(t *testing.T) {
			s, err := FormatScalar(dec(t, test.in), test.wt)
			assertNilF(t, err)
			assertEqualE(t, s, test.out)
		})
	}
}

func TestFormatScalarNativeNumbersAsDecimal(t *testing.T) {
	s, err := FormatScalar(7, DataTypeNumeric)
	assertNilF(t, err)
	assertEqualE(t, s, "7")
	s, err = FormatScalar(0.25, DataTypeBigNumeric)
	assertNilF(t, err)
	assertEqualE(t, s, "0.25")
}

func TestFormatScalarErrors(t *testing.T) {
	testcases := []struct {
		name string
		in   any
		wt   WireType
		code int
	}{
		{name: "nil", in: nil, wt: DataTypeInt64, code: ErrCodeUnsupportedValue},
		{name: "bool as int", in: true, wt: DataTypeInt64, code: ErrCodeUnsupportedValue},
		{name: "uint overflow", in: uint64(math.MaxUint64), wt: DataTypeInt64, code: ErrCodeInvalidScalar},
		{name: "fractional int", in: 3.5, wt: DataTypeInt64, code: ErrCodeInvalidScalar},
		{name: "bad date text", in: "nope", wt: DataTypeDate, code: ErrCodeInvalidScalar},
		{name: "bad int text", in: "12a", wt: DataTypeInt64, code: ErrCodeInvalidScalar},
		{name: "numeric overflow", in: dec(t, "1e30"), wt: DataTypeNumeric, code: ErrCodeDecimalOutOfRange},
		{name: "infinite decimal", in: dec(t, "Infinity"), wt: DataTypeNumeric, code: ErrCodeInvalidScalar},
		{name: "date as bytes", in: civil.Date{Year: 2024, Month: 1, Day: 1}, wt: DataTypeBytes, code: ErrCodeUnsupportedValue},
		{name: "string as array", in: "[1]", wt: DataTypeArray, code: ErrCodeUnsupportedValue},
	}
	for _, test := range testcases {
		t.Run(test.name, func(t *testing.T) {
			_, err := FormatScalar(test.in, test.wt)
			var ce *ConversionError
			assertErrorsAsF(t, err, &ce)
			assertEqualE(t, ce.Number, test.code)
			assertTrueE(t, IsFormatError(err))
		})
	}
}

func TestFormatScalarValidatesWireText(t *testing.T) {
	for _, tc := range []struct {
		in string
		wt WireType
	}{
		{"2024-01-15", DataTypeDate},
		{"123.456", DataTypeNumeric},
		{"2024-01-15 11:04:05.000000+00:00", DataTypeTimestamp},
		{"anything at all", DataTypeString},
		{"{not json", DataTypeJSON},
	} {
		s, err := FormatScalar(tc.in, tc.wt)
		assertNilE(t, err, tc.in)
		assertEqualE(t, s, tc.in)
	}
}

func TestParseScalar(t *testing.T) {
	testcases := []struct {
		in  string
		wt  WireType
		out any
	}{
		{in: "true", wt: DataTypeBool, out: true},
		{in: "42", wt: DataTypeInt64, out: int64(42)},
		{in: "-9223372036854775808", wt: DataTypeInt64, out: int64(math.MinInt64)},
		{in: "1.5", wt: DataTypeFloat64, out: 1.5},
		{in: "Infinity", wt: DataTypeFloat64, out: math.Inf(1)},
		{in: "-Infinity", wt: DataTypeFloat64, out: math.Inf(-1)},
		{in: "hello", wt: DataTypeString, out: "hello"},
		{in: `{"a":1}`, wt: DataTypeJSON, out: `{"a":1}`},
		{in: "aGk=", wt: DataTypeBytes, out: []byte("hi")},
		{in: "2024-01-15", wt: DataTypeDate, out: civil.Date{Year: 2024, Month: 1, Day: 15}},
		{
			in:  "2024-01-15 13:04:05.123456",
			wt:  DataTypeDateTime,
			out: civil.DateTime{Date: civil.Date{Year: 2024, Month: 1, Day: 15}, Time: civil.Time{Hour: 13, Minute: 4, Second: 5, Nanosecond: 123456000}},
		},
		{
			in:  "2024-01-15T13:04:05",
			wt:  DataTypeDateTime,
			out: civil.DateTime{Date: civil.Date{Year: 2024, Month: 1, Day: 15}, Time: civil.Time{Hour: 13, Minute: 4, Second: 5}},
		},
		{in: "01:02:03.000500", wt: DataTypeTime, out: civil.Time{Hour: 1, Minute: 2, Second: 3, Nanosecond: 500000}},
	}
	for _, test := range testcases {
		t.Run(test.wt.String()+"/"+test.in, func(t *testing.T) {
			v, err := ParseScalar(test.in, test.wt)
			assertNilF(t, err)
			assertDeepEqualE(t, v, test.out)
		})
	}
}

func TestParseScalarNaN(t *testing.T) {
	v, err := ParseScalar("NaN", DataTypeFloat64)
	assertNilF(t, err)
	f, ok := v.(float64)
	assertTrueE(t, ok)
	assertTrueE(t, math.IsNaN(f))
}

func TestParseScalarDecimalIsExact(t *testing.T) {
	v, err := ParseScalar("123456798.98765432100001", DataTypeBigNumeric)
	assertNilF(t, err)
	assertDeepEqualE(t, v, dec(t, "123456798.98765432100001"))
	_, err = ParseScalar("NaN", DataTypeNumeric)
	assertErrIsE(t, err, ErrInvalidScalar)
}

func TestParseScalarTimestamp(t *testing.T) {
	want := time.Date(2023, 11, 14, 22, 13, 20, 500000000, time.UTC)
	for _, in := range []string{
		"1700000000.5",
		"1.7000000005E9",
		"2023-11-14 22:13:20.500000+00:00",
		"2023-11-14 22:13:20.5 UTC",
		"2023-11-14T22:13:20.5Z",
		"2023-11-15 00:13:20.5+02:00",
		"2023-11-14 22:13:20.5",
	} {
		t.Run(in, func(t *testing.T) {
			v, err := ParseScalar(in, DataTypeTimestamp)
			assertNilF(t, err)
			ts := v.(time.Time)
			assertTrueE(t, ts.Equal(want), ts.String())
			assertEqualE(t, ts.Location(), time.UTC)
		})
	}
}

func TestParseTimestampCodecOptions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assertNilF(t, err)
	codec := scalarCodec{loc: loc, int64Timestamp: true}
	v, err := codec.stringToValue("1700000000500000", DataTypeTimestamp)
	assertNilF(t, err)
	ts := v.(time.Time)
	assertTrueE(t, ts.Equal(time.UnixMicro(1700000000500000)))
	assertEqualE(t, ts.Location(), loc)
}

func TestParseScalarErrors(t *testing.T) {
	for _, tc := range []struct {
		in string
		wt WireType
	}{
		{"abc", DataTypeInt64},
		{"yes please", DataTypeBool},
		{"1.2.3", DataTypeFloat64},
		{"!!", DataTypeBytes},
		{"2024-13-01", DataTypeDate},
		{"25:00:00", DataTypeTime},
		{"tomorrow", DataTypeTimestamp},
		{"x", DataTypeStruct},
	} {
		_, err := ParseScalar(tc.in, tc.wt)
		assertNotNilF(t, err, tc.in)
		assertTrueE(t, IsFormatError(err), tc.in)
	}
}

func TestScalarRoundTrip(t *testing.T) {
	values := []struct {
		v  any
		wt WireType
	}{
		{true, DataTypeBool},
		{int64(-17), DataTypeInt64},
		{2.718281828459045, DataTypeFloat64},
		{dec(t, "-12.000000001"), DataTypeNumeric},
		{dec(t, "0.12345678901234567890123456789012345678"), DataTypeBigNumeric},
		{"héllo", DataTypeString},
		{[]byte{0, 1, 2, 255}, DataTypeBytes},
		{civil.Date{Year: 1, Month: 1, Day: 1}, DataTypeDate},
		{civil.DateTime{Date: civil.Date{Year: 9999, Month: 12, Day: 31}, Time: civil.Time{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999999000}}, DataTypeDateTime},
		{civil.Time{Hour: 12, Minute: 30}, DataTypeTime},
		{time.Date(2001, 2, 3, 4, 5, 6, 7000, time.UTC), DataTypeTimestamp},
	}
	for _, tc := range values {
		t.Run(tc.wt.String(), func(t *testing.T) {
			s, err := FormatScalar(tc.v, tc.wt)
			assertNilF(t, err)
			back, err := ParseScalar(s, tc.wt)
			assertNilF(t, err)
			assertDeepEqualE(t, back, tc.v, s)
		})
	}
}
