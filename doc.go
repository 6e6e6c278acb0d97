/*
Package gobigquery converts between Go values and the BigQuery REST wire representation.

# Query parameters

NewQueryParameter infers the wire type of a Go value and encodes it as a typed query
parameter. A declared type takes precedence over inference:

	p, err := gobigquery.NewNamedQueryParameter("cities", []string{"Paris", "Oslo"}, nil)
	// ARRAY<STRING>

	p, err = gobigquery.NewQueryParameter(nil, gobigquery.ScalarType(gobigquery.DataTypeInt64))
	// typed null

	pt, _ := gobigquery.ParseParamType("STRUCT<age INT64, name STRING>")
	p, err = gobigquery.NewQueryParameter(map[string]any{"name": "Ann", "age": 41}, pt)

The mapping of Go values to wire types is:

	bool                          BOOL
	int, int8..int64, uint8..32   INT64
	float32, float64              FLOAT64
	*apd.Decimal, apd.Decimal     NUMERIC
	[]byte, io.Reader             BYTES
	civil.Date                    DATE
	civil.DateTime                DATETIME
	civil.Time                    TIME
	time.Time                     TIMESTAMP
	slices                        ARRAY
	Record, map[string]any        STRUCT
	anything else                 STRING

NUMERIC values are rounded half-up to 9 fractional digits. BIGNUMERIC values keep up to
38 fractional digits.

# Rows

DecodeRow, DecodeTableRow and DecodePage turn the cell structure returned by
jobs.getQueryResults and tabledata.list into Row values, using a Schema that can be
built with NewSchemaBuilder or read with SchemaFromAPI:

	schema, err := gobigquery.NewSchemaBuilder().
		String("name", gobigquery.Required()).
		Record("address", func(b *gobigquery.SchemaBuilder) {
			b.String("city").Integer("zip")
		}, gobigquery.Repeated()).
		Build()

Decoded values use the same Go types as parameters. Null cells decode to nil, REPEATED
fields to []any and records to Row.

# Inserting rows

EncodeInsertRow and NewInsertAllRequest format rows for tabledata.insertAll.
Insert IDs are derived from the row content by default. See InsertIDMode.

# Errors

All conversion failures are *ConversionError values. Use IsInferenceError,
IsFormatError and IsStructureMismatch to tell the categories apart. The Path field
names the offending value, for example "rows[1].when.n[1]".

# Configuration

LoadConfig reads $GOBIGQUERY_HOME/config.toml (default ~/.gobigquery/config.toml) and
selects the section named by GOBIGQUERY_PROFILE:

	[default]
	location = "UTC"
	use_int64_timestamp = false
	decode_concurrency = 4
	insert_id_mode = "content"
	log_level = "warn"

# Logging

The library logs through a logrus based logger. SetLogLevel changes the level and
SetLogger replaces the logger.
*/
package gobigquery
