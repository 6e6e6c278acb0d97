package types

import (
	"strings"
)

// WireType represents the type tags BigQuery uses on the wire for query parameters, table
// schemas and row values.
type WireType int

const (
	// UnknownType represents a type name the library does not recognize.
	UnknownType WireType = iota
	// BoolType represents the BOOL type (BOOLEAN in legacy schemas).
	BoolType
	// Int64Type represents the INT64 type (INTEGER in legacy schemas).
	Int64Type
	// Float64Type represents the FLOAT64 type (FLOAT in legacy schemas).
	Float64Type
	// NumericType represents the NUMERIC type, a decimal with 38 digits of precision and 9 digits of scale.
	NumericType
	// BigNumericType represents the BIGNUMERIC type, a decimal with up to 76 digits of precision and 38 digits of scale.
	BigNumericType
	// StringType represents the STRING type.
	StringType
	// BytesType represents the BYTES type. Values travel base64 encoded.
	BytesType
	// DateType represents the DATE type, a calendar date without time or zone.
	DateType
	// DateTimeType represents the DATETIME type, a civil date and time without zone.
	DateTimeType
	// TimeType represents the TIME type, a time of day without date or zone.
	TimeType
	// TimestampType represents the TIMESTAMP type, an absolute point in time.
	TimestampType
	// GeographyType represents the GEOGRAPHY type. Values are WKT or GeoJSON text.
	GeographyType
	// JSONType represents the JSON type. Values are JSON documents as text.
	JSONType
	// ArrayType represents the ARRAY composite type.
	ArrayType
	// StructType represents the STRUCT composite type (RECORD in legacy schemas).
	StructType
)

var wireTypeNames = map[WireType]string{
	BoolType:       "BOOL",
	Int64Type:      "INT64",
	Float64Type:    "FLOAT64",
	NumericType:    "NUMERIC",
	BigNumericType: "BIGNUMERIC",
	StringType:     "STRING",
	BytesType:      "BYTES",
	DateType:       "DATE",
	DateTimeType:   "DATETIME",
	TimeType:       "TIME",
	TimestampType:  "TIMESTAMP",
	GeographyType:  "GEOGRAPHY",
	JSONType:       "JSON",
	ArrayType:      "ARRAY",
	StructType:     "STRUCT",
}

// NameToWireType maps every type name the service may send, including the legacy schema
// spellings, to its WireType.
var NameToWireType = map[string]WireType{
	"BOOL":       BoolType,
	"BOOLEAN":    BoolType,
	"INT64":      Int64Type,
	"INTEGER":    Int64Type,
	"FLOAT64":    Float64Type,
	"FLOAT":      Float64Type,
	"NUMERIC":    NumericType,
	"DECIMAL":    NumericType,
	"BIGNUMERIC": BigNumericType,
	"BIGDECIMAL": BigNumericType,
	"STRING":     StringType,
	"BYTES":      BytesType,
	"DATE":       DateType,
	"DATETIME":   DateTimeType,
	"TIME":       TimeType,
	"TIMESTAMP":  TimestampType,
	"GEOGRAPHY":  GeographyType,
	"JSON":       JSONType,
	"ARRAY":      ArrayType,
	"STRUCT":     StructType,
	"RECORD":     StructType,
}

// legacySchemaNames holds the names table schemas have historically used. The service accepts
// both spellings; schemas we produce use these so they compare equal to what the service returns.
var legacySchemaNames = map[WireType]string{
	BoolType:    "BOOLEAN",
	Int64Type:   "INTEGER",
	Float64Type: "FLOAT",
	StructType:  "RECORD",
}

func (wt WireType) String() string {
	if name, ok := wireTypeNames[wt]; ok {
		return name
	}
	return "UNKNOWN"
}

// SchemaName returns the name used for the type in table schemas.
func (wt WireType) SchemaName() string {
	if name, ok := legacySchemaNames[wt]; ok {
		return name
	}
	return wt.String()
}

// IsComposite reports whether the type nests other types.
func (wt WireType) IsComposite() bool {
	return wt == ArrayType || wt == StructType
}

// IsDecimal reports whether the type is one of the fixed-point decimal types.
func (wt WireType) IsDecimal() bool {
	return wt == NumericType || wt == BigNumericType
}

// GetWireType takes a type name in any case and returns the corresponding WireType, or
// UnknownType if the name is not recognized.
func GetWireType(name string) WireType {
	return NameToWireType[strings.ToUpper(strings.TrimSpace(name))]
}
