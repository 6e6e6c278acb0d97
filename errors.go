package gobigquery

import (
	"errors"
	"fmt"
)

// ConversionError is an error type carrying the error code and, when known, the path of the
// value that failed to convert.
type ConversionError struct {
	Number      int
	Message     string
	MessageArgs []interface{}
	// Path locates the offending value inside a composite value or row, e.g. "cities[2].name".
	Path string
	Err  error
}

func (ce *ConversionError) Error() string {
	message := ce.Message
	if len(ce.MessageArgs) > 0 {
		message = fmt.Sprintf(ce.Message, ce.MessageArgs...)
	}
	if ce.Path != "" {
		message = fmt.Sprintf("%s (at %s)", message, ce.Path)
	}
	if ce.Err != nil {
		return fmt.Sprintf("%06d: %s: %v", ce.Number, message, ce.Err)
	}
	return fmt.Sprintf("%06d: %s", ce.Number, message)
}

func (ce *ConversionError) Unwrap() error {
	return ce.Err
}

// Is reports whether target is a *ConversionError with the same code, so that the
// preformatted errors below can be used with errors.Is.
func (ce *ConversionError) Is(target error) bool {
	var other *ConversionError
	if !errors.As(target, &other) {
		return false
	}
	return ce.Number == other.Number
}

func (ce *ConversionError) withPath(path string) *ConversionError {
	cp := *ce
	cp.Path = path
	return &cp
}

const (
	// inference

	// ErrCodeCannotInferNil is an error code for the case where a nil value is encoded without a declared type.
	ErrCodeCannotInferNil = 270001
	// ErrCodeEmptyArrayNoType is an error code for the case where an empty untyped array is encoded without a declared element type.
	ErrCodeEmptyArrayNoType = 270002
	// ErrCodeUndeclaredStructField is an error code for the case where a struct value carries a field its declared type does not list.
	ErrCodeUndeclaredStructField = 270003
	// ErrCodeInvalidParamType is an error code for the case where a declared parameter type is malformed.
	ErrCodeInvalidParamType = 270004

	// format

	// ErrCodeInvalidScalar is an error code for the case where a value cannot be rendered in, or parsed from, the canonical form of its wire type.
	ErrCodeInvalidScalar = 271001
	// ErrCodeDecimalOutOfRange is an error code for the case where a decimal exceeds the digit capacity of NUMERIC or BIGNUMERIC.
	ErrCodeDecimalOutOfRange = 271002
	// ErrCodeUnsupportedValue is an error code for the case where a native value has no rendering in the requested wire type.
	ErrCodeUnsupportedValue = 271003
	// ErrCodeArrayExpected is an error code for the case where an ARRAY is declared but the value is not a list.
	ErrCodeArrayExpected = 271004
	// ErrCodeStructExpected is an error code for the case where a STRUCT is declared but the value is not a keyed mapping.
	ErrCodeStructExpected = 271005

	// structure

	// ErrCodeTooManyCells is an error code for the case where a row has more cells than its schema has fields.
	ErrCodeTooManyCells = 272001
	// ErrCodeCellShape is an error code for the case where a cell does not have the wrapper shape of the wire format.
	ErrCodeCellShape = 272002
	// ErrCodeRecordExpected is an error code for the case where a record field holds something other than a nested cell group.
	ErrCodeRecordExpected = 272003
	// ErrCodeListExpected is an error code for the case where a repeated field holds something other than a list of cells.
	ErrCodeListExpected = 272004
	// ErrCodeScalarExpected is an error code for the case where a scalar field holds a list or a nested cell group.
	ErrCodeScalarExpected = 272005
	// ErrCodeInvalidSchema is an error code for the case where a schema field definition is invalid.
	ErrCodeInvalidSchema = 272006
	// ErrCodeColumnMismatch is an error code for the case where a columnar batch disagrees with the schema.
	ErrCodeColumnMismatch = 272007

	// configuration

	// ErrCodeFailedToFindProfile is an error code for the case where the config file has no section for the selected profile.
	ErrCodeFailedToFindProfile = 273001
	// ErrCodeTomlFileParsingFailed is an error code for the case where a config value has the wrong type or format.
	ErrCodeTomlFileParsingFailed = 273002
)

const (
	errMsgInvalidScalar       = "invalid %v value: %q"
	errMsgUnsupportedValue    = "cannot convert %T to %v"
	errMsgDecimalOutOfRange   = "decimal %v exceeds the range of %v"
	errMsgTooManyCells        = "row has %d cells but the schema has %d fields"
	errMsgCellShape           = "cell must be an object with a \"v\" key, got %T"
	errMsgRecordExpected      = "record field %q expects an object with an \"f\" list, got %T"
	errMsgListExpected        = "repeated field %q expects a list of cells, got %T"
	errMsgScalarExpected      = "field %q of type %v expects a scalar, got %T"
	errMsgUndeclaredField     = "struct field %q is not part of the declared type"
	errMsgInvalidSchemaField  = "invalid schema field %q: %v"
	errMsgColumnMismatch      = "column %q: %v"
	errMsgInvalidParamTypeStr = "cannot parse parameter type %q: %v"
	errMsgFailedToFindProfile = "profile %q not found in %v"
	errMsgFailedToParseToml   = "failed to parse the value of %q: %v"
)

var (
	// preformatted errors

	// ErrCannotInferNil is returned when a nil value is encoded without a declared type.
	ErrCannotInferNil = &ConversionError{
		Number:  ErrCodeCannotInferNil,
		Message: "cannot infer the type of a nil value; a declared type is required",
	}
	// ErrEmptyArrayNoType is returned when an empty untyped array is encoded without a declared element type.
	ErrEmptyArrayNoType = &ConversionError{
		Number:  ErrCodeEmptyArrayNoType,
		Message: "cannot infer the element type of an empty array; a declared type is required",
	}
	// ErrInvalidScalar is returned when a scalar value is malformed for its wire type.
	ErrInvalidScalar = &ConversionError{
		Number:  ErrCodeInvalidScalar,
		Message: "invalid scalar value",
	}
	// ErrDecimalOutOfRange is returned when a decimal does not fit NUMERIC or BIGNUMERIC.
	ErrDecimalOutOfRange = &ConversionError{
		Number:  ErrCodeDecimalOutOfRange,
		Message: "decimal out of range",
	}
	// ErrTooManyCells is returned when a row carries more cells than its schema has fields.
	ErrTooManyCells = &ConversionError{
		Number:  ErrCodeTooManyCells,
		Message: "row is wider than its schema",
	}
)

// IsInferenceError reports whether err is caused by a value whose wire type could not be
// determined without a declared type.
func IsInferenceError(err error) bool {
	return codeInRange(err, 270000, 271000)
}

// IsFormatError reports whether err is caused by a value that cannot be rendered in, or parsed
// from, its wire type's canonical form.
func IsFormatError(err error) bool {
	return codeInRange(err, 271000, 272000)
}

// IsStructureMismatch reports whether err is caused by a schema and a row whose shapes disagree.
// Such errors are not retryable: the same schema and row reproduce them.
func IsStructureMismatch(err error) bool {
	return codeInRange(err, 272000, 273000)
}

func codeInRange(err error, lo, hi int) bool {
	var ce *ConversionError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Number >= lo && ce.Number < hi
}

func errInvalidScalar(t WireType, s string, cause error) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeInvalidScalar,
		Message:     errMsgInvalidScalar,
		MessageArgs: []interface{}{t, s},
		Err:         cause,
	}
}

func errUnsupportedValue(v any, t WireType) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeUnsupportedValue,
		Message:     errMsgUnsupportedValue,
		MessageArgs: []interface{}{v, t},
	}
}

// pathErr attaches path to a ConversionError that has none yet.
func pathErr(err error, path string) error {
	if ce, ok := err.(*ConversionError); ok && ce.Path == "" && path != "" {
		return ce.withPath(path)
	}
	return err
}

// errorKind names the category of err for metrics labels.
func errorKind(err error) string {
	switch {
	case IsInferenceError(err):
		return "inference"
	case IsFormatError(err):
		return "format"
	case IsStructureMismatch(err):
		return "structure"
	}
	return "other"
}
