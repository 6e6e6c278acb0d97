package gobigquery

import (
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
)

// InferWireType maps the runtime shape of a native value to a wire type. It is total: values
// outside the known variants, plain strings included, are STRING. A decimal is always NUMERIC;
// BIGNUMERIC, GEOGRAPHY and JSON can only be declared.
func InferWireType(v any) WireType {
	switch v.(type) {
	case bool:
		return DataTypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return DataTypeInt64
	case float32, float64:
		return DataTypeFloat64
	case *apd.Decimal, apd.Decimal:
		return DataTypeNumeric
	case []byte, io.Reader:
		return DataTypeBytes
	case civil.Date:
		return DataTypeDate
	case civil.DateTime:
		return DataTypeDateTime
	case time.Time:
		return DataTypeTimestamp
	case civil.Time:
		return DataTypeTime
	case Record, map[string]any:
		return DataTypeStruct
	}
	if _, _, ok := listOf(v); ok {
		return DataTypeArray
	}
	return DataTypeString
}

// InferParamType returns the full type shape of v: element types of arrays are inferred from
// the first element, field types of structs from each field in order. It fails for nil values
// and for empty arrays whose element type cannot be known from their Go type.
func InferParamType(v any) (*ParamType, error) {
	return inferParamType(v, "")
}

func inferParamType(v any, path string) (*ParamType, error) {
	if isNilValue(v) {
		return nil, ErrCannotInferNil.withPath(path)
	}
	wt := InferWireType(v)
	switch wt {
	case DataTypeArray:
		list, static, _ := listOf(v)
		if static != nil {
			return ArrayOf(static), nil
		}
		if len(list) == 0 {
			return nil, ErrEmptyArrayNoType.withPath(path)
		}
		elem, err := inferParamType(list[0], indexPath(path, 0))
		if err != nil {
			return nil, err
		}
		logger.Tracef("inferred %v from the first element of %v", elem, pathOrRoot(path))
		return ArrayOf(elem), nil
	case DataTypeStruct:
		rec, _ := recordOf(v)
		fields := make([]StructFieldType, 0, len(rec))
		for _, f := range rec {
			ft, err := inferParamType(f.Value, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields = append(fields, FieldType(f.Name, ft))
		}
		return StructOf(fields...), nil
	}
	return ScalarType(wt), nil
}

// isNilValue reports whether v is null: a nil interface or a nil decimal or byte slice.
func isNilValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *apd.Decimal:
		return v == nil
	case []byte:
		return v == nil
	}
	return false
}

// listOf returns the elements of a list value. For typed slices whose element type fixes the
// wire type, static is that type, so even an empty slice has a known shape. A nil slice yields
// a nil list.
func listOf(v any) (list []any, static *ParamType, ok bool) {
	switch v := v.(type) {
	case []any:
		return v, nil, true
	case []string:
		return anySlice(v), ScalarType(DataTypeString), true
	case []int:
		return anySlice(v), ScalarType(DataTypeInt64), true
	case []int32:
		return anySlice(v), ScalarType(DataTypeInt64), true
	case []int64:
		return anySlice(v), ScalarType(DataTypeInt64), true
	case []float32:
		return anySlice(v), ScalarType(DataTypeFloat64), true
	case []float64:
		return anySlice(v), ScalarType(DataTypeFloat64), true
	case []bool:
		return anySlice(v), ScalarType(DataTypeBool), true
	case [][]byte:
		return anySlice(v), ScalarType(DataTypeBytes), true
	case []*apd.Decimal:
		return anySlice(v), ScalarType(DataTypeNumeric), true
	case []civil.Date:
		return anySlice(v), ScalarType(DataTypeDate), true
	case []civil.DateTime:
		return anySlice(v), ScalarType(DataTypeDateTime), true
	case []civil.Time:
		return anySlice(v), ScalarType(DataTypeTime), true
	case []time.Time:
		return anySlice(v), ScalarType(DataTypeTimestamp), true
	case []Record:
		return anySlice(v), nil, true
	case []map[string]any:
		return anySlice(v), nil, true
	}
	return nil, nil, false
}

func anySlice[T any](s []T) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}

// recordOf returns the fields of a keyed mapping. A nil map or Record yields a nil Record,
// which encodes as a null STRUCT, while an empty one yields an empty Record.
func recordOf(v any) (Record, bool) {
	switch v := v.(type) {
	case Record:
		return v, true
	case map[string]any:
		if v == nil {
			return nil, true
		}
		return RecordFromMap(v), true
	}
	return nil, false
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func pathOrRoot(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
