package gobigquery

import (
	"fmt"
	"strings"

	"github.com/bqdriver/gobigquery/internal/types"
)

// WireType is the type tag transmitted to and from the service. It is distinct from the Go
// type of the value it describes.
type WireType = types.WireType

const (
	// DataTypeUnknown is the type of an unrecognized type name.
	DataTypeUnknown = types.UnknownType
	// DataTypeBool is a BOOL datatype.
	DataTypeBool = types.BoolType
	// DataTypeInt64 is an INT64 datatype.
	DataTypeInt64 = types.Int64Type
	// DataTypeFloat64 is a FLOAT64 datatype.
	DataTypeFloat64 = types.Float64Type
	// DataTypeNumeric is a NUMERIC datatype.
	DataTypeNumeric = types.NumericType
	// DataTypeBigNumeric is a BIGNUMERIC datatype.
	DataTypeBigNumeric = types.BigNumericType
	// DataTypeString is a STRING datatype.
	DataTypeString = types.StringType
	// DataTypeBytes is a BYTES datatype.
	DataTypeBytes = types.BytesType
	// DataTypeDate is a DATE datatype.
	DataTypeDate = types.DateType
	// DataTypeDateTime is a DATETIME datatype.
	DataTypeDateTime = types.DateTimeType
	// DataTypeTime is a TIME datatype.
	DataTypeTime = types.TimeType
	// DataTypeTimestamp is a TIMESTAMP datatype.
	DataTypeTimestamp = types.TimestampType
	// DataTypeGeography is a GEOGRAPHY datatype.
	DataTypeGeography = types.GeographyType
	// DataTypeJSON is a JSON datatype.
	DataTypeJSON = types.JSONType
	// DataTypeArray is an ARRAY datatype.
	DataTypeArray = types.ArrayType
	// DataTypeStruct is a STRUCT datatype.
	DataTypeStruct = types.StructType
)

// ParseWireType returns the WireType named by s, accepting legacy schema spellings such as
// INTEGER or RECORD.
func ParseWireType(s string) (WireType, error) {
	wt := types.GetWireType(s)
	if wt == types.UnknownType {
		return wt, fmt.Errorf("unknown type %q", s)
	}
	return wt, nil
}

// StructFieldType names one field of a STRUCT parameter type.
type StructFieldType struct {
	Name string
	Type *ParamType
}

// ParamType is the shape of a query parameter's type: a scalar wire type, an ARRAY with its
// element type, or a STRUCT with its ordered field types.
//
// A declared ARRAY without ArrayType, or a STRUCT without StructTypes, asks the encoder to infer
// the missing part from the value.
type ParamType struct {
	Type        WireType
	ArrayType   *ParamType
	StructTypes []StructFieldType
}

// ScalarType returns the ParamType for a scalar wire type.
func ScalarType(t WireType) *ParamType {
	return &ParamType{Type: t}
}

// ArrayOf returns the ParamType of an ARRAY whose elements have type elem.
func ArrayOf(elem *ParamType) *ParamType {
	return &ParamType{Type: types.ArrayType, ArrayType: elem}
}

// StructOf returns the ParamType of a STRUCT with the given fields, in order.
func StructOf(fields ...StructFieldType) *ParamType {
	if fields == nil {
		fields = []StructFieldType{}
	}
	return &ParamType{Type: types.StructType, StructTypes: fields}
}

// FieldType is a shorthand for building a StructFieldType.
func FieldType(name string, t *ParamType) StructFieldType {
	return StructFieldType{Name: name, Type: t}
}

// String renders the type in Standard SQL notation, e.g. ARRAY<STRUCT<age INT64>>.
func (pt *ParamType) String() string {
	if pt == nil {
		return "<nil>"
	}
	switch pt.Type {
	case types.ArrayType:
		if pt.ArrayType == nil {
			return "ARRAY"
		}
		return "ARRAY<" + pt.ArrayType.String() + ">"
	case types.StructType:
		if pt.StructTypes == nil {
			return "STRUCT"
		}
		parts := make([]string, len(pt.StructTypes))
		for i, f := range pt.StructTypes {
			parts[i] = f.Name + " " + f.Type.String()
		}
		return "STRUCT<" + strings.Join(parts, ", ") + ">"
	}
	return pt.Type.String()
}

// Equal reports whether both types describe the same shape.
func (pt *ParamType) Equal(other *ParamType) bool {
	if pt == nil || other == nil {
		return pt == other
	}
	if pt.Type != other.Type || len(pt.StructTypes) != len(other.StructTypes) {
		return false
	}
	if (pt.StructTypes == nil) != (other.StructTypes == nil) {
		return false
	}
	if (pt.ArrayType == nil) != (other.ArrayType == nil) {
		return false
	}
	if pt.ArrayType != nil && !pt.ArrayType.Equal(other.ArrayType) {
		return false
	}
	for i, f := range pt.StructTypes {
		if f.Name != other.StructTypes[i].Name || !f.Type.Equal(other.StructTypes[i].Type) {
			return false
		}
	}
	return true
}

// complete reports whether no part of the type is left to inference.
func (pt *ParamType) complete() bool {
	switch pt.Type {
	case types.ArrayType:
		return pt.ArrayType != nil && pt.ArrayType.complete()
	case types.StructType:
		if pt.StructTypes == nil {
			return false
		}
		for _, f := range pt.StructTypes {
			if f.Type == nil || !f.Type.complete() {
				return false
			}
		}
	}
	return true
}

// ParseParamType parses a type written in Standard SQL notation: a scalar name such as INT64,
// ARRAY<elem>, or STRUCT<name type, ...>. Bare ARRAY and STRUCT leave the nested part to
// inference.
func ParseParamType(s string) (*ParamType, error) {
	p := &paramTypeParser{src: s}
	pt, err := p.parse()
	if err != nil {
		return nil, &ConversionError{
			Number:      ErrCodeInvalidParamType,
			Message:     errMsgInvalidParamTypeStr,
			MessageArgs: []interface{}{s, err},
		}
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &ConversionError{
			Number:      ErrCodeInvalidParamType,
			Message:     errMsgInvalidParamTypeStr,
			MessageArgs: []interface{}{s, fmt.Sprintf("unexpected %q", p.src[p.pos:])},
		}
	}
	return pt, nil
}

type paramTypeParser struct {
	src string
	pos int
}

func (p *paramTypeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *paramTypeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *paramTypeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *paramTypeParser) parse() (*ParamType, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("type name expected at offset %d", p.pos)
	}
	wt := types.GetWireType(name)
	switch wt {
	case types.UnknownType:
		return nil, fmt.Errorf("unknown type %q", name)
	case types.ArrayType:
		if !p.accept('<') {
			return &ParamType{Type: wt}, nil
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !p.accept('>') {
			return nil, fmt.Errorf("'>' expected at offset %d", p.pos)
		}
		return ArrayOf(elem), nil
	case types.StructType:
		if !p.accept('<') {
			return &ParamType{Type: wt}, nil
		}
		fields := []StructFieldType{}
		if p.accept('>') {
			return StructOf(fields...), nil
		}
		for {
			fname := p.ident()
			if fname == "" {
				return nil, fmt.Errorf("field name expected at offset %d", p.pos)
			}
			ft, err := p.parse()
			if err != nil {
				return nil, err
			}
			fields = append(fields, FieldType(fname, ft))
			if p.accept(',') {
				continue
			}
			if p.accept('>') {
				return StructOf(fields...), nil
			}
			return nil, fmt.Errorf("',' or '>' expected at offset %d", p.pos)
		}
	}
	return ScalarType(wt), nil
}
