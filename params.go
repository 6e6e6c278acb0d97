package gobigquery

import (
	"encoding/json"
	"sort"

	bq "google.golang.org/api/bigquery/v2"

	"github.com/bqdriver/gobigquery/metrics"
)

// ParamValue is the wire value of a query parameter. At most one of Value, ArrayValues and
// StructValues is set; a ParamValue with none of them is a typed null. A non-nil empty
// ArrayValues is an empty array, distinct from a null one.
type ParamValue struct {
	Value        *string
	ArrayValues  []*ParamValue
	StructValues map[string]*ParamValue
}

// IsNull reports whether the value is a typed null.
func (pv *ParamValue) IsNull() bool {
	return pv == nil || pv.Value == nil && pv.ArrayValues == nil && pv.StructValues == nil
}

// QueryParameter is a typed, wire-encoded query parameter. Positional parameters have an
// empty Name.
type QueryParameter struct {
	Name  string
	Type  *ParamType
	Value *ParamValue
}

// NewQueryParameter encodes a positional query parameter. With a nil declared type the wire
// type is inferred from value; a declared type overrides inference, and a nil value with a
// declared type becomes a typed null. Parts of a declared ARRAY or STRUCT type left nil are
// inferred from the value.
func NewQueryParameter(value any, declared *ParamType) (*QueryParameter, error) {
	return NewNamedQueryParameter("", value, declared)
}

// NewNamedQueryParameter is NewQueryParameter for a named parameter.
func NewNamedQueryParameter(name string, value any, declared *ParamType) (*QueryParameter, error) {
	p, err := encodeParameter(name, value, declared)
	if err != nil {
		metrics.ConversionErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}
	metrics.ParamsEncoded.WithLabelValues(p.Type.Type.String()).Inc()
	return p, nil
}

// EncodePositional encodes values as positional parameters. types may be shorter than values
// or nil; missing entries are inferred.
func EncodePositional(values []any, types []*ParamType) ([]*QueryParameter, error) {
	params := make([]*QueryParameter, len(values))
	for i, v := range values {
		var declared *ParamType
		if i < len(types) {
			declared = types[i]
		}
		p, err := NewQueryParameter(v, declared)
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}

// EncodeNamed encodes values as named parameters, sorted by name.
func EncodeNamed(values map[string]any, types map[string]*ParamType) ([]*QueryParameter, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	params := make([]*QueryParameter, len(names))
	for i, name := range names {
		p, err := NewNamedQueryParameter(name, values[name], types[name])
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}

func encodeParameter(name string, value any, declared *ParamType) (*QueryParameter, error) {
	pt, err := resolveType(value, declared, name)
	if err != nil {
		return nil, err
	}
	pv, err := encodeValue(value, pt, name)
	if err != nil {
		return nil, err
	}
	return &QueryParameter{Name: name, Type: pt, Value: pv}, nil
}

// resolveType completes a declared type from the value, or infers the whole type when nothing
// is declared.
func resolveType(v any, declared *ParamType, path string) (*ParamType, error) {
	if declared == nil {
		return inferParamType(v, path)
	}
	if declared.complete() {
		return declared, nil
	}
	if isNilValue(v) {
		return nil, ErrCannotInferNil.withPath(path)
	}
	switch declared.Type {
	case DataTypeArray:
		list, static, ok := listOf(v)
		if !ok {
			return nil, errArrayExpected(v, path)
		}
		if declared.ArrayType == nil && static != nil {
			return ArrayOf(static), nil
		}
		if len(list) == 0 {
			return nil, ErrEmptyArrayNoType.withPath(path)
		}
		elem, err := resolveType(list[0], declared.ArrayType, indexPath(path, 0))
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case DataTypeStruct:
		rec, ok := recordOf(v)
		if !ok {
			return nil, errStructExpected(v, path)
		}
		if declared.StructTypes == nil {
			return inferParamType(rec, path)
		}
		fields := make([]StructFieldType, len(declared.StructTypes))
		for i, f := range declared.StructTypes {
			fv, _ := rec.Get(f.Name)
			ft, err := resolveType(fv, f.Type, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = FieldType(f.Name, ft)
		}
		return StructOf(fields...), nil
	}
	return declared, nil
}

// encodeValue renders v against the complete type pt.
func encodeValue(v any, pt *ParamType, path string) (*ParamValue, error) {
	if isNilValue(v) {
		return &ParamValue{}, nil
	}
	switch pt.Type {
	case DataTypeArray:
		list, _, ok := listOf(v)
		if !ok {
			return nil, errArrayExpected(v, path)
		}
		if list == nil {
			return &ParamValue{}, nil
		}
		values := make([]*ParamValue, len(list))
		for i, e := range list {
			ev, err := encodeValue(e, pt.ArrayType, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			values[i] = ev
		}
		return &ParamValue{ArrayValues: values}, nil
	case DataTypeStruct:
		rec, ok := recordOf(v)
		if !ok {
			return nil, errStructExpected(v, path)
		}
		if rec == nil {
			return &ParamValue{}, nil
		}
		values := make(map[string]*ParamValue, len(rec))
		for _, f := range rec {
			ft := pt.fieldType(f.Name)
			if ft == nil {
				return nil, &ConversionError{
					Number:      ErrCodeUndeclaredStructField,
					Message:     errMsgUndeclaredField,
					MessageArgs: []interface{}{f.Name},
					Path:        path,
				}
			}
			fv, err := encodeValue(f.Value, ft, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			values[f.Name] = fv
		}
		return &ParamValue{StructValues: values}, nil
	}
	s, err := defaultCodec.valueToString(v, pt.Type)
	if err != nil {
		return nil, pathErr(err, path)
	}
	return &ParamValue{Value: &s}, nil
}

func (pt *ParamType) fieldType(name string) *ParamType {
	for _, f := range pt.StructTypes {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

func errArrayExpected(v any, path string) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeArrayExpected,
		Message:     errMsgUnsupportedValue,
		MessageArgs: []interface{}{v, DataTypeArray},
		Path:        path,
	}
}

func errStructExpected(v any, path string) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeStructExpected,
		Message:     errMsgUnsupportedValue,
		MessageArgs: []interface{}{v, DataTypeStruct},
		Path:        path,
	}
}

// Decode parses the parameter's wire value back into native values: scalars as ParseScalar
// returns them, arrays as []any and structs as Records in field type order. A typed null
// decodes to nil.
func (p *QueryParameter) Decode() (any, error) {
	return decodeParamValue(p.Value, p.Type, p.Name)
}

func decodeParamValue(pv *ParamValue, pt *ParamType, path string) (any, error) {
	if pv.IsNull() {
		return nil, nil
	}
	switch pt.Type {
	case DataTypeArray:
		out := make([]any, len(pv.ArrayValues))
		for i, e := range pv.ArrayValues {
			v, err := decodeParamValue(e, pt.ArrayType, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case DataTypeStruct:
		rec := make(Record, 0, len(pt.StructTypes))
		for _, f := range pt.StructTypes {
			fv, ok := pv.StructValues[f.Name]
			if !ok {
				continue
			}
			v, err := decodeParamValue(fv, f.Type, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			rec = append(rec, Field{Name: f.Name, Value: v})
		}
		return rec, nil
	}
	if pv.Value == nil {
		return nil, errUnsupportedValue(pv, pt.Type).withPath(path)
	}
	v, err := defaultCodec.stringToValue(*pv.Value, pt.Type)
	if err != nil {
		return nil, pathErr(err, path)
	}
	return v, nil
}

// ToAPI converts the parameter to the REST representation. A typed null is sent with an
// explicit "value": null.
func (p *QueryParameter) ToAPI() *bq.QueryParameter {
	return &bq.QueryParameter{
		Name:           p.Name,
		ParameterType:  paramTypeToAPI(p.Type),
		ParameterValue: paramValueToAPI(p.Value),
	}
}

// MarshalJSON renders the parameter in the REST wire shape.
func (p *QueryParameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToAPI())
}

func paramTypeToAPI(pt *ParamType) *bq.QueryParameterType {
	if pt == nil {
		return nil
	}
	out := &bq.QueryParameterType{Type: pt.Type.String()}
	switch pt.Type {
	case DataTypeArray:
		out.ArrayType = paramTypeToAPI(pt.ArrayType)
	case DataTypeStruct:
		out.StructTypes = make([]*bq.QueryParameterTypeStructTypes, len(pt.StructTypes))
		for i, f := range pt.StructTypes {
			out.StructTypes[i] = &bq.QueryParameterTypeStructTypes{
				Name: f.Name,
				Type: paramTypeToAPI(f.Type),
			}
		}
	}
	return out
}

func paramValueToAPI(pv *ParamValue) *bq.QueryParameterValue {
	if pv.IsNull() {
		return &bq.QueryParameterValue{NullFields: []string{"Value"}}
	}
	out := &bq.QueryParameterValue{}
	switch {
	case pv.Value != nil:
		out.Value = *pv.Value
		out.ForceSendFields = []string{"Value"}
	case pv.ArrayValues != nil:
		out.ArrayValues = make([]*bq.QueryParameterValue, len(pv.ArrayValues))
		for i, e := range pv.ArrayValues {
			out.ArrayValues[i] = paramValueToAPI(e)
		}
		out.ForceSendFields = []string{"ArrayValues"}
	default:
		out.StructValues = make(map[string]bq.QueryParameterValue, len(pv.StructValues))
		for name, fv := range pv.StructValues {
			out.StructValues[name] = *paramValueToAPI(fv)
		}
		out.ForceSendFields = []string{"StructValues"}
	}
	return out
}

// QueryParameterFromAPI converts a REST parameter back. An empty scalar value with no forced
// send marker is read as a typed null.
func QueryParameterFromAPI(p *bq.QueryParameter) (*QueryParameter, error) {
	pt, err := paramTypeFromAPI(p.ParameterType, p.Name)
	if err != nil {
		return nil, err
	}
	return &QueryParameter{
		Name:  p.Name,
		Type:  pt,
		Value: paramValueFromAPI(p.ParameterValue, pt),
	}, nil
}

func paramTypeFromAPI(t *bq.QueryParameterType, path string) (*ParamType, error) {
	if t == nil {
		return nil, &ConversionError{
			Number:      ErrCodeInvalidParamType,
			Message:     errMsgInvalidParamTypeStr,
			MessageArgs: []interface{}{"", "missing parameter type"},
			Path:        path,
		}
	}
	wt, err := ParseWireType(t.Type)
	if err != nil {
		return nil, &ConversionError{
			Number:      ErrCodeInvalidParamType,
			Message:     errMsgInvalidParamTypeStr,
			MessageArgs: []interface{}{t.Type, err},
			Path:        path,
		}
	}
	switch wt {
	case DataTypeArray:
		elem, err := paramTypeFromAPI(t.ArrayType, indexPath(path, 0))
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case DataTypeStruct:
		fields := make([]StructFieldType, len(t.StructTypes))
		for i, f := range t.StructTypes {
			ft, err := paramTypeFromAPI(f.Type, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = FieldType(f.Name, ft)
		}
		return StructOf(fields...), nil
	}
	return ScalarType(wt), nil
}

func paramValueFromAPI(v *bq.QueryParameterValue, pt *ParamType) *ParamValue {
	if v == nil {
		return &ParamValue{}
	}
	if pt == nil {
		pt = ScalarType(DataTypeString)
	}
	switch pt.Type {
	case DataTypeArray:
		if v.ArrayValues == nil && !forced(v.ForceSendFields, "ArrayValues") {
			return &ParamValue{}
		}
		values := make([]*ParamValue, len(v.ArrayValues))
		for i, e := range v.ArrayValues {
			values[i] = paramValueFromAPI(e, pt.ArrayType)
		}
		return &ParamValue{ArrayValues: values}
	case DataTypeStruct:
		if v.StructValues == nil && !forced(v.ForceSendFields, "StructValues") {
			return &ParamValue{}
		}
		values := make(map[string]*ParamValue, len(v.StructValues))
		for name, fv := range v.StructValues {
			fv := fv
			values[name] = paramValueFromAPI(&fv, pt.fieldType(name))
		}
		return &ParamValue{StructValues: values}
	}
	if v.Value == "" && !forced(v.ForceSendFields, "Value") {
		return &ParamValue{}
	}
	s := v.Value
	return &ParamValue{Value: &s}
}

func forced(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
