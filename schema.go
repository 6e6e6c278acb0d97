package gobigquery

import (
	"bytes"
	"encoding/json"
	"strings"

	"cloud.google.com/go/bigquery"
	bq "google.golang.org/api/bigquery/v2"
)

// Mode is the repetition mode of a schema field.
type Mode string

const (
	// ModeNullable is a field that may be null. It is the default.
	ModeNullable Mode = "NULLABLE"
	// ModeRequired is a field that may not be null.
	ModeRequired Mode = "REQUIRED"
	// ModeRepeated is a field holding a list of values.
	ModeRepeated Mode = "REPEATED"
)

// SchemaField describes one column of a table or query result. Fields is non-empty exactly
// when Type is STRUCT.
type SchemaField struct {
	Name        string
	Type        WireType
	Mode        Mode
	Description string
	Fields      []*SchemaField
}

// Repeated reports whether the field holds a list.
func (f *SchemaField) Repeated() bool {
	return f.Mode == ModeRepeated
}

// Required reports whether the field may not be null.
func (f *SchemaField) Required() bool {
	return f.Mode == ModeRequired
}

// IsRecord reports whether the field holds nested records.
func (f *SchemaField) IsRecord() bool {
	return f.Type == DataTypeStruct
}

func (f *SchemaField) clone() *SchemaField {
	cp := *f
	cp.Fields = Schema(f.Fields).clone()
	return &cp
}

// Schema is the ordered list of fields of a table or query result. Field i describes cell i
// of every row.
type Schema []*SchemaField

// Headers returns the top level field names in order.
func (s Schema) Headers() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Field returns the top level field called name, or nil. Names compare case-insensitively,
// as column names do in the service.
func (s Schema) Field(name string) *SchemaField {
	for _, f := range s {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func (s Schema) clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for i, f := range s {
		out[i] = f.clone()
	}
	return out
}

// Validate checks every field recursively: names are set, types and modes are known, and
// records have nested fields while scalars have none.
func (s Schema) Validate() error {
	return s.validate("")
}

func (s Schema) validate(prefix string) error {
	for _, f := range s {
		if f == nil {
			return errInvalidSchema(prefix, "nil field")
		}
		path := joinPath(prefix, f.Name)
		switch {
		case f.Name == "":
			return errInvalidSchema(path, "empty name")
		case f.Type == DataTypeUnknown || f.Type == DataTypeArray:
			return errInvalidSchema(path, "unknown type "+f.Type.String())
		case f.Mode != "" && f.Mode != ModeNullable && f.Mode != ModeRequired && f.Mode != ModeRepeated:
			return errInvalidSchema(path, "unknown mode "+string(f.Mode))
		case f.IsRecord() && len(f.Fields) == 0:
			return errInvalidSchema(path, "record without fields")
		case !f.IsRecord() && len(f.Fields) > 0:
			return errInvalidSchema(path, "nested fields on a "+f.Type.String()+" field")
		}
		if f.IsRecord() {
			if err := Schema(f.Fields).validate(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func errInvalidSchema(path, reason string) *ConversionError {
	return &ConversionError{
		Number:      ErrCodeInvalidSchema,
		Message:     errMsgInvalidSchemaField,
		MessageArgs: []interface{}{path, reason},
		Path:        path,
	}
}

// FieldOption configures a field added through a SchemaBuilder.
type FieldOption func(*SchemaField)

// Required marks the field REQUIRED.
func Required() FieldOption {
	return func(f *SchemaField) { f.Mode = ModeRequired }
}

// Repeated marks the field REPEATED.
func Repeated() FieldOption {
	return func(f *SchemaField) { f.Mode = ModeRepeated }
}

// Description sets the field description.
func Description(s string) FieldOption {
	return func(f *SchemaField) { f.Description = s }
}

// SchemaBuilder accumulates field definitions. Build returns a Schema that shares nothing with
// the builder, so the builder can keep being used without affecting schemas already built.
type SchemaBuilder struct {
	fields []*SchemaField
}

// NewSchemaBuilder returns an empty builder.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{}
}

// Add adds a field of type t. Adding a name that is already present replaces that field in
// place.
func (b *SchemaBuilder) Add(name string, t WireType, opts ...FieldOption) *SchemaBuilder {
	f := &SchemaField{Name: name, Type: t, Mode: ModeNullable}
	for _, opt := range opts {
		opt(f)
	}
	return b.put(f)
}

func (b *SchemaBuilder) put(f *SchemaField) *SchemaBuilder {
	for i, existing := range b.fields {
		if existing.Name == f.Name {
			b.fields[i] = f
			return b
		}
	}
	b.fields = append(b.fields, f)
	return b
}

// String adds a STRING field.
func (b *SchemaBuilder) String(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeString, opts...)
}

// Integer adds an INT64 field.
func (b *SchemaBuilder) Integer(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeInt64, opts...)
}

// Float adds a FLOAT64 field.
func (b *SchemaBuilder) Float(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeFloat64, opts...)
}

// Numeric adds a NUMERIC field.
func (b *SchemaBuilder) Numeric(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeNumeric, opts...)
}

// BigNumeric adds a BIGNUMERIC field.
func (b *SchemaBuilder) BigNumeric(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeBigNumeric, opts...)
}

// Boolean adds a BOOL field.
func (b *SchemaBuilder) Boolean(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeBool, opts...)
}

// Bytes adds a BYTES field.
func (b *SchemaBuilder) Bytes(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeBytes, opts...)
}

// Timestamp adds a TIMESTAMP field.
func (b *SchemaBuilder) Timestamp(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeTimestamp, opts...)
}

// Time adds a TIME field.
func (b *SchemaBuilder) Time(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeTime, opts...)
}

// Datetime adds a DATETIME field.
func (b *SchemaBuilder) Datetime(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeDateTime, opts...)
}

// Date adds a DATE field.
func (b *SchemaBuilder) Date(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeDate, opts...)
}

// Geography adds a GEOGRAPHY field.
func (b *SchemaBuilder) Geography(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeGeography, opts...)
}

// JSON adds a JSON field.
func (b *SchemaBuilder) JSON(name string, opts ...FieldOption) *SchemaBuilder {
	return b.Add(name, DataTypeJSON, opts...)
}

// Record adds a RECORD field whose nested fields are added by build on a fresh builder.
func (b *SchemaBuilder) Record(name string, build func(*SchemaBuilder), opts ...FieldOption) *SchemaBuilder {
	nested := NewSchemaBuilder()
	if build != nil {
		build(nested)
	}
	f := &SchemaField{Name: name, Type: DataTypeStruct, Mode: ModeNullable, Fields: nested.fields}
	for _, opt := range opts {
		opt(f)
	}
	return b.put(f)
}

// Build validates the accumulated fields and returns them as a Schema.
func (b *SchemaBuilder) Build() (Schema, error) {
	s := Schema(b.fields).clone()
	if s == nil {
		s = Schema{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SchemaFromAPI converts a REST table schema. Legacy type names are accepted and an empty mode
// is NULLABLE.
func SchemaFromAPI(ts *bq.TableSchema) (Schema, error) {
	if ts == nil {
		return Schema{}, nil
	}
	s, err := fieldsFromAPI(ts.Fields, "")
	if err != nil {
		return nil, err
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func fieldsFromAPI(fields []*bq.TableFieldSchema, prefix string) (Schema, error) {
	s := make(Schema, 0, len(fields))
	for _, tf := range fields {
		if tf == nil {
			continue
		}
		path := joinPath(prefix, tf.Name)
		wt, err := ParseWireType(tf.Type)
		if err != nil {
			return nil, errInvalidSchema(path, err.Error())
		}
		nested, err := fieldsFromAPI(tf.Fields, path)
		if err != nil {
			return nil, err
		}
		if len(nested) == 0 {
			nested = nil
		}
		s = append(s, &SchemaField{
			Name:        tf.Name,
			Type:        wt,
			Mode:        parseMode(tf.Mode),
			Description: tf.Description,
			Fields:      nested,
		})
	}
	return s, nil
}

func parseMode(m string) Mode {
	if m == "" {
		return ModeNullable
	}
	return Mode(strings.ToUpper(m))
}

// ToAPI converts the schema to the REST representation using the schema type names the
// service itself returns (INTEGER, FLOAT, BOOLEAN, RECORD).
func (s Schema) ToAPI() *bq.TableSchema {
	return &bq.TableSchema{Fields: fieldsToAPI(s)}
}

func fieldsToAPI(s Schema) []*bq.TableFieldSchema {
	out := make([]*bq.TableFieldSchema, len(s))
	for i, f := range s {
		mode := f.Mode
		if mode == "" {
			mode = ModeNullable
		}
		out[i] = &bq.TableFieldSchema{
			Name:        f.Name,
			Type:        f.Type.SchemaName(),
			Mode:        string(mode),
			Description: f.Description,
		}
		if f.IsRecord() {
			out[i].Fields = fieldsToAPI(f.Fields)
		}
	}
	return out
}

// SchemaFromJSON parses a schema written as a JSON field list, the format of schema files, or
// as an object with a "fields" member, the format of API responses.
func SchemaFromJSON(data []byte) (Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var fields []*bq.TableFieldSchema
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, errInvalidSchema("", err.Error())
		}
		return SchemaFromAPI(&bq.TableSchema{Fields: fields})
	}
	var ts bq.TableSchema
	if err := json.Unmarshal(trimmed, &ts); err != nil {
		return nil, errInvalidSchema("", err.Error())
	}
	return SchemaFromAPI(&ts)
}

// SchemaFromBigQuery converts a schema of the cloud.google.com/go/bigquery client.
func SchemaFromBigQuery(s bigquery.Schema) (Schema, error) {
	out, err := fieldsFromBigQuery(s, "")
	if err != nil {
		return nil, err
	}
	if err = out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func fieldsFromBigQuery(s bigquery.Schema, prefix string) (Schema, error) {
	out := make(Schema, 0, len(s))
	for _, fs := range s {
		path := joinPath(prefix, fs.Name)
		wt, err := ParseWireType(string(fs.Type))
		if err != nil {
			return nil, errInvalidSchema(path, err.Error())
		}
		mode := ModeNullable
		switch {
		case fs.Repeated:
			mode = ModeRepeated
		case fs.Required:
			mode = ModeRequired
		}
		var nested Schema
		if len(fs.Schema) > 0 {
			if nested, err = fieldsFromBigQuery(fs.Schema, path); err != nil {
				return nil, err
			}
		}
		out = append(out, &SchemaField{
			Name:        fs.Name,
			Type:        wt,
			Mode:        mode,
			Description: fs.Description,
			Fields:      nested,
		})
	}
	return out, nil
}

// ToBigQuery converts the schema to the cloud.google.com/go/bigquery client's representation.
func (s Schema) ToBigQuery() bigquery.Schema {
	out := make(bigquery.Schema, len(s))
	for i, f := range s {
		out[i] = &bigquery.FieldSchema{
			Name:        f.Name,
			Description: f.Description,
			Repeated:    f.Repeated(),
			Required:    f.Required(),
			Type:        bigquery.FieldType(f.Type.SchemaName()),
		}
		if f.IsRecord() {
			out[i].Schema = Schema(f.Fields).ToBigQuery()
		}
	}
	return out
}
