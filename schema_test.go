package gobigquery

import (
	"testing"

	"cloud.google.com/go/bigquery"
	bq "google.golang.org/api/bigquery/v2"
)

func TestSchemaBuilder(t *testing.T) {
	b := NewSchemaBuilder().
		String("name", Required(), Description("full name")).
		Integer("age").
		Record("address", func(b *SchemaBuilder) {
			b.String("city").Float("lat").Float("lng")
		}, Repeated())
	s, err := b.Build()
	assertNilF(t, err)
	assertDeepEqualE(t, s.Headers(), []string{"name", "age", "address"})
	assertEqualE(t, s[0].Mode, ModeRequired)
	assertEqualE(t, s[0].Description, "full name")
	assertEqualE(t, s[1].Mode, ModeNullable)
	assertTrueE(t, s[2].Repeated())
	assertTrueE(t, s[2].IsRecord())
	assertEqualE(t, len(s[2].Fields), 3)

	// later changes to the builder leave built schemas alone
	b.Integer("age", Required()).Boolean("active")
	assertEqualE(t, len(s), 3)
	assertEqualE(t, s[1].Mode, ModeNullable)
	s2, err := b.Build()
	assertNilF(t, err)
	assertDeepEqualE(t, s2.Headers(), []string{"name", "age", "address", "active"})
	assertEqualE(t, s2[1].Mode, ModeRequired)

	s2[2].Fields[0].Name = "town"
	assertEqualE(t, s[2].Fields[0].Name, "city")
}

func TestSchemaBuilderEmpty(t *testing.T) {
	s, err := NewSchemaBuilder().Build()
	assertNilF(t, err)
	assertNotNilF(t, s)
	assertEqualE(t, len(s), 0)
}

func TestSchemaValidate(t *testing.T) {
	testcases := []struct {
		name string
		s    Schema
		path string
	}{
		{"empty name", Schema{{Type: DataTypeString}}, ""},
		{"unknown type", Schema{{Name: "a"}}, "a"},
		{"array type", Schema{{Name: "a", Type: DataTypeArray}}, "a"},
		{"bad mode", Schema{{Name: "a", Type: DataTypeString, Mode: "SOMETIMES"}}, "a"},
		{"empty record", Schema{{Name: "r", Type: DataTypeStruct}}, "r"},
		{"fields on scalar", Schema{{Name: "s", Type: DataTypeString, Fields: []*SchemaField{{Name: "x", Type: DataTypeString}}}}, "s"},
		{"nested", Schema{{Name: "r", Type: DataTypeStruct, Fields: []*SchemaField{{Name: "x"}}}}, "r.x"},
		{"nil field", Schema{nil}, ""},
	}
	for _, test := range testcases {
		t.Run(test.name, func(t *testing.T) {
			err := test.s.Validate()
			var ce *ConversionError
			assertErrorsAsF(t, err, &ce)
			assertEqualE(t, ce.Number, ErrCodeInvalidSchema)
			assertEqualE(t, ce.Path, test.path)
			assertTrueE(t, IsStructureMismatch(err))
		})
	}

	_, err := NewSchemaBuilder().Record("r", nil).Build()
	assertErrIsE(t, err, &ConversionError{Number: ErrCodeInvalidSchema})
}

func TestSchemaField(t *testing.T) {
	s := Schema{{Name: "UserId", Type: DataTypeInt64}}
	assertNotNilF(t, s.Field("userid"))
	assertNilE(t, s.Field("missing"))
}

func TestSchemaFromAPI(t *testing.T) {
	s, err := SchemaFromAPI(&bq.TableSchema{Fields: []*bq.TableFieldSchema{
		{Name: "id", Type: "INTEGER", Mode: "required"},
		{Name: "score", Type: "FLOAT"},
		{Name: "ok", Type: "BOOLEAN"},
		{Name: "price", Type: "BIGDECIMAL"},
		{Name: "rec", Type: "RECORD", Mode: "REPEATED", Fields: []*bq.TableFieldSchema{
			{Name: "x", Type: "STRING"},
		}},
	}})
	assertNilF(t, err)
	assertEqualE(t, s[0].Type, DataTypeInt64)
	assertEqualE(t, s[0].Mode, ModeRequired)
	assertEqualE(t, s[1].Type, DataTypeFloat64)
	assertEqualE(t, s[1].Mode, ModeNullable)
	assertEqualE(t, s[2].Type, DataTypeBool)
	assertEqualE(t, s[3].Type, DataTypeBigNumeric)
	assertEqualE(t, s[4].Type, DataTypeStruct)
	assertTrueE(t, s[4].Repeated())
	assertEqualE(t, s[4].Fields[0].Type, DataTypeString)

	api := s.ToAPI()
	assertEqualE(t, api.Fields[0].Type, "INTEGER")
	assertEqualE(t, api.Fields[0].Mode, "REQUIRED")
	assertEqualE(t, api.Fields[3].Type, "BIGNUMERIC")
	assertEqualE(t, api.Fields[4].Type, "RECORD")
	assertEqualE(t, api.Fields[4].Fields[0].Mode, "NULLABLE")

	back, err := SchemaFromAPI(api)
	assertNilF(t, err)
	assertDeepEqualE(t, back, s)

	_, err = SchemaFromAPI(&bq.TableSchema{Fields: []*bq.TableFieldSchema{
		{Name: "r", Type: "RECORD", Fields: []*bq.TableFieldSchema{{Name: "bad", Type: "INTERVALISH"}}},
	}})
	var ce *ConversionError
	assertErrorsAsF(t, err, &ce)
	assertEqualE(t, ce.Path, "r.bad")

	empty, err := SchemaFromAPI(nil)
	assertNilF(t, err)
	assertEqualE(t, len(empty), 0)
}

func TestSchemaFromJSON(t *testing.T) {
	list := `[
		{"name": "id", "type": "INT64", "mode": "REQUIRED"},
		{"name": "tags", "type": "STRING", "mode": "REPEATED"}
	]`
	object := `{"fields": [
		{"name": "id", "type": "INT64", "mode": "REQUIRED"},
		{"name": "tags", "type": "STRING", "mode": "REPEATED"}
	]}`
	a, err := SchemaFromJSON([]byte(list))
	assertNilF(t, err)
	b, err := SchemaFromJSON([]byte(object))
	assertNilF(t, err)
	assertDeepEqualE(t, a, b)
	assertDeepEqualE(t, a.Headers(), []string{"id", "tags"})

	_, err = SchemaFromJSON([]byte(`[{"name": 1}]`))
	assertErrIsE(t, err, &ConversionError{Number: ErrCodeInvalidSchema})
}

func TestSchemaBigQueryRoundTrip(t *testing.T) {
	s, err := NewSchemaBuilder().
		String("name", Required()).
		Numeric("amount").
		Record("items", func(b *SchemaBuilder) {
			b.Integer("qty").Timestamp("at")
		}, Repeated()).
		Build()
	assertNilF(t, err)
	bs := s.ToBigQuery()
	assertEqualE(t, bs[0].Required, true)
	assertEqualE(t, bs[1].Type, bigquery.NumericFieldType)
	assertEqualE(t, bs[2].Type, bigquery.RecordFieldType)
	assertEqualE(t, bs[2].Repeated, true)
	assertEqualE(t, bs[2].Schema[0].Type, bigquery.IntegerFieldType)

	back, err := SchemaFromBigQuery(bs)
	assertNilF(t, err)
	assertDeepEqualE(t, back, s)
}
