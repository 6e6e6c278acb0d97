package gobigquery

import (
	"sort"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping from field names to values. It is the native form of a STRUCT
// query parameter and of a decoded row or nested record. Field order is significant: it is the
// order of the STRUCT's field types, or of the schema the row was decoded against.
type Record []Field

// Row is a decoded result row.
type Row = Record

// Get returns the value bound to name and whether the record has such a field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order. Nested records stay Records.
func (r Record) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r)
}

// Map returns the record as a map, converting nested records, including those inside lists,
// into maps as well.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Name] = mapValue(f.Value)
	}
	return m
}

func mapValue(v any) any {
	switch v := v.(type) {
	case Record:
		return v.Map()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = mapValue(e)
		}
		return out
	}
	return v
}

// RecordFromMap builds a Record from a map. Go maps carry no order, so the fields are sorted by
// name; build the Record directly when the field order matters.
func RecordFromMap(m map[string]any) Record {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	r := make(Record, len(names))
	for i, name := range names {
		r[i] = Field{Name: name, Value: m[name]}
	}
	return r
}
