package query

import (
	bq "google.golang.org/api/bigquery/v2"
)

// CellValue unwraps a cell. ok is false when c does not have the cell shape.
func CellValue(c any) (v any, ok bool) {
	switch c := c.(type) {
	case map[string]any:
		v, ok = c[ValueKey]
		return v, ok
	case *bq.TableCell:
		if c == nil {
			return nil, false
		}
		return c.V, true
	case bq.TableCell:
		return c.V, true
	}
	return nil, false
}

// RecordCells returns the cells of a nested record value. ok is false when v is not a record.
func RecordCells(v any) (cells []any, ok bool) {
	switch v := v.(type) {
	case map[string]any:
		f, found := v[FieldsKey]
		if !found {
			return nil, false
		}
		cells, ok = f.([]any)
		return cells, ok
	case *bq.TableRow:
		if v == nil {
			return nil, false
		}
		return Cells(v), true
	}
	return nil, false
}

// ListCells returns the cells of a repeated value. ok is false when v is not a list.
func ListCells(v any) (cells []any, ok bool) {
	cells, ok = v.([]any)
	return cells, ok
}
