// Package query holds helpers for the row data shape returned by tabledata.list and
// jobs.getQueryResults: a row is {"f": [cells]}, a cell is {"v": value}, and a value is a
// string, null, a nested row or a list of cells.
package query

import (
	bq "google.golang.org/api/bigquery/v2"
)

const (
	// ValueKey is the key of a cell's value.
	ValueKey = "v"
	// FieldsKey is the key of a row's or nested record's cell list.
	FieldsKey = "f"
)

// NewCell builds a cell holding v.
func NewCell(v any) map[string]any {
	return map[string]any{ValueKey: v}
}

// NewRecord builds a row or nested record from its cells.
func NewRecord(cells ...any) map[string]any {
	if cells == nil {
		cells = []any{}
	}
	return map[string]any{FieldsKey: cells}
}

// Cells converts a REST row into its cell list.
func Cells(row *bq.TableRow) []any {
	if row == nil {
		return nil
	}
	cells := make([]any, len(row.F))
	for i, c := range row.F {
		cells[i] = c
	}
	return cells
}
