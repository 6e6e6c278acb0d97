package gobigquery

import (
	"testing"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{
		{Name: "b", Value: 1},
		{Name: "a", Value: Record{{Name: "x", Value: []any{Record{{Name: "y", Value: true}}}}}},
	}
	v, ok := r.Get("b")
	assertTrueE(t, ok)
	assertEqualE(t, v, 1)
	_, ok = r.Get("missing")
	assertFalseE(t, ok)
	assertDeepEqualE(t, r.Names(), []string{"b", "a"})
	assertEqualE(t, r.Len(), 2)
	assertDeepEqualE(t, r.Map(), map[string]any{
		"b": 1,
		"a": map[string]any{"x": []any{map[string]any{"y": true}}},
	})
}

func TestRecordFromMap(t *testing.T) {
	r := RecordFromMap(map[string]any{"zeta": 1, "alpha": 2, "mid": nil})
	assertDeepEqualE(t, r, Record{
		{Name: "alpha", Value: 2},
		{Name: "mid", Value: nil},
		{Name: "zeta", Value: 1},
	})
	assertEqualE(t, RecordFromMap(nil).Len(), 0)
}
