package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromGoConversion(t *testing.T) {
	got := FromGo(map[string]any{
		"title": "home",
		"count": 3,
		"tags":  []any{"a", "b"},
		"flag":  true,
		"none":  nil,
	})
	want := DictValue{
		"title": StringValue("home"),
		"count": IntValue(3),
		"tags":  ListValue{StringValue("a"), StringValue("b")},
		"flag":  BoolValue(true),
		"none":  NoneValue{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("conversion mismatch (-want +got):\n%s", diff)
	}
}

func TestContextLookup(t *testing.T) {
	ctx := NewContextFromAny(map[string]any{
		"name": "Guest",
		"page": map[string]any{
			"meta": map[string]any{"title": "Home"},
		},
	})
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"name", "Guest", true},
		{"page.meta.title", "Home", true},
		{"page.meta.missing", "", false},
		{"name.sub", "", false},
		{"absent", "", false},
	}
	for _, tc := range cases {
		v, ok := ctx.Lookup(tc.name)
		if ok != tc.ok {
			t.Fatalf("%q: ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && v.String() != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.name, v.String(), tc.want)
		}
	}
}
