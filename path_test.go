package jsonbind_test

import (
	"testing"

	"github.com/reoring/jsonbind"
)

func TestReconcilePath(t *testing.T) {
	cases := []struct {
		name, path, member, want string
	}{
		{"empty member keeps path", "a.b", "", "a.b"},
		{"both empty", "", "", ""},
		{"empty path yields member", "", "sortOrder", "sortOrder"},
		{"empty path yields indexer member", "", "[0]", "[0]"},
		{"equal", "sortOrder", "sortOrder", "sortOrder"},
		{"dotted suffix", "editSettings.sortOrder", "sortOrder", "editSettings.sortOrder"},
		{"quoted indexer suffix", "editSettings['sort order']", "sort order", "editSettings['sort order']"},
		{"bare indexer suffix", "items[2]", "2", "items[2]"},
		{"indexer member already present", "items[2]", "[2]", "items[2]"},
		{"append member", "editSettings", "sortOrder", "editSettings.sortOrder"},
		{"append indexer member without dot", "items", "[3]", "items[3]"},
		{"partial name is not a segment", "editSettings.xsortOrder", "sortOrder", "editSettings.xsortOrder.sortOrder"},
		{"prefix match is not a suffix", "sortOrder.a", "sortOrder", "sortOrder.a.sortOrder"},
		{"member longer than path", "a", "abc", "a.abc"},
		{"different index appended", "items[2]", "[3]", "items[2][3]"},
		{"root indexer path", "[0]", "0", "[0]"},
		{"nested index suffix", "a[1].b[10]", "10", "a[1].b[10]"},
		{"index suffix needs bracket", "a[110]", "10", "a[110].10"},
		{"escaped quote suffix", `['it\'s']`, "it's", `['it\'s']`},
		{"escaped backslash suffix", `a['back\\slash']`, `back\slash`, `a['back\\slash']`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := jsonbind.ReconcilePath(tc.path, tc.member); got != tc.want {
				t.Fatalf("ReconcilePath(%q, %q) = %q, want %q", tc.path, tc.member, got, tc.want)
			}
		})
	}
}

func TestReconcilePath_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := jsonbind.ReconcilePath("a.b", "c"); got != "a.b.c" {
			t.Fatalf("expected a.b.c, got: %s", got)
		}
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct{ prefix, name, want string }{
		{"", "a", "a"},
		{"a", "", "a"},
		{"a", "b", "a.b"},
		{"a", "[1]", "a[1]"},
		{"a.b", "['x y']", "a.b['x y']"},
	}
	for _, tc := range cases {
		if got := jsonbind.JoinPath(tc.prefix, tc.name); got != tc.want {
			t.Fatalf("JoinPath(%q, %q) = %q, want %q", tc.prefix, tc.name, got, tc.want)
		}
	}
}

func TestPathRef(t *testing.T) {
	p := jsonbind.Root().Field("editSettings").Field("sort order").Index(2).Field("x")
	if got, want := p.String(), "editSettings['sort order'][2].x"; got != want {
		t.Fatalf("expected %s, got: %s", want, got)
	}
	if got := jsonbind.Root().String(); got != "" {
		t.Fatalf("expected empty root path, got: %q", got)
	}
	if got, want := jsonbind.Root().Index(0).Field("it's").String(), `[0]['it\'s']`; got != want {
		t.Fatalf("expected %s, got: %s", want, got)
	}
}
