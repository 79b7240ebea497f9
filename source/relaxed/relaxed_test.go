package relaxed

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/jsonbind/internal/engine"
)

func collect(t *testing.T, doc string) ([]eng.Token, error) {
	t.Helper()
	src := NewBytes([]byte(doc))
	var toks []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

func TestRelaxed_UnquotedKeysAndPositions(t *testing.T) {
	toks, err := collect(t, "{editSettings:{sortOrder:true}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	type pos struct {
		Kind   eng.Kind
		Text   string
		Column int
	}
	var got []pos
	for _, tk := range toks {
		got = append(got, pos{tk.Kind, tk.String, tk.Column})
	}
	want := []pos{
		{eng.KindBeginObject, "", 1},
		{eng.KindKey, "editSettings", 13},
		{eng.KindBeginObject, "", 15},
		{eng.KindKey, "sortOrder", 24},
		{eng.KindBool, "", 29},
		{eng.KindEndObject, "", 30},
		{eng.KindEndObject, "", 31},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRelaxed_Relaxations(t *testing.T) {
	doc := "\uFEFF// leading comment\n{'single': 'it\\'s', /* block */ $id: -1.5e3, \"u\": \"\\u00e9\\ud83d\\ude00\",\n list: [null, false]}"
	toks, err := collect(t, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var strs []string
	for _, tk := range toks {
		switch tk.Kind {
		case eng.KindKey, eng.KindString:
			strs = append(strs, tk.String)
		case eng.KindNumber:
			strs = append(strs, tk.Number)
		}
	}
	if diff := cmp.Diff([]string{"single", "it's", "$id", "-1.5e3", "u", "é😀", "list"}, strs); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	last := toks[len(toks)-1]
	if last.Kind != eng.KindEndObject || last.Line != 3 {
		t.Fatalf("unexpected last token: %+v", last)
	}
}

func TestRelaxed_Errors(t *testing.T) {
	cases := []struct {
		doc          string
		msg          string
		line, column int
	}{
		{"This is", "Unexpected character encountered while parsing value: T.", 1, 1},
		{`{"a" 1}`, "Invalid character after parsing property name. Expected ':' but got: 1.", 1, 6},
		{`{"a":1 "b":2}`, "After parsing a value an unexpected character was encountered: \".", 1, 8},
		{`{"a":1,}`, "Invalid property identifier character: }.", 1, 8},
		{`[1,]`, "Unexpected character encountered while parsing value: ].", 1, 4},
		{`"abc`, "Unterminated string. Expected delimiter: \".", 1, 4},
		{`"\x"`, "Bad JSON escape sequence: \\x.", 1, 3},
		{`01`, "Input string '01' is not a valid number.", 1, 2},
		{"{\n  \"a\": tru\n}", "Unexpected character encountered while parsing value: t.", 2, 8},
		{`[1] 2`, "Additional text encountered after finished reading JSON content: 2.", 1, 5},
		{`/* open`, "Unexpected end while parsing comment.", 1, 7},
	}
	for _, tc := range cases {
		_, err := collect(t, tc.doc)
		var se *eng.SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("%q: expected SyntaxError, got: %v", tc.doc, err)
		}
		if se.Msg != tc.msg || se.Line != tc.line || se.Column != tc.column {
			t.Fatalf("%q: got (%q, %d, %d), want (%q, %d, %d)", tc.doc, se.Msg, se.Line, se.Column, tc.msg, tc.line, tc.column)
		}
	}
}

func TestRelaxed_LargeBlockComment(t *testing.T) {
	doc := `{"a":1 /*` + strings.Repeat("x*", 200000) + `*/}`
	toks, err := collect(t, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(toks))
	}
	last := toks[3]
	if last.Kind != eng.KindEndObject || last.Line != 1 || last.Column != len(doc) {
		t.Fatalf("unexpected last token: %+v", last)
	}
}

func TestValidNumber(t *testing.T) {
	for s, want := range map[string]bool{
		"0": true, "-0": true, "12": true, "1.5": true, "1e9": true, "1E+2": true, "-3.25e-4": true,
		"": false, "-": false, "01": false, "1.": false, ".5": false, "1e": false, "1e+": false, "+1": false, "1-2": false,
	} {
		if got := validNumber(s); got != want {
			t.Fatalf("validNumber(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestDriverName(t *testing.T) {
	if Driver().Name() != "relaxed" {
		t.Fatalf("unexpected driver name: %s", Driver().Name())
	}
}
