package gojson

import (
	"errors"
	"io"
	"strings"
	"testing"

	eng "github.com/reoring/jsonbind/internal/engine"
)

func tokens(t *testing.T, doc string) ([]eng.Token, error) {
	t.Helper()
	src := NewBytes([]byte(doc))
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

func TestNextToken_KindsAndKeys(t *testing.T) {
	toks, err := tokens(t, `{"a":[1,"x",true,null],"b":{"c":2.5}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []eng.Kind{
		eng.KindBeginObject, eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString,
		eng.KindBool, eng.KindNull, eng.KindEndArray, eng.KindKey, eng.KindBeginObject,
		eng.KindKey, eng.KindNumber, eng.KindEndObject, eng.KindEndObject,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
	if toks[4].String != "x" || toks[11].Number != "2.5" || toks[8].String != "b" {
		t.Fatalf("unexpected token payloads: %+v", toks)
	}
	if toks[0].Line != 1 || toks[0].Column < 1 {
		t.Fatalf("unexpected first position: %+v", toks[0])
	}
}

func TestNextToken_Malformed(t *testing.T) {
	for _, doc := range []string{`{"a":`, `[tru]`, `{a:1}`} {
		_, err := tokens(t, doc)
		var se *eng.SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("%q: expected SyntaxError, got: %v", doc, err)
		}
		if se.Code != eng.CodeParseError || se.Line == 0 {
			t.Fatalf("%q: unexpected error: %+v", doc, se)
		}
	}
}

func TestDriverName(t *testing.T) {
	if got := Driver().Name(); got != "go-json" {
		t.Fatalf("unexpected driver name: %s", got)
	}
}

func TestNextToken_LargeArrayPositions(t *testing.T) {
	const n = 100000
	doc := "[" + strings.Repeat("1,\n", n) + "1]"
	toks, err := tokens(t, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != n+3 {
		t.Fatalf("expected %d tokens, got %d", n+3, len(toks))
	}
	last := toks[len(toks)-1]
	if last.Kind != eng.KindEndArray || last.Line != n+1 || last.Column != 2 || last.Offset != int64(len(doc)) {
		t.Fatalf("unexpected last token: %+v", last)
	}
}
