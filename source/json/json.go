// Package json is a strict JSON driver backed by encoding/json's token decoder.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// Driver returns the encoding/json driver.
func Driver() eng.Driver { return driver{} }

type driver struct{}

func (driver) NewBytes(b []byte) eng.TokenSource { return NewBytes(b) }
func (driver) Name() string                      { return "encoding/json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	data       []byte
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
	cur        eng.Cursor
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &jsonSource{data: b, dec: dec, lastOffset: -1, cur: eng.NewCursor(b)}
}

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			if len(s.stack) > 0 {
				return eng.Token{}, s.syntax("Unexpected end when reading JSON.", int64(len(s.data)))
			}
			return eng.Token{}, io.EOF
		}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			return eng.Token{}, s.syntax(sentence(se.Error()), se.Offset)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return eng.Token{}, s.syntax("Unexpected end when reading JSON.", int64(len(s.data)))
		}
		// the decoder reports nothing but malformed input here
		return eng.Token{}, s.syntax(sentence(err.Error()), s.dec.InputOffset())
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return s.token(eng.Token{Kind: eng.KindBeginObject}), nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return s.token(eng.Token{Kind: eng.KindBeginArray}), nil
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			if v == '}' {
				return s.token(eng.Token{Kind: eng.KindEndObject}), nil
			}
			return s.token(eng.Token{Kind: eng.KindEndArray}), nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return s.token(eng.Token{Kind: eng.KindKey, String: v}), nil
			}
		}
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindString, String: v}), nil
	case bool:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindBool, Bool: v}), nil
	case json.Number:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: string(v)}), nil
	}
	s.valueDone()
	return s.token(eng.Token{Kind: eng.KindNull}), nil
}

func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) token(t eng.Token) eng.Token {
	t.Offset = s.lastOffset
	t.Line, t.Column = s.cur.At(s.lastOffset)
	return t
}

func (s *jsonSource) syntax(msg string, offset int64) error {
	line, col := eng.LineCol(s.data, offset)
	return &eng.SyntaxError{Code: eng.CodeParseError, Msg: msg, Line: line, Column: col, Offset: offset}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

// sentence turns "invalid character 'x' ..." into "Invalid character 'x' ....".
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
