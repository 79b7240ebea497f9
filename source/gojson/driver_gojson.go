// Package gojson is a strict JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// Driver returns a driver backed by goccy/go-json.
func Driver() eng.Driver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewBytes(b []byte) eng.TokenSource { return NewBytes(b) }
func (driverGoJSON) Name() string                      { return "go-json" }

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	data       []byte
	dec        *j.Decoder
	stack      []frame
	lastOffset int64
	cur        eng.Cursor
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &source{data: b, dec: dec, lastOffset: -1, cur: eng.NewCursor(b)}
}

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			if len(s.stack) > 0 {
				return eng.Token{}, s.syntax("Unexpected end when reading JSON.", int64(len(s.data)))
			}
			return eng.Token{}, io.EOF
		}
		var se *j.SyntaxError
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
	case j.Delim:
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
	case j.Number:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: string(v)}), nil
	case float64:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}), nil
	}
	s.valueDone()
	return s.token(eng.Token{Kind: eng.KindNull}), nil
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) token(t eng.Token) eng.Token {
	t.Offset = s.lastOffset
	t.Line, t.Column = s.cur.At(s.lastOffset)
	return t
}

func (s *source) syntax(msg string, offset int64) error {
	line, col := eng.LineCol(s.data, offset)
	return &eng.SyntaxError{Code: eng.CodeParseError, Msg: msg, Line: line, Column: col, Offset: offset}
}

func (s *source) Location() int64 { return s.lastOffset }

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
