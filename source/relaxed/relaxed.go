// Package relaxed is the default JSON driver. It accepts strict JSON plus the
// common relaxations found in hand-written payloads: unquoted property names,
// single-quoted strings and // or /* */ comments. Every token carries its exact
// line and position.
package relaxed

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// Driver returns the relaxed driver.
func Driver() eng.Driver { return driver{} }

type driver struct{}

func (driver) NewBytes(b []byte) eng.TokenSource { return NewBytes(b) }
func (driver) Name() string                      { return "relaxed" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frameState int

const (
	stFirst     frameState = iota // just opened; a closer is allowed
	stNeedItem                    // after a comma
	stValue                       // after a property name and its colon
	stAfterItem                   // after a complete member or element
)

type frame struct {
	kind  containerKind
	state frameState
}

type scanner struct {
	data     []byte
	pos      int
	line     int
	col      int
	stack    []frame
	rootDone bool
}

// NewBytes wraps a byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource { return &scanner{data: b, line: 1} }

func (s *scanner) Location() int64 { return int64(s.pos) }

func (s *scanner) NextToken() (eng.Token, error) {
	if err := s.skipSpace(); err != nil {
		return eng.Token{}, err
	}
	if len(s.stack) == 0 {
		if s.rootDone {
			if s.eof() {
				return eng.Token{}, io.EOF
			}
			r, _ := s.peek()
			return eng.Token{}, s.errAfter(fmt.Sprintf("Additional text encountered after finished reading JSON content: %c.", r))
		}
		if s.eof() {
			return eng.Token{}, io.EOF
		}
		return s.value()
	}

	top := &s.stack[len(s.stack)-1]
	if s.eof() {
		return eng.Token{}, s.errHere("Unexpected end when reading JSON.")
	}
	r, _ := s.peek()

	if top.state == stAfterItem {
		switch {
		case r == ',':
			s.advance()
			top.state = stNeedItem
			if err := s.skipSpace(); err != nil {
				return eng.Token{}, err
			}
			if s.eof() {
				return eng.Token{}, s.errHere("Unexpected end when reading JSON.")
			}
			r, _ = s.peek()
		case r == '}' && top.kind == kindObject, r == ']' && top.kind == kindArray:
			return s.closeContainer(), nil
		default:
			return eng.Token{}, s.errAfter(fmt.Sprintf("After parsing a value an unexpected character was encountered: %c.", r))
		}
	}

	if top.state == stFirst {
		if (r == '}' && top.kind == kindObject) || (r == ']' && top.kind == kindArray) {
			return s.closeContainer(), nil
		}
	}

	if top.kind == kindObject && top.state != stValue {
		return s.key()
	}
	top.state = stAfterItem
	return s.value()
}

func (s *scanner) closeContainer() eng.Token {
	r := s.advance()
	s.stack = s.stack[:len(s.stack)-1]
	s.finishValue()
	kind := eng.KindEndObject
	if r == ']' {
		kind = eng.KindEndArray
	}
	return s.token(eng.Token{Kind: kind})
}

// finishValue marks the enclosing container (or the root) as complete.
func (s *scanner) finishValue() {
	if n := len(s.stack); n > 0 {
		s.stack[n-1].state = stAfterItem
		return
	}
	s.rootDone = true
}

func (s *scanner) key() (eng.Token, error) {
	r, _ := s.peek()
	var name string
	switch {
	case r == '"' || r == '\'':
		str, err := s.quoted()
		if err != nil {
			return eng.Token{}, err
		}
		name = str
	case isIdentStart(r):
		name = s.ident()
	default:
		return eng.Token{}, s.errAfter(fmt.Sprintf("Invalid property identifier character: %c.", r))
	}
	tok := s.token(eng.Token{Kind: eng.KindKey, String: name})
	if err := s.skipSpace(); err != nil {
		return eng.Token{}, err
	}
	if s.eof() {
		return eng.Token{}, s.errHere("Unexpected end when reading JSON.")
	}
	if c, _ := s.peek(); c != ':' {
		return eng.Token{}, s.errAfter(fmt.Sprintf("Invalid character after parsing property name. Expected ':' but got: %c.", c))
	}
	s.advance()
	s.stack[len(s.stack)-1].state = stValue
	return tok, nil
}

func (s *scanner) value() (eng.Token, error) {
	r, _ := s.peek()
	switch {
	case r == '{':
		s.advance()
		s.stack = append(s.stack, frame{kind: kindObject})
		return s.token(eng.Token{Kind: eng.KindBeginObject}), nil
	case r == '[':
		s.advance()
		s.stack = append(s.stack, frame{kind: kindArray})
		return s.token(eng.Token{Kind: eng.KindBeginArray}), nil
	case r == '"' || r == '\'':
		str, err := s.quoted()
		if err != nil {
			return eng.Token{}, err
		}
		s.finishValue()
		return s.token(eng.Token{Kind: eng.KindString, String: str}), nil
	case r == '-' || (r >= '0' && r <= '9'):
		num, err := s.number()
		if err != nil {
			return eng.Token{}, err
		}
		s.finishValue()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: num}), nil
	case isIdentStart(r):
		line, col, pos := s.line, s.col, s.pos
		word := s.ident()
		var tok eng.Token
		switch word {
		case "true":
			tok = eng.Token{Kind: eng.KindBool, Bool: true}
		case "false":
			tok = eng.Token{Kind: eng.KindBool}
		case "null":
			tok = eng.Token{Kind: eng.KindNull}
		default:
			s.line, s.col, s.pos = line, col, pos
			return eng.Token{}, s.errAfter(fmt.Sprintf("Unexpected character encountered while parsing value: %c.", r))
		}
		s.finishValue()
		return s.token(tok), nil
	default:
		return eng.Token{}, s.errAfter(fmt.Sprintf("Unexpected character encountered while parsing value: %c.", r))
	}
}

func (s *scanner) quoted() (string, error) {
	quote := s.advance()
	var b strings.Builder
	for {
		if s.eof() {
			return "", s.errHere(fmt.Sprintf("Unterminated string. Expected delimiter: %c.", quote))
		}
		r := s.advance()
		switch r {
		case quote:
			return b.String(), nil
		case '\\':
			if s.eof() {
				return "", s.errHere(fmt.Sprintf("Unterminated string. Expected delimiter: %c.", quote))
			}
			esc := s.advance()
			switch esc {
			case '"', '\'', '\\', '/':
				b.WriteRune(esc)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				u, err := s.hex4()
				if err != nil {
					return "", err
				}
				if utf16.IsSurrogate(u) && s.hasPrefix(`\u`) {
					save := *s
					s.advance()
					s.advance()
					if lo, err := s.hex4(); err == nil {
						if dec := utf16.DecodeRune(u, lo); dec != utf8.RuneError {
							b.WriteRune(dec)
							continue
						}
					}
					*s = save
				}
				b.WriteRune(u)
			default:
				return "", s.errHere(fmt.Sprintf("Bad JSON escape sequence: \\%c.", esc))
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (s *scanner) hex4() (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		if s.eof() {
			return 0, s.errHere("Unexpected end while parsing Unicode escape sequence.")
		}
		c := s.advance()
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | (c - '0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | (c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | (c - 'A' + 10)
		default:
			return 0, s.errHere(fmt.Sprintf("Invalid Unicode escape sequence character: %c.", c))
		}
	}
	return v, nil
}

func (s *scanner) number() (string, error) {
	start := s.pos
	for !s.eof() {
		r, _ := s.peek()
		if !isNumberRune(r) {
			break
		}
		s.advance()
	}
	text := string(s.data[start:s.pos])
	if !validNumber(text) {
		return "", s.errHere(fmt.Sprintf("Input string '%s' is not a valid number.", text))
	}
	return text, nil
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() {
		r, _ := s.peek()
		if !isIdentPart(r) {
			break
		}
		s.advance()
	}
	return string(s.data[start:s.pos])
}

func (s *scanner) skipSpace() error {
	for !s.eof() {
		r, _ := s.peek()
		switch {
		case unicode.IsSpace(r) || r == '\uFEFF':
			s.advance()
		case r == '/' && s.hasPrefix("//"):
			for !s.eof() {
				if c, _ := s.peek(); c == '\n' {
					break
				}
				s.advance()
			}
		case r == '/' && s.hasPrefix("/*"):
			s.advance()
			s.advance()
			for {
				if s.eof() {
					return s.errHere("Unexpected end while parsing comment.")
				}
				if s.hasPrefix("*/") {
					s.advance()
					s.advance()
					break
				}
				s.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) eof() bool { return s.pos >= len(s.data) }

func (s *scanner) peek() (rune, int) { return utf8.DecodeRune(s.data[s.pos:]) }

func (s *scanner) hasPrefix(p string) bool {
	rest := s.data[s.pos:]
	if len(rest) < len(p) {
		return false
	}
	return string(rest[:len(p)]) == p
}

func (s *scanner) advance() rune {
	r, size := s.peek()
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return r
}

func (s *scanner) token(t eng.Token) eng.Token {
	t.Offset = int64(s.pos)
	t.Line = s.line
	t.Column = s.col
	return t
}

// errHere reports a failure at the current position.
func (s *scanner) errHere(msg string) error {
	return &eng.SyntaxError{Code: eng.CodeParseError, Msg: msg, Line: s.line, Column: s.col, Offset: int64(s.pos)}
}

// errAfter reports a failure located on the next (offending) rune.
func (s *scanner) errAfter(msg string) error {
	return &eng.SyntaxError{Code: eng.CodeParseError, Msg: msg, Line: s.line, Column: s.col + 1, Offset: int64(s.pos)}
}

func isIdentStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-' || r == '+' || r == '.' || r == 'e' || r == 'E'
}

// validNumber checks the JSON number grammar.
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}
