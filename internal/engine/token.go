package engine

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token represents a single lexical token. Line and Column describe the
// position right after the token was consumed (1-based line, column counted in
// runes); zero means unknown.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
	Line   int
	Column int
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Driver turns raw input into a TokenSource.
type Driver interface {
	NewBytes(b []byte) TokenSource
	Name() string
}

// Codes shared with the public error model.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// SyntaxError reports input that cannot be materialized into a document tree.
// Drivers leave Path empty; the tree builder fills it in.
type SyntaxError struct {
	Code   string
	Msg    string
	Path   string
	Line   int
	Column int
	Offset int64
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s Path '%s', line %d, position %d.", e.Msg, e.Path, e.Line, e.Column)
	}
	return fmt.Sprintf("%s Path '%s'.", e.Msg, e.Path)
}

// SimpleIssue is a non-fatal notice raised while reading (e.g. a duplicate key
// under the warn policy).
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Line    int
	Column  int
}

// LineCol converts a byte offset in data into the line/position convention
// used by Token. Offsets past the end are clamped.
func LineCol(data []byte, offset int64) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line = 1
	start := 0
	for i := 0; i < int(offset); i++ {
		if data[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, utf8.RuneCount(data[start:offset])
}

// Cursor computes LineCol for a sequence of non-decreasing offsets, scanning
// each byte of data once. A smaller offset restarts from the beginning.
type Cursor struct {
	data []byte
	off  int64
	line int
	col  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) Cursor { return Cursor{data: data, line: 1} }

// At returns the same result as LineCol(data, offset).
func (c *Cursor) At(offset int64) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(c.data)) {
		offset = int64(len(c.data))
	}
	if c.line == 0 || offset < c.off {
		c.off, c.line, c.col = 0, 1, 0
	}
	// stop at a rune start so a split rune is counted like LineCol counts it
	end := offset
	for i := 0; i < utf8.UTFMax-1 && end > c.off && end < int64(len(c.data)) && !utf8.RuneStart(c.data[end]); i++ {
		end--
	}
	seg := c.data[c.off:end]
	if i := bytes.LastIndexByte(seg, '\n'); i >= 0 {
		c.line += bytes.Count(seg, []byte{'\n'})
		c.col = utf8.RuneCount(seg[i+1:])
	} else {
		c.col += utf8.RuneCount(seg)
	}
	c.off = end
	return c.line, c.col + utf8.RuneCount(c.data[end:offset])
}
