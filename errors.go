package jsonbind

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeInvalidType  = "invalid_type"
	CodeOverflow     = "overflow"
	CodeUnknownKey   = "unknown_key"
	CodeRequired     = "required"
)

// FieldError is one recorded binding failure.
type FieldError struct {
	Path    string // canonical path key (for example: editSettings.sortOrder)
	Code    string // one of the codes listed above
	Message string // safe to show to external callers
	Line    int    // 0 when unknown
	Column  int
	// Safe reports whether Message may leave the process. Every entry of a
	// BindError is safe.
	Safe  bool
	Cause error
}

func (fe FieldError) Error() string { return fe.Message }

func (fe FieldError) Unwrap() error { return fe.Cause }

// BindError aggregates the failures of one bind call: at most one FieldError
// per canonical path, in the order they were first recorded.
type BindError struct {
	entries []FieldError
	index   map[string]int
}

func newBindError() *BindError { return &BindError{index: make(map[string]int)} }

// add records fe unless its path already has an entry. It reports whether fe
// was recorded.
func (e *BindError) add(fe FieldError) bool {
	if _, ok := e.index[fe.Path]; ok {
		return false
	}
	e.index[fe.Path] = len(e.entries)
	e.entries = append(e.entries, fe)
	return true
}

// Len returns the number of entries.
func (e *BindError) Len() int {
	if e == nil {
		return 0
	}
	return len(e.entries)
}

// Get returns the entry recorded for path.
func (e *BindError) Get(path string) (FieldError, bool) {
	if e == nil {
		return FieldError{}, false
	}
	i, ok := e.index[path]
	if !ok {
		return FieldError{}, false
	}
	return e.entries[i], true
}

// Keys returns the canonical paths in recording order.
func (e *BindError) Keys() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, len(e.entries))
	for i, fe := range e.entries {
		keys[i] = fe.Path
	}
	return keys
}

// Errors returns a copy of the entries in recording order.
func (e *BindError) Errors() []FieldError {
	if e == nil {
		return nil
	}
	return append([]FieldError(nil), e.entries...)
}

// Messages returns the path -> message mapping.
func (e *BindError) Messages() map[string]string {
	if e == nil {
		return nil
	}
	m := make(map[string]string, len(e.entries))
	for _, fe := range e.entries {
		m[fe.Path] = fe.Message
	}
	return m
}

// Error summarizes the first few entries.
func (e *BindError) Error() string {
	if e.Len() == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(e.entries)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fe := e.entries[i]
		// e.g. invalid_type at 'editSettings.sortOrder'
		fmt.Fprintf(b, "%s at '%s'", fe.Code, fe.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// MarshalJSON renders the flat {"path": "message"} object, keeping recording
// order.
func (e *BindError) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range e.Errors() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := gojson.Marshal(fe.Path)
		if err != nil {
			return nil, err
		}
		v, err := gojson.Marshal(fe.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AsBindError extracts a BindError from an error using errors.As internally.
func AsBindError(err error) (*BindError, bool) {
	if err == nil {
		return nil, false
	}
	var be *BindError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// OpaqueError carries a failure whose message is not known to be safe for
// external callers. It aborts the bind immediately and is never merged into a
// BindError.
type OpaqueError struct {
	Path string
	Err  error
}

func (e *OpaqueError) Error() string {
	return fmt.Sprintf("jsonbind: unexpected failure at '%s': %v", e.Path, e.Err)
}

func (e *OpaqueError) Unwrap() error { return e.Err }
