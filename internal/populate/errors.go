package populate

import (
	"fmt"
	"reflect"
	"strconv"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// Codes carried by populator failures.
const (
	CodeInvalidType = "invalid_type"
	CodeOverflow    = "overflow"
	CodeUnknownKey  = "unknown_key"
	CodeRequired    = "required"
)

// ConversionError reports a value that cannot be stored in its target.
type ConversionError struct {
	Code  string // CodeInvalidType or CodeOverflow
	Value string // rendered input value
	Type  reflect.Type
	Err   error // optional underlying cause
}

func (e *ConversionError) Error() string {
	if e.Code == CodeOverflow {
		return fmt.Sprintf("Value %s is too large or too small for type '%s'.", e.Value, e.Type)
	}
	return fmt.Sprintf("Error converting value %s to type '%s'.", e.Value, e.Type)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Params exposes message parameters for translation.
func (e *ConversionError) Params() map[string]string {
	return map[string]string{"value": e.Value, "type": e.Type.String()}
}

// UnknownMemberError reports a document member with no target field under
// the strict unknown-member policy.
type UnknownMemberError struct {
	Name string
	Type reflect.Type
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("Could not find member '%s' on object of type '%s'.", e.Name, e.Type)
}

func (e *UnknownMemberError) Params() map[string]string {
	return map[string]string{"key": e.Name, "type": e.Type.String()}
}

// RequiredError reports a required field absent from its object.
type RequiredError struct {
	Name string
	Type reflect.Type
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("Required property '%s' not found in JSON.", e.Name)
}

func (e *RequiredError) Params() map[string]string {
	return map[string]string{"key": e.Name, "type": e.Type.String()}
}

func mismatch(n *eng.Node, t reflect.Type) *ConversionError {
	return &ConversionError{Code: CodeInvalidType, Value: render(n), Type: t}
}

func overflow(n *eng.Node, t reflect.Type) *ConversionError {
	return &ConversionError{Code: CodeOverflow, Value: render(n), Type: t}
}

// render prints a node the way it reads in messages.
func render(n *eng.Node) string {
	switch n.Kind {
	case eng.NodeObject:
		return "{...}"
	case eng.NodeArray:
		return "[...]"
	case eng.NodeString:
		return strconv.Quote(n.Text)
	case eng.NodeNumber:
		return n.Text
	case eng.NodeBool:
		return strconv.FormatBool(n.Bool)
	default:
		return "{null}"
	}
}
