package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// NodeKind classifies a document node.
type NodeKind int

const (
	NodeObject NodeKind = iota
	NodeArray
	NodeString
	NodeNumber
	NodeBool
	NodeNull
)

func (k NodeKind) String() string {
	switch k {
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "boolean"
	default:
		return "null"
	}
}

// Node is one value of a parsed document.
type Node struct {
	Kind NodeKind
	// Name is the property name when the parent is an object.
	Name string
	// Index is the element index when the parent is an array, -1 otherwise.
	Index int
	// Path locates the node in the document ("" for the root).
	Path string
	// Text holds the literal for strings and numbers.
	Text string
	Bool bool
	// Line and Column point right after the token that opened the node.
	Line   int
	Column int

	Fields []*Node // object members in document order
	Items  []*Node // array elements
}

// Children returns the direct child nodes of an object or array.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeObject:
		return n.Fields
	case NodeArray:
		return n.Items
	}
	return nil
}

// Field returns the member with exactly the given name.
func (n *Node) Field(name string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Interface converts the subtree into plain Go values: map[string]any, []any,
// string, json.Number, bool or nil.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeObject:
		m := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			m[f.Name] = f.Interface()
		}
		return m
	case NodeArray:
		arr := make([]any, len(n.Items))
		for i, it := range n.Items {
			arr[i] = it.Interface()
		}
		return arr
	case NodeString:
		return n.Text
	case NodeNumber:
		return json.Number(n.Text)
	case NodeBool:
		return n.Bool
	default:
		return nil
	}
}

// Raw re-encodes the subtree as compact JSON.
func (n *Node) Raw() ([]byte, error) {
	return gojson.Marshal(n.Interface())
}

// BuildOptions configures Build.
type BuildOptions struct {
	Enforce EnforceOptions
}

// Build materializes exactly one JSON value from src. Trailing content after
// the value is a syntax error.
func Build(src TokenSource, opt BuildOptions) (*Node, error) {
	src = WrapWithEnforcement(src, opt.Enforce)
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SyntaxError{Code: CodeParseError, Msg: "Unexpected end when reading JSON."}
		}
		return nil, atPath(err, "")
	}
	root, err := buildValue(src, tok, "", "", -1)
	if err != nil {
		return nil, err
	}
	extra, err := src.NextToken()
	switch {
	case errors.Is(err, io.EOF):
		return root, nil
	case err != nil:
		return nil, atPath(err, "")
	default:
		return nil, &SyntaxError{
			Code:   CodeParseError,
			Msg:    fmt.Sprintf("Additional text encountered after finished reading JSON content: %s.", describe(extra)),
			Line:   extra.Line,
			Column: extra.Column,
			Offset: extra.Offset,
		}
	}
}

func buildValue(src TokenSource, tok Token, path, name string, index int) (*Node, error) {
	n := &Node{Name: name, Index: index, Path: path, Line: tok.Line, Column: tok.Column}
	switch tok.Kind {
	case KindBeginObject:
		n.Kind = NodeObject
		return n, buildObject(src, n)
	case KindBeginArray:
		n.Kind = NodeArray
		return n, buildArray(src, n)
	case KindString:
		n.Kind, n.Text = NodeString, tok.String
	case KindNumber:
		n.Kind, n.Text = NodeNumber, tok.Number
	case KindBool:
		n.Kind, n.Bool = NodeBool, tok.Bool
	case KindNull:
		n.Kind = NodeNull
	default:
		return nil, unexpected(tok, path)
	}
	return n, nil
}

func buildObject(src TokenSource, obj *Node) error {
	seen := make(map[string]int)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return atPath(eofToSyntax(err), obj.Path)
		}
		if tok.Kind == KindEndObject {
			return nil
		}
		if tok.Kind != KindKey {
			return unexpected(tok, obj.Path)
		}
		childPath := FieldPath(obj.Path, tok.String)
		vt, err := src.NextToken()
		if err != nil {
			return atPath(eofToSyntax(err), childPath)
		}
		child, err := buildValue(src, vt, childPath, tok.String, -1)
		if err != nil {
			return err
		}
		// last duplicate wins, keeping the first occurrence's position
		if i, ok := seen[tok.String]; ok {
			obj.Fields[i] = child
			continue
		}
		seen[tok.String] = len(obj.Fields)
		obj.Fields = append(obj.Fields, child)
	}
}

func buildArray(src TokenSource, arr *Node) error {
	for {
		tok, err := src.NextToken()
		if err != nil {
			return atPath(eofToSyntax(err), arr.Path)
		}
		if tok.Kind == KindEndArray {
			return nil
		}
		i := len(arr.Items)
		child, err := buildValue(src, tok, IndexPath(arr.Path, i), "", i)
		if err != nil {
			return err
		}
		arr.Items = append(arr.Items, child)
	}
}

// atPath fills in the path of driver syntax errors that do not know it.
func atPath(err error, path string) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Path == "" {
		se.Path = path
	}
	return err
}

func eofToSyntax(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Code: CodeParseError, Msg: "Unexpected end when reading JSON."}
	}
	return err
}

func unexpected(tok Token, path string) error {
	return &SyntaxError{
		Code:   CodeParseError,
		Msg:    fmt.Sprintf("Unexpected token while reading JSON: %s.", tok.Kind),
		Path:   path,
		Line:   tok.Line,
		Column: tok.Column,
		Offset: tok.Offset,
	}
}

func describe(tok Token) string {
	switch tok.Kind {
	case KindBeginObject:
		return "{"
	case KindBeginArray:
		return "["
	case KindEndObject:
		return "}"
	case KindEndArray:
		return "]"
	case KindString, KindKey:
		return tok.String
	case KindNumber:
		return tok.Number
	case KindBool:
		if tok.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}
