package jsonbind

import (
	"fmt"
	"slices"

	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/source/gojson"
	jsonsrc "github.com/reoring/jsonbind/source/json"
	"github.com/reoring/jsonbind/source/relaxed"
)

// Exported aliases so drivers and callers can work with the document model
// without importing internal packages.
type (
	Token       = eng.Token
	TokenKind   = eng.Kind
	TokenSource = eng.TokenSource
	Node        = eng.Node
	NodeKind    = eng.NodeKind
	SyntaxError = eng.SyntaxError
)

const (
	NodeObject = eng.NodeObject
	NodeArray  = eng.NodeArray
	NodeString = eng.NodeString
	NodeNumber = eng.NodeNumber
	NodeBool   = eng.NodeBool
	NodeNull   = eng.NodeNull
)

// Driver converts JSON input into a TokenSource via a pluggable SPI.
type Driver = eng.Driver

// Built-in drivers.
var (
	RelaxedDriver  Driver = relaxed.Driver()
	StdJSONDriver  Driver = jsonsrc.Driver()
	GoJSONDriver   Driver = gojson.Driver()
	builtinDrivers        = []Driver{RelaxedDriver, StdJSONDriver, GoJSONDriver}
)

// DriverByName resolves a built-in driver by its Name ("relaxed",
// "encoding/json", "go-json"). The short aliases "json" and "gojson" are
// accepted too.
func DriverByName(name string) (Driver, error) {
	switch name {
	case "", "relaxed":
		return RelaxedDriver, nil
	case "json":
		return StdJSONDriver, nil
	case "gojson":
		return GoJSONDriver, nil
	}
	if i := slices.IndexFunc(builtinDrivers, func(d Driver) bool { return d.Name() == name }); i >= 0 {
		return builtinDrivers[i], nil
	}
	return nil, fmt.Errorf("jsonbind: unknown driver %q", name)
}

// Parse materializes a document tree with the given driver and strictness.
// It is the first stage of Bind, exposed for callers that only need the tree.
func Parse(data []byte, d Driver, st Strictness) (*Node, error) {
	if d == nil {
		d = RelaxedDriver
	}
	return eng.Build(d.NewBytes(data), eng.BuildOptions{Enforce: enforceOptions(st, nil)})
}

func enforceOptions(st Strictness, sink func(eng.SimpleIssue)) eng.EnforceOptions {
	depth := st.MaxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	}
	return eng.EnforceOptions{
		OnDuplicate: toEngineDup(st.OnDuplicateKey),
		MaxDepth:    depth,
		IssueSink:   sink,
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
