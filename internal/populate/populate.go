// Package populate assigns document tree values onto Go values by name and
// type. It never stops on its own at a field failure: every failure is handed
// to a Handler, which decides whether population continues.
package populate

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// Failure describes one field-level population failure.
type Failure struct {
	// Path is the structural path of the node being converted.
	Path string
	// Member is the member under population: the document key for object
	// members, the decimal index for array elements, "" at the root.
	Member string
	Line   int
	Column int
	Err    error
}

// Action tells the populator how to proceed after a failure.
type Action int

const (
	Continue Action = iota
	Abort
)

// Handler receives every failure.
type Handler interface {
	OnFieldError(f Failure) Action
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Failure) Action

func (fn HandlerFunc) OnFieldError(f Failure) Action { return fn(f) }

// UnknownPolicy controls document members that match no target field.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota
	UnknownStrict
)

// Options tunes population.
type Options struct {
	Unknown UnknownPolicy
	// StrictScalars disables string<->number/bool coercion.
	StrictScalars bool
}

// ErrAborted is returned when a Handler answered Abort.
var ErrAborted = errors.New("populate: aborted by handler")

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Populate stores root into the value target points to.
func Populate(root *eng.Node, target any, h Handler, opt Options) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("populate: target must be a non-nil pointer")
	}
	p := &populator{h: h, opt: opt}
	return p.value(root, rv.Elem(), "")
}

type populator struct {
	h   Handler
	opt Options
}

func (p *populator) fail(n *eng.Node, member string, err error) error {
	f := Failure{Path: n.Path, Member: member, Line: n.Line, Column: n.Column, Err: err}
	if p.h.OnFieldError(f) == Abort {
		return ErrAborted
	}
	return nil
}

func (p *populator) value(n *eng.Node, v reflect.Value, member string) error {
	if n.Kind == eng.NodeNull {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			v.Set(reflect.Zero(v.Type()))
		}
		return nil
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return p.value(n, v.Elem(), member)
	}
	if v.CanAddr() {
		pv := v.Addr()
		if n.Kind == eng.NodeString && pv.Type().Implements(textUnmarshalerType) {
			if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Text)); err != nil {
				return p.fail(n, member, &ConversionError{Code: CodeInvalidType, Value: render(n), Type: v.Type(), Err: err})
			}
			return nil
		}
		if pv.Type().Implements(jsonUnmarshalerType) {
			raw, err := n.Raw()
			if err == nil {
				err = pv.Interface().(json.Unmarshaler).UnmarshalJSON(raw)
			}
			if err != nil {
				// textual types reject non-string input as a conversion failure
				if pv.Type().Implements(textUnmarshalerType) {
					err = &ConversionError{Code: CodeInvalidType, Value: render(n), Type: v.Type(), Err: err}
				}
				return p.fail(n, member, err)
			}
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return p.fail(n, member, mismatch(n, v.Type()))
		}
		v.Set(reflect.ValueOf(n.Interface()))
		return nil
	case reflect.Struct:
		return p.object(n, v, member)
	case reflect.Map:
		return p.mapValue(n, v, member)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 && n.Kind == eng.NodeString {
			b, err := base64.StdEncoding.DecodeString(n.Text)
			if err != nil {
				return p.fail(n, member, &ConversionError{Code: CodeInvalidType, Value: render(n), Type: v.Type(), Err: err})
			}
			v.SetBytes(b)
			return nil
		}
		return p.slice(n, v, member)
	case reflect.Array:
		return p.array(n, v, member)
	default:
		if err := setScalar(n, v, p.opt.StrictScalars); err != nil {
			return p.fail(n, member, err)
		}
		return nil
	}
}

func (p *populator) object(n *eng.Node, v reflect.Value, member string) error {
	if n.Kind != eng.NodeObject {
		return p.fail(n, member, mismatch(n, v.Type()))
	}
	fields := StructFields(v.Type())
	list := fields.List()
	seen := make([]bool, len(list))
	for _, child := range n.Fields {
		i := fields.Lookup(child.Name)
		if i < 0 {
			if p.opt.Unknown == UnknownStrict {
				if err := p.fail(child, child.Name, &UnknownMemberError{Name: child.Name, Type: v.Type()}); err != nil {
					return err
				}
			}
			continue
		}
		seen[i] = true
		if err := p.value(child, v.FieldByIndex(list[i].Index), child.Name); err != nil {
			return err
		}
	}
	for i, f := range list {
		if f.Required && !seen[i] {
			if err := p.fail(n, f.Name, &RequiredError{Name: f.Name, Type: v.Type()}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *populator) mapValue(n *eng.Node, v reflect.Value, member string) error {
	t := v.Type()
	if n.Kind != eng.NodeObject {
		return p.fail(n, member, mismatch(n, t))
	}
	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(t, len(n.Fields)))
	}
	for _, child := range n.Fields {
		kv, err := mapKey(child, t.Key())
		if err != nil {
			if err := p.fail(child, child.Name, err); err != nil {
				return err
			}
			continue
		}
		ev := reflect.New(t.Elem()).Elem()
		if err := p.value(child, ev, child.Name); err != nil {
			return err
		}
		v.SetMapIndex(kv, ev)
	}
	return nil
}

func mapKey(child *eng.Node, kt reflect.Type) (reflect.Value, error) {
	key := &eng.Node{Kind: eng.NodeString, Text: child.Name}
	switch kt.Kind() {
	case reflect.String:
		return reflect.ValueOf(child.Name).Convert(kt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(child.Name, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, &ConversionError{Code: CodeInvalidType, Value: render(key), Type: kt, Err: err}
		}
		return reflect.ValueOf(i).Convert(kt), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(child.Name, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, &ConversionError{Code: CodeInvalidType, Value: render(key), Type: kt, Err: err}
		}
		return reflect.ValueOf(u).Convert(kt), nil
	}
	return reflect.Value{}, &ConversionError{Code: CodeInvalidType, Value: render(key), Type: kt}
}

func (p *populator) slice(n *eng.Node, v reflect.Value, member string) error {
	if n.Kind != eng.NodeArray {
		return p.fail(n, member, mismatch(n, v.Type()))
	}
	s := reflect.MakeSlice(v.Type(), len(n.Items), len(n.Items))
	for i, item := range n.Items {
		if err := p.value(item, s.Index(i), strconv.Itoa(i)); err != nil {
			return err
		}
	}
	v.Set(s)
	return nil
}

func (p *populator) array(n *eng.Node, v reflect.Value, member string) error {
	if n.Kind != eng.NodeArray {
		return p.fail(n, member, mismatch(n, v.Type()))
	}
	for i := 0; i < v.Len(); i++ {
		if i >= len(n.Items) {
			v.Index(i).Set(reflect.Zero(v.Type().Elem()))
			continue
		}
		if err := p.value(n.Items[i], v.Index(i), strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}
