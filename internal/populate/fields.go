package populate

import (
	"reflect"
	"strings"
)

// Field describes one bindable struct field.
type Field struct {
	Name     string // external key
	Index    []int  // reflect index path (embedded structs are flattened)
	Type     reflect.Type
	Watch    bool
	Required bool
}

// Fields is the bindable view of a struct type.
type Fields struct {
	list  []Field
	exact map[string]int
}

// List returns the fields in declaration order, promoted fields last.
func (fs Fields) List() []Field { return fs.list }

// Lookup finds the field bound to a document key: exact match first, then a
// case-insensitive match. It returns -1 when nothing matches.
func (fs Fields) Lookup(key string) int {
	if i, ok := fs.exact[key]; ok {
		return i
	}
	for i, f := range fs.list {
		if strings.EqualFold(f.Name, key) {
			return i
		}
	}
	return -1
}

const _maxEmbedDepth = 32

// StructFields resolves the bindable fields of struct type t.
func StructFields(t reflect.Type) Fields {
	fs := Fields{exact: make(map[string]int)}
	collectFields(t, nil, 0, &fs)
	return fs
}

func collectFields(t reflect.Type, index []int, depth int, fs *Fields) {
	if depth > _maxEmbedDepth {
		return
	}
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, opts := resolveStructKey(sf)
		if name == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !opts.named {
			embedded = append(embedded, sf)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if _, dup := fs.exact[name]; dup {
			continue
		}
		idx := append(append([]int(nil), index...), i)
		fs.exact[name] = len(fs.list)
		fs.list = append(fs.list, Field{Name: name, Index: idx, Type: sf.Type, Watch: opts.watch, Required: opts.required})
	}
	for _, sf := range embedded {
		collectFields(sf.Type, append(append([]int(nil), index...), sf.Index...), depth+1, fs)
	}
}

type tagOptions struct {
	named    bool
	watch    bool
	required bool
}

// resolveStructKey applies the repository-wide rule to resolve a struct field's
// external key. Priority: jsonbind:"name=..." > json tag name > field name;
// "-" disables the field. The jsonbind tag also carries the watch and required
// flags.
func resolveStructKey(sf reflect.StructField) (string, tagOptions) {
	var opts tagOptions
	name := ""
	if gt := sf.Tag.Get("jsonbind"); gt != "" {
		if gt == "-" {
			return "-", opts
		}
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "name="):
				name = strings.TrimPrefix(p, "name=")
			case p == "watch":
				opts.watch = true
			case p == "required":
				opts.required = true
			}
		}
	}
	if name == "" {
		if jt := sf.Tag.Get("json"); jt != "" {
			if jt == "-" {
				return "-", opts
			}
			if i := strings.IndexByte(jt, ','); i >= 0 {
				jt = jt[:i]
			}
			name = jt
		}
	}
	if name != "" {
		opts.named = true
		return name, opts
	}
	return sf.Name, opts
}
