package engine

import (
	"strconv"
	"strings"
)

// FieldPath appends a property name to a structural path. Names containing
// path metacharacters are written in indexer form: base['odd.name'].
func FieldPath(base, name string) string {
	if needsQuoting(name) {
		return base + "['" + quoteEscaper.Replace(name) + "']"
	}
	if base == "" {
		return name
	}
	return base + "." + name
}

// IndexPath appends an array index to a structural path.
func IndexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// EscapeName escapes a property name the way FieldPath writes it inside ['...'].
func EscapeName(name string) string { return quoteEscaper.Replace(name) }

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		switch r {
		case '.', ' ', '\'', '"', '/', '[', ']', '(', ')', '\\',
			'\t', '\n', '\r', '\f', '\b', '\u0085', '\u2028', '\u2029':
			return true
		}
	}
	return false
}
