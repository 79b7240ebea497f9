package jsonbind

import (
	"strings"

	eng "github.com/reoring/jsonbind/internal/engine"
)

// ReconcilePath computes the canonical error key for a failure raised at
// structuralPath while populating memberName. The member is appended only when
// the path does not already end with it as a whole segment.
func ReconcilePath(structuralPath, memberName string) string {
	if memberName == "" {
		return structuralPath
	}
	if structuralPath == "" {
		return memberName
	}
	if structuralPath == memberName {
		return structuralPath
	}
	if len(structuralPath) > len(memberName) {
		if memberName[0] == '[' {
			if strings.HasSuffix(structuralPath, memberName) {
				return structuralPath
			}
		} else if strings.HasSuffix(structuralPath, "."+memberName) ||
			strings.HasSuffix(structuralPath, "['"+memberName+"']") ||
			strings.HasSuffix(structuralPath, "['"+eng.EscapeName(memberName)+"']") ||
			strings.HasSuffix(structuralPath, "["+memberName+"]") {
			return structuralPath
		}
	}
	return JoinPath(structuralPath, memberName)
}

// JoinPath appends name to prefix with a dot, or directly when name is an
// indexer such as "[3]".
func JoinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	if strings.HasPrefix(name, "[") {
		return prefix + name
	}
	return prefix + "." + name
}

// PathRef builds structural paths in a chain-safe way.
type PathRef struct {
	path string
}

// Root returns the empty (root) path.
func Root() PathRef { return PathRef{} }

// Field appends a property name, using indexer form when the name needs it.
func (p PathRef) Field(name string) PathRef { return PathRef{path: eng.FieldPath(p.path, name)} }

// Index appends an array index.
func (p PathRef) Index(i int) PathRef { return PathRef{path: eng.IndexPath(p.path, i)} }

// String returns the rendered path.
func (p PathRef) String() string { return p.path }
