package jsonbind

import (
	"slices"

	eng "github.com/reoring/jsonbind/internal/engine"
	"golang.org/x/text/cases"
)

// Presence is the bit flag recorded for a watched field.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                      // Field value was null.
)

// PresenceMap maps watched field names, in the watch set's declared spelling,
// to Presence flags.
type PresenceMap map[string]Presence

// Seen reports whether the watched field appeared in the input.
func (pm PresenceMap) Seen(name string) bool { return pm[name]&PresenceSeen != 0 }

// WasNull reports whether the watched field was explicitly null.
func (pm PresenceMap) WasNull(name string) bool { return pm[name]&PresenceWasNull != 0 }

// Names returns the present field names, sorted.
func (pm PresenceMap) Names() []string {
	out := make([]string, 0, len(pm))
	for k, v := range pm {
		if v&PresenceSeen != 0 {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// PresenceReceiver is implemented by targets that keep presence on the value
// itself. The binder calls SetPresence after a successful bind.
type PresenceReceiver interface {
	SetPresence(pm PresenceMap)
}

// WatchSet is an immutable set of field names compared under Unicode full
// case folding. The zero value is an empty set. It is safe for concurrent use.
type WatchSet struct {
	byFold map[string]string // folded -> declared spelling
	names  []string
}

// NewWatchSet builds a WatchSet. When two names fold to the same key the
// first one declared wins.
func NewWatchSet(names ...string) WatchSet {
	w := WatchSet{byFold: make(map[string]string, len(names))}
	for _, n := range names {
		k := fold(n)
		if _, ok := w.byFold[k]; ok {
			continue
		}
		w.byFold[k] = n
		w.names = append(w.names, n)
	}
	return w
}

// Lookup returns the declared spelling matching name.
func (w WatchSet) Lookup(name string) (string, bool) {
	if len(w.byFold) == 0 {
		return "", false
	}
	declared, ok := w.byFold[fold(name)]
	return declared, ok
}

// Contains reports whether name is watched.
func (w WatchSet) Contains(name string) bool {
	_, ok := w.Lookup(name)
	return ok
}

// Names returns the declared names in declaration order.
func (w WatchSet) Names() []string { return slices.Clone(w.names) }

// Len returns the number of watched names.
func (w WatchSet) Len() int { return len(w.names) }

// Union returns a set holding the names of w followed by more.
func (w WatchSet) Union(more ...string) WatchSet {
	return NewWatchSet(append(w.Names(), more...)...)
}

// fold uses a fresh Caser per call: a Caser carries state and must not be
// shared between goroutines.
func fold(s string) string { return cases.Fold().String(s) }

// RecordPresence reports which watched names occur as direct members of the
// root object. Any other root yields an empty map. Presence is a textual fact:
// it does not depend on the target type or on whether the value converts.
func RecordPresence(root *Node, watched WatchSet) PresenceMap {
	pm := make(PresenceMap)
	if root == nil || root.Kind != eng.NodeObject || watched.Len() == 0 {
		return pm
	}
	for _, child := range root.Children() {
		declared, ok := watched.Lookup(child.Name)
		if !ok {
			continue
		}
		pm[declared] |= PresenceSeen
		if child.Kind == eng.NodeNull {
			pm[declared] |= PresenceWasNull
		}
	}
	return pm
}
