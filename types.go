package jsonbind

import (
	"log/slog"

	"github.com/reoring/jsonbind/i18n"
)

// UnknownPolicy controls how document members without a target field are
// handled.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Skip unknown members.
	UnknownStrict                      // Report unknown members as unknown_key failures.
)

// Severity expresses the severity level for duplicate keys.
type Severity int

const (
	Ignore Severity = iota // Last duplicate wins silently.
	Warn                   // Last duplicate wins; a warning is logged.
	Error                  // Duplicates fail the whole bind.
)

// Strictness configures enforcement on the raw document.
type Strictness struct {
	OnDuplicateKey Severity
	// MaxDepth bounds object/array nesting; 0 means DefaultMaxDepth and a
	// negative value disables the check.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit applied when Strictness.MaxDepth is 0.
const DefaultMaxDepth = 64

// BindOpt bundles binder options. Binder constructors take them variadically;
// the last one wins.
type BindOpt struct {
	// Watch lists the field names whose presence is recorded. Fields tagged
	// jsonbind:"watch" are added automatically.
	Watch      []string
	Strictness Strictness
	Unknown    UnknownPolicy
	// StrictScalars disables string<->number/bool coercion.
	StrictScalars bool
	// FailFast stops population at the first recorded failure.
	FailFast bool
	// Driver tokenizes input; nil selects the relaxed driver.
	Driver Driver
	// Translator renders messages; nil selects English.
	Translator i18n.Translator
	// Logger overrides the logger carried by the context.
	Logger *slog.Logger
}
