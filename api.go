package jsonbind

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/reoring/jsonbind/internal/ctxlog"
	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/internal/populate"
)

// Decoded is the successful outcome of a bind: the populated value and the
// presence of watched fields. Value is nil when the input was blank or null.
type Decoded[T any] struct {
	Value    *T
	Presence PresenceMap
}

// Binder binds JSON documents into values of type T. It is immutable after
// New and safe for concurrent use.
type Binder[T any] struct {
	opt   BindOpt
	watch WatchSet
}

// New returns a Binder for T. When several options are given the last wins.
// Fields of T tagged jsonbind:"watch" are added to the watch set.
func New[T any](opts ...BindOpt) *Binder[T] {
	var opt BindOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Driver == nil {
		opt.Driver = RelaxedDriver
	}
	return &Binder[T]{opt: opt, watch: NewWatchSet(opt.Watch...).Union(taggedWatch(reflect.TypeFor[T]())...)}
}

func taggedWatch(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for _, f := range populate.StructFields(t).List() {
		if f.Watch {
			names = append(names, f.Name)
		}
	}
	return names
}

// Watched returns the binder's watch set.
func (b *Binder[T]) Watched() WatchSet { return b.watch }

// Bind parses data and populates a new T.
//
// The outcome is exactly one of: a Decoded value, a *BindError holding every
// safe failure keyed by canonical path, or an *OpaqueError for a failure whose
// message must not reach external callers.
func (b *Binder[T]) Bind(ctx context.Context, data []byte) (Decoded[T], error) {
	log := b.opt.Logger
	if log == nil {
		log = ctxlog.FromContext(ctx)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Decoded[T]{Presence: PresenceMap{}}, nil
	}

	sink := func(is eng.SimpleIssue) {
		log.Warn("duplicate key",
			slog.String("path", is.Path),
			slog.Int("line", is.Line),
			slog.Int("position", is.Column))
	}
	src := b.opt.Driver.NewBytes(data)
	root, err := eng.Build(src, eng.BuildOptions{Enforce: enforceOptions(b.opt.Strictness, sink)})
	collector := newErrorCollector(b.opt.Translator, b.opt.FailFast, log)
	if err != nil {
		var se *eng.SyntaxError
		if !errors.As(err, &se) {
			log.Error("document build failed", slog.Any("err", err))
			return Decoded[T]{}, &OpaqueError{Err: err}
		}
		collector.addSyntax(se)
		log.Debug("malformed document", slog.String("driver", b.opt.Driver.Name()), slog.String("detail", se.Msg))
		return Decoded[T]{}, collector.errs
	}
	if root.Kind == eng.NodeNull {
		return Decoded[T]{Presence: PresenceMap{}}, nil
	}

	pm := RecordPresence(root, b.watch)

	v := new(T)
	err = populate.Populate(root, v, collector, populate.Options{
		Unknown:       populate.UnknownPolicy(b.opt.Unknown),
		StrictScalars: b.opt.StrictScalars,
	})
	if collector.opaque != nil {
		log.Error("opaque failure while binding", slog.String("path", collector.opaque.Path), slog.Any("err", collector.opaque.Err))
		return Decoded[T]{}, collector.opaque
	}
	if err != nil && !errors.Is(err, populate.ErrAborted) {
		return Decoded[T]{}, err
	}
	if collector.errs.Len() > 0 {
		return Decoded[T]{}, collector.errs
	}
	if r, ok := any(v).(PresenceReceiver); ok {
		r.SetPresence(pm)
	}
	return Decoded[T]{Value: v, Presence: pm}, nil
}

// BindString is Bind for string input.
func (b *Binder[T]) BindString(ctx context.Context, s string) (Decoded[T], error) {
	return b.Bind(ctx, []byte(s))
}

// Bind binds data into a new T with a one-off Binder.
func Bind[T any](ctx context.Context, data []byte, opts ...BindOpt) (Decoded[T], error) {
	return New[T](opts...).Bind(ctx, data)
}

// WithLogger returns a context whose binds log through logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, logger)
}
