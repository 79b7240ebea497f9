// Package middleware adapts a jsonbind.Binder to net/http.
package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/internal/ctxlog"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db jsonbind.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (jsonbind.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(jsonbind.Decoded[T])
	return v, ok
}

// DefaultMaxBody caps request bodies read by Handler.
const DefaultMaxBody = 1 << 20

// Handler binds each request body with b and calls next with the Decoded[T]
// stored in the request context. Bind failures answer 400 with the flat
// {"path": "message"} object; opaque failures answer 500 without detail.
// Bodies over DefaultMaxBody answer 413 and unreadable bodies answer 400.
func Handler[T any](b *jsonbind.Binder[T], next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, DefaultMaxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"": "Request body too large."})
				return
			}
			ctxlog.FromContext(ctx).Warn("request body read failed", slog.String("path", r.URL.Path), slog.Any("err", err))
			writeJSON(w, http.StatusBadRequest, map[string]string{"": "Request body could not be read."})
			return
		}
		dm, err := b.Bind(ctx, body)
		if err != nil {
			if be, ok := jsonbind.AsBindError(err); ok {
				writeJSON(w, http.StatusBadRequest, be)
				return
			}
			ctxlog.FromContext(ctx).Error("request bind failed", slog.String("path", r.URL.Path), slog.Any("err", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDecoded(ctx, dm)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	out, err := gojson.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
