package jsonbind

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/jsonbind/i18n"
	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/internal/populate"
)

// errorCollector is the populate.Handler of one bind call. Safe failures are
// recorded once per canonical path and population continues; anything else
// is kept aside as opaque and aborts population.
type errorCollector struct {
	errs     *BindError
	opaque   *OpaqueError
	tr       i18n.Translator
	failFast bool
	log      *slog.Logger
}

func newErrorCollector(tr i18n.Translator, failFast bool, log *slog.Logger) *errorCollector {
	if tr == nil {
		tr = i18n.Default
	}
	return &errorCollector{errs: newBindError(), tr: tr, failFast: failFast, log: log}
}

func (c *errorCollector) OnFieldError(f populate.Failure) populate.Action {
	key := ReconcilePath(f.Path, f.Member)
	code, data, ok := classify(f.Err)
	if !ok {
		c.opaque = &OpaqueError{Path: key, Err: f.Err}
		c.log.Debug("opaque field failure", slog.String("path", key), slog.Any("err", f.Err))
		return populate.Abort
	}
	fe := FieldError{
		Path:    key,
		Code:    code,
		Message: c.tr.Message(code, data) + positionSuffix(key, f.Line, f.Column),
		Line:    f.Line,
		Column:  f.Column,
		Safe:    true,
		Cause:   f.Err,
	}
	if c.errs.add(fe) {
		c.log.Debug("field failure recorded", slog.String("path", key), slog.String("code", code))
	} else {
		c.log.Debug("field failure discarded", slog.String("path", key), slog.String("code", code))
	}
	if c.failFast {
		return populate.Abort
	}
	return populate.Continue
}

// addSyntax records a document-level failure at the root key.
func (c *errorCollector) addSyntax(se *eng.SyntaxError) {
	code := se.Code
	if code == "" {
		code = CodeParseError
	}
	c.errs.add(FieldError{
		Path:    "",
		Code:    code,
		Message: c.tr.Message(code, map[string]string{"detail": se.Msg}) + positionSuffix(se.Path, se.Line, se.Column),
		Line:    se.Line,
		Column:  se.Column,
		Safe:    true,
		Cause:   se,
	})
}

func positionSuffix(path string, line, col int) string {
	if line == 0 {
		return fmt.Sprintf(" Path '%s'.", path)
	}
	return fmt.Sprintf(" Path '%s', line %d, position %d.", path, line, col)
}

type paramsProvider interface {
	error
	Params() map[string]string
}

// classify reports the code and message parameters of a safe failure. Only
// syntax and conversion failures are safe.
func classify(err error) (code string, data map[string]string, safe bool) {
	var (
		conv  *populate.ConversionError
		unk   *populate.UnknownMemberError
		req   *populate.RequiredError
		syn   *eng.SyntaxError
		gsyn  *gojson.SyntaxError
		gtype *gojson.UnmarshalTypeError
		ssyn  *json.SyntaxError
		stype *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &conv):
		return conv.Code, withDetail(conv), true
	case errors.As(err, &unk):
		return CodeUnknownKey, withDetail(unk), true
	case errors.As(err, &req):
		return CodeRequired, withDetail(req), true
	case errors.As(err, &syn):
		code := syn.Code
		if code == "" {
			code = CodeParseError
		}
		return code, map[string]string{"detail": syn.Msg}, true
	case errors.As(err, &gsyn):
		return CodeParseError, map[string]string{"detail": gsyn.Error()}, true
	case errors.As(err, &ssyn):
		return CodeParseError, map[string]string{"detail": ssyn.Error()}, true
	case errors.As(err, &gtype):
		return CodeInvalidType, map[string]string{"detail": gtype.Error()}, true
	case errors.As(err, &stype):
		return CodeInvalidType, map[string]string{"detail": stype.Error()}, true
	}
	return "", nil, false
}

func withDetail(p paramsProvider) map[string]string {
	data := p.Params()
	data["detail"] = p.Error()
	return data
}
