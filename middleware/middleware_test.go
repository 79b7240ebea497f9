package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/middleware"
)

type sortSettings struct {
	SortOrder int `json:"sortOrder"`
}

type editRequest struct {
	EditSettings sortSettings `json:"editSettings"`
}

type failing struct{}

func (*failing) UnmarshalJSON([]byte) error { return http.ErrBodyNotAllowed }

func newServer(t *testing.T) http.Handler {
	t.Helper()
	b := jsonbind.New[editRequest](jsonbind.BindOpt{Watch: []string{"editSettings"}})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dm, ok := middleware.DecodedFromContext[editRequest](r.Context())
		if !ok {
			t.Errorf("expected Decoded in context")
			return
		}
		if dm.Value == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sortOrder": dm.Value.EditSettings.SortOrder,
			"present":   dm.Presence.Names(),
		})
	})
	return middleware.Handler(b, next)
}

func TestHandler_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader(`{"editSettings":{"sortOrder":4}}`))
	newServer(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"sortOrder": float64(4), "present": []any{"editSettings"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_EmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader("")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_BindErrorIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader(`{editSettings:{sortOrder:true}}`))
	newServer(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	want := map[string]string{
		"editSettings.sortOrder": "Error converting value true to type 'int'. Path 'editSettings.sortOrder', line 1, position 29.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_OpaqueIs500WithoutDetail(t *testing.T) {
	type target struct {
		F failing `json:"f"`
	}
	b := jsonbind.New[target]()
	h := middleware.Handler(b, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Errorf("next must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"f":1}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), http.ErrBodyNotAllowed.Error()) {
		t.Fatalf("opaque detail leaked: %s", rec.Body.String())
	}
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }

func TestHandler_BodyReadFailures(t *testing.T) {
	cases := []struct {
		name   string
		body   func() *http.Request
		status int
		msg    string
	}{
		{
			name: "too large",
			body: func() *http.Request {
				big := `{"editSettings":{"sortOrder":1},"pad":"` + strings.Repeat("x", middleware.DefaultMaxBody) + `"}`
				return httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader(big))
			},
			status: http.StatusRequestEntityTooLarge,
			msg:    "Request body too large.",
		},
		{
			name: "broken",
			body: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/edit", brokenBody{})
			},
			status: http.StatusBadRequest,
			msg:    "Request body could not be read.",
		},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		newServer(t).ServeHTTP(rec, tc.body())
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
		var got map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: decode %s: %v", tc.name, rec.Body.String(), err)
		}
		if diff := cmp.Diff(map[string]string{"": tc.msg}, got); diff != "" {
			t.Fatalf("%s: response mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}
