package reqlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/system/reqlog"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	h := reqlog.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqlog.ID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a request id in context")
	}
	if got := rec.Header().Get(reqlog.Header); got != seen {
		t.Errorf("response header: got %q, want %q", got, seen)
	}
}

func TestMiddleware_KeepsClientRequestID(t *testing.T) {
	h := reqlog.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqlog.Header, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(reqlog.Header); got != "abc-123" {
		t.Errorf("request id: got %q, want abc-123", got)
	}
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	r := chi.NewRouter()
	r.Use(reqlog.Middleware(zap.NewNop()))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.State != http.StatusInternalServerError {
		t.Errorf("state: got %d, want 500", env.State)
	}
}
