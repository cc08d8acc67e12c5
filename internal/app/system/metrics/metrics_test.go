package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	p := New()
	p.Observe("accept", ResultOK, 5*time.Millisecond)
	p.Observe("accept", "conflict", time.Millisecond)
	p.Observe("accept", ResultOK, time.Millisecond)

	if got := promtest.ToFloat64(p.ops.WithLabelValues("accept", ResultOK)); got != 2 {
		t.Errorf("accept ok: got %v, want 2", got)
	}
	if got := promtest.ToFloat64(p.ops.WithLabelValues("accept", "conflict")); got != 1 {
		t.Errorf("accept conflict: got %v, want 1", got)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	p := New()
	r := chi.NewRouter()
	r.Use(p.Middleware)
	r.Get("/api/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/requests/"+id, nil))
	}

	if got := promtest.ToFloat64(p.requests.WithLabelValues("GET", "/api/requests/{id}", "404")); got != 2 {
		t.Errorf("requests: got %v, want 2", got)
	}
}

func TestHandler_ServesText(t *testing.T) {
	p := New()
	p.Observe("create", ResultOK, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "volunteerhub_lifecycle_operations_total") {
		t.Error("expected lifecycle counter in output")
	}
}
