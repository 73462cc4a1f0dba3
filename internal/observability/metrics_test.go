package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/yoldosh/admin-api/testing"
)

func TestMiddlewareCountsAuthFailures(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/profile", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, metricsReq)

	body := rec.Body.String()
	if !strings.Contains(body, `yoldosh_admin_auth_failures_total{reason="unauthorized"} 1`) {
		t.Fatalf("auth failure not counted:\n%s", body)
	}
	if !strings.Contains(body, "yoldosh_admin_http_requests_total") {
		t.Fatalf("request counter missing:\n%s", body)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *Metrics
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}
