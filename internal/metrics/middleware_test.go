package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Route("/reports/{reportID}", func(r chi.Router) {
		r.Get("/hits/{hitID}", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "hitID") == "Query_9_hit_9" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"id":"` + chi.URLParam(r, "hitID") + `"}`))
		})
		r.Post("/hits/{hitID}/actions/{action}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	})
	r.Get("/downloads/{reportID}/{name}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(">SI2.2.0_06267\n" + strings.Repeat("M", 4000) + "\n"))
	})
	return r
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr
}

func TestMiddleware_HitRoutesShareOneLabel(t *testing.T) {
	h := testRouter()
	for _, path := range []string{"/reports/r1/hits/Query_1_hit_1", "/reports/r2/hits/Query_3_hit_7"} {
		if rr := serve(h, "GET", path); rr.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, rr.Code)
		}
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/reports/{reportID}/hits/{hitID}", "200"))
	if got < 2 {
		t.Errorf("requests under the hit route = %f, want >= 2", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	h := testRouter()
	tests := []struct {
		method, path, route, status string
	}{
		{"GET", "/health", "/health", "200"},
		{"GET", "/reports/r1/hits/Query_9_hit_9", "/reports/{reportID}/hits/{hitID}", "404"},
		{"POST", "/reports/r1/hits/Query_1_hit_1/actions/download-fasta", "/reports/{reportID}/hits/{hitID}/actions/{action}", "202"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			serve(h, tc.method, tc.path)
			if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)); got < 1 {
				t.Errorf("requests_total{%s %s %s} = %f", tc.method, tc.route, tc.status, got)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	h := testRouter()
	serve(h, "GET", "/nope/123")
	serve(h, "GET", "/get_sequence/extra/456")

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")); got < 2 {
		t.Errorf("unmatched requests = %f, want >= 2", got)
	}
}

func TestMiddleware_ResponseSize(t *testing.T) {
	h := testRouter()
	rr := serve(h, "GET", "/downloads/r1/sequenceserver-SI2.2.0_06267.fa")
	if rr.Body.Len() < 4000 {
		t.Fatalf("body = %d bytes", rr.Body.Len())
	}

	if n := testutil.CollectAndCount(httpResponseBytes, "hitreport_http_response_size_bytes"); n == 0 {
		t.Error("expected response size observations")
	}
}

func TestRecordingWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &recordingWriter{ResponseWriter: rec, status: http.StatusOK}

	w.WriteHeader(http.StatusConflict)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("abc"))
	_, _ = w.Write([]byte("de"))

	if w.status != http.StatusConflict || w.bytes != 5 {
		t.Errorf("status = %d bytes = %d", w.status, w.bytes)
	}
}

func TestRegisterDomainMetrics_Idempotent(t *testing.T) {
	RegisterDomainMetrics()
	RegisterDomainMetrics()

	ExportsTotal.WithLabelValues("fasta", "success").Inc()
	if got := testutil.ToFloat64(ExportsTotal.WithLabelValues("fasta", "success")); got < 1 {
		t.Errorf("exports_total = %f", got)
	}
}
