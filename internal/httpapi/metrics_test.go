package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetricsMiddleware_UsesRoutePattern ensures requests are labelled by the
// chi route pattern instead of the raw URL path.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/rubrics/{exam}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rubrics/ENEM", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if n := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/rubrics/{exam}", http.MethodGet, "200")); n < 1 {
		t.Fatalf("expected pattern-labelled counter, got %v", n)
	}
	body := scrape(t)
	if !bytes.Contains(body, []byte("neuronexus_http_requests_total")) {
		t.Fatalf("expected neuronexus_http_requests_total in metrics")
	}
}

func TestMetricsMiddleware_FallsBackToPath(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rr := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if n := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/raw", http.MethodGet, "418")); n != 1 {
		t.Fatalf("counter=%v", n)
	}
}

func TestInflightMiddleware_Balanced(t *testing.T) {
	var during float64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpInflight.WithLabelValues("/model"))
	})
	InflightMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/model/init", nil))
	if during != 1 {
		t.Fatalf("in-flight during request=%v", during)
	}
	if after := testutil.ToFloat64(httpInflight.WithLabelValues("/model")); after != 0 {
		t.Fatalf("in-flight after request=%v", after)
	}
}

func TestPathGroup(t *testing.T) {
	cases := map[string]string{"/": "/", "/status": "/status", "/model/init": "/model", "/rubrics/ENEM": "/rubrics"}
	for in, want := range cases {
		if got := pathGroup(in); got != want {
			t.Fatalf("pathGroup(%q)=%q want %q", in, got, want)
		}
	}
}

func TestEvaluateCountsOutcome(t *testing.T) {
	before := testutil.ToFloat64(evaluationsTotal.WithLabelValues("ENEM", "graded"))
	doJSON(t, NewMux(&mockService{}), http.MethodPost, "/evaluate", validEssay)
	if got := testutil.ToFloat64(evaluationsTotal.WithLabelValues("ENEM", "graded")); got != before+1 {
		t.Fatalf("evaluations_total=%v want %v", got, before+1)
	}
}
