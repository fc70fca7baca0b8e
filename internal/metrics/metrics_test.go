package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/items/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	after := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/items/{id}", "418"))
	if after-before != 2 {
		t.Errorf("requests counted = %v, want 2", after-before)
	}
}

func TestRenderObserver(t *testing.T) {
	var o RenderObserver
	o.ObserveRender("blog", 20*time.Millisecond, nil)
	o.ObserveRender("blog", time.Millisecond, errors.New("boom"))
	if got := testutil.CollectAndCount(renderDuration); got < 2 {
		t.Errorf("render series = %d", got)
	}

	before := testutil.ToFloat64(logoFetches.WithLabelValues("failed"))
	o.ObserveLogo("failed")
	if got := testutil.ToFloat64(logoFetches.WithLabelValues("failed")); got != before+1 {
		t.Errorf("failed logos = %v", got)
	}
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)
	if testutil.ToFloat64(cacheLookups.WithLabelValues("hit")) != hits+1 ||
		testutil.ToFloat64(cacheLookups.WithLabelValues("miss")) != misses+2 {
		t.Error("cache lookups not counted")
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	CacheLookup(true)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "ogpix_cache_lookups_total") {
		t.Error("metrics output is missing ogpix collectors")
	}
}
