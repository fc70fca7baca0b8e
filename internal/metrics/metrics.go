// Package metrics exposes Prometheus collectors for HTTP traffic and the
// render pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ogpix",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogpix",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ogpix",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ogpix",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time to compose and rasterize one card.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"template", "result"},
	)

	logoFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogpix",
			Subsystem: "render",
			Name:      "logo_fetches_total",
			Help:      "Logo downloads by outcome.",
		},
		[]string{"outcome"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogpix",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Rendered-image cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register adds every collector to the default registry. It is safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			requestDuration, requestTotal, requestsInFlight,
			renderDuration, logoFetches, cacheLookups,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Middleware records latency and status for every request, labeled by the
// matched route pattern.
func Middleware(next http.Handler) http.Handler {
	Register()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   path,
			"status": strconv.Itoa(status),
		}
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	})
}

// RenderObserver feeds render outcomes into the render collectors.
type RenderObserver struct{}

// ObserveRender records one render.
func (RenderObserver) ObserveRender(kind string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	renderDuration.WithLabelValues(kind, result).Observe(d.Seconds())
}

// ObserveLogo counts one logo fetch.
func (RenderObserver) ObserveLogo(outcome string) {
	logoFetches.WithLabelValues(outcome).Inc()
}

// CacheLookup counts one cache lookup.
func CacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}
