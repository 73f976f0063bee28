// Package metrics exposes the Prometheus collectors of the API and the notification pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "swipe_match"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	// Interactions counts like/unlike/dislike/undislike outcomes.
	Interactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interactions",
			Name:      "total",
			Help:      "Interaction operations by kind and result.",
		},
		[]string{"kind", "result"},
	)

	// Matches counts likes that completed a mutual pair.
	Matches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interactions",
			Name:      "matches_total",
			Help:      "Likes that produced a match.",
		},
	)

	// Effects counts notification effects by type and processing stage.
	Effects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "effects_total",
			Help:      "Notification effects by type and stage (published, delivered, deduplicated, failed).",
		},
		[]string{"type", "stage"},
	)

	sweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sweep_runs_total",
			Help:      "Like-threshold sweeps by outcome.",
		},
		[]string{"success"},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of like-threshold sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		Interactions,
		Matches,
		Effects,
		sweepRuns,
		sweepDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler collects HTTP metrics. Install it with router.Use so the
// matched mux route is known and requests are labelled by path template.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordInteraction counts one interaction call; err == nil is "ok".
func RecordInteraction(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Interactions.WithLabelValues(kind, result).Inc()
}

// RecordEffect counts an effect reaching a pipeline stage.
func RecordEffect(effectType, stage string) {
	Effects.WithLabelValues(effectType, stage).Inc()
}

// RecordSweep records one sweep run.
func RecordSweep(duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	sweepRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	sweepDuration.Observe(duration.Seconds())
}

func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
