// Package metrics exposes Prometheus collectors for the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bookreviews",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookreviews",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookreviews",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookreviews",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Login attempts and auth gate decisions by outcome.",
		},
		[]string{"event", "outcome"},
	)

	relayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookreviews",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Relay calls to the public endpoints by upstream status.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authEvents,
		relayRequests,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAuth counts an auth event ("login" or "gate") with its outcome.
func RecordAuth(event, outcome string) {
	authEvents.WithLabelValues(event, outcome).Inc()
}

// RecordRelay counts a relay call by upstream status; 0 means no response.
func RecordRelay(status int) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	relayRequests.WithLabelValues(label).Inc()
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := CanonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.Status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// CanonicalPath collapses path parameters so label cardinality stays bounded.
func CanonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	switch parts[0] {
	case "isbn", "author", "title", "review":
		return "/" + parts[0] + "/:param"
	case "async":
		// Only known relay routes get their own label.
		if len(parts) == 2 && parts[1] == "books" {
			return "/async/books"
		}
		if len(parts) == 3 {
			switch parts[1] {
			case "isbn", "author", "title":
				return "/async/" + parts[1] + "/:param"
			}
		}
	case "customer":
		if len(parts) == 2 && parts[1] == "login" {
			return "/customer/login"
		}
		if len(parts) == 4 && parts[1] == "auth" && parts[2] == "review" {
			return "/customer/auth/review/:isbn"
		}
	case "register", "healthcheck", "metrics":
		return "/" + parts[0]
	}
	return "/other"
}
