package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	accessDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_denials_total",
			Help: "Authorization denials by reason.",
		},
		[]string{"reason"},
	)

	readyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "service_ready",
		Help: "1 when the service reports ready, 0 otherwise.",
	})
)

// Init registers the metrics with the default registry.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, accessDenialsTotal, readyGauge)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetReady records the latest readiness probe outcome.
func SetReady(ready bool) {
	if ready {
		readyGauge.Set(1)
		return
	}
	readyGauge.Set(0)
}

// CountDenial increments the denial counter for a decision reason.
func CountDenial(reason string) {
	accessDenialsTotal.WithLabelValues(reason).Inc()
}

// CanonicalPath collapses resource identifiers so metric labels stay
// low-cardinality without a router to hand us templates.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	templates := [][]string{
		{"v1", "courses", "*"},
		{"v1", "courses", "*", "details"},
		{"v1", "courses", "*", "tests"},
		{"v1", "courses", "*", "teachers"},
		{"v1", "tests", "*"},
		{"v1", "tests", "*", "questions"},
		{"v1", "materials", "*", "download"},
		{"v1", "users", "*"},
		{"v1", "admin", "users", "*", "approve"},
	}
	for _, tpl := range templates {
		if matchTemplate(segments, tpl) {
			out := make([]string, len(tpl))
			for i, part := range tpl {
				if part == "*" {
					out[i] = ":id"
				} else {
					out[i] = part
				}
			}
			return "/" + strings.Join(out, "/")
		}
	}
	return "/" + strings.Join(segments, "/")
}

func matchTemplate(segments, tpl []string) bool {
	if len(segments) != len(tpl) {
		return false
	}
	for i, part := range tpl {
		if part == "*" {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if segments[i] != part {
			return false
		}
	}
	return true
}

// Instrument wraps a handler with request count, latency, and in-flight
// gauges.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
