package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	itemActionsTotal *prometheus.CounterVec
	migrationsTotal  *prometheus.CounterVec
	migratedFiles    *prometheus.HistogramVec
	scannedFiles     *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "forg",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	itemActionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forg",
			Subsystem: "review",
			Name:      "item_actions_total",
			Help:      "Total review actions applied to items.",
		},
		[]string{"service", "action"},
	)
	migrationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forg",
			Subsystem: "migration",
			Name:      "runs_total",
			Help:      "Total migration runs by outcome.",
		},
		[]string{"service", "outcome"},
	)
	migratedFiles := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "migration",
			Name:      "migrated_files",
			Help:      "Distribution of files migrated per run.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"service"},
	)
	scannedFiles := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "scan",
			Name:      "scanned_files",
			Help:      "Distribution of files discovered per scan.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		itemActionsTotal,
		migrationsTotal,
		migratedFiles,
		scannedFiles,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		itemActionsTotal: itemActionsTotal,
		migrationsTotal:  migrationsTotal,
		migratedFiles:    migratedFiles,
		scannedFiles:     scannedFiles,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/items/"):
		if strings.HasSuffix(path, "/reject-move") {
			return "/v1/items/{item_id}/reject-move"
		}
		if path == "/v1/items/bulk-action" {
			return path
		}
		return "/v1/items/{item_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordItemAction(service, action string) {
	if action == "" {
		action = "unknown"
	}
	m.itemActionsTotal.WithLabelValues(service, action).Inc()
}

func (m *HTTPServerMetrics) RecordMigrationRun(service string, migrated, failed int) {
	outcome := "success"
	if failed > 0 {
		outcome = "partial"
	}
	if migrated == 0 && failed > 0 {
		outcome = "failed"
	}
	m.migrationsTotal.WithLabelValues(service, outcome).Inc()
	m.migratedFiles.WithLabelValues(service).Observe(float64(migrated))
}

func (m *HTTPServerMetrics) RecordScan(service string, fileCount int) {
	m.scannedFiles.WithLabelValues(service).Observe(float64(fileCount))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
