package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	classifyTotal    *prometheus.CounterVec
	classifyDuration *prometheus.HistogramVec
	classifyInFlight prometheus.Gauge
	queueLag         *prometheus.HistogramVec
	confidence       *prometheus.HistogramVec
	fallbackTotal    *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	classifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "file_classify_total",
			Help:      "Total classified files by status.",
		},
		[]string{"service", "status"},
	)
	classifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "file_classify_duration_seconds",
			Help:      "File classification duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	classifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "file_classify_in_flight",
			Help:      "Number of in-flight file classifications.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between enqueueing a file and classification start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "classification_confidence",
			Help:      "Distribution of assigned confidence scores.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"service"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forg",
			Subsystem: "worker",
			Name:      "classification_fallback_total",
			Help:      "Total classifications that fell back by fallback kind.",
		},
		[]string{"service", "kind"},
	)

	registry.MustRegister(classifyTotal, classifyDuration, classifyInFlight, queueLag, confidence, fallbackTotal)

	return &WorkerMetrics{
		registry:         registry,
		classifyTotal:    classifyTotal,
		classifyDuration: classifyDuration,
		classifyInFlight: classifyInFlight,
		queueLag:         queueLag,
		confidence:       confidence,
		fallbackTotal:    fallbackTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartFile() {
	m.classifyInFlight.Inc()
}

func (m *WorkerMetrics) FinishFile(service string, duration time.Duration, err error) {
	m.classifyInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.classifyTotal.WithLabelValues(service, status).Inc()
	m.classifyDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveConfidence(service string, confidence int) {
	m.confidence.WithLabelValues(service).Observe(float64(confidence))
}

func (m *WorkerMetrics) RecordFallback(service, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.fallbackTotal.WithLabelValues(service, kind).Inc()
}
