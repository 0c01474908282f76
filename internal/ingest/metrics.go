package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: проверки по сущностям и результату (valid / invalid)
	Validations *prometheus.CounterVec

	// Errors: нарушения контрактов по коду (too_small, invalid_enum_value, ...)
	ValidationIssues *prometheus.CounterVec

	// Latency: время разбора контракта
	ValidationDuration *prometheus.HistogramVec

	// Доставка в Redis
	PublishErrors *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker (0 - ок, 0.5 - пробуем, 1 - выбило)
	CircuitBreakerState *prometheus.GaugeVec

	// Лента SyncLog: заполненность буфера и сброшенные записи (backpressure)
	FeedBufferFill prometheus.Gauge
	FeedDropped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Validations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bizdash_validations_total",
			Help: "Total number of contract validations.",
		}, []string{"entity", "result"}),

		ValidationIssues: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bizdash_validation_issues_total",
			Help: "Total number of contract violations by code.",
		}, []string{"entity", "code"}),

		ValidationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizdash_validation_duration_seconds",
			Help:    "Histogram of contract validation latencies.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}, []string{"entity"}),

		PublishErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bizdash_publish_errors_total",
			Help: "Total number of failed contract deliveries.",
		}, []string{"entity"}),

		CircuitBreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "bizdash_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 0.5=half-open, 1=open).",
		}, []string{"name"}),

		FeedBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "bizdash_feed_buffer_utilization",
			Help: "Current number of sync logs waiting in the feed buffer.",
		}),

		FeedDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bizdash_feed_dropped_total",
			Help: "Sync logs rejected because the feed buffer was full or stopping.",
		}),
	}
}
