package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DialogueTransitionsTotal *prometheus.CounterVec
	AllocationsTotal         *prometheus.CounterVec
	WaitlistSweepsTotal      *prometheus.CounterVec
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		HTTPRequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being served",
			ConstLabels: constLabels,
		}),

		DialogueTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "dialogue_transitions_total",
			Help:        "Dialogue session state transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		AllocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_allocations_total",
			Help:        "Booking allocation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		WaitlistSweepsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "waitlist_sweeps_total",
			Help:        "Waitlist sweep runs by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}
}

// ObserveTransition учитывает переход диалоговой сессии между состояниями
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.DialogueTransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveAllocation учитывает результат попытки бронирования
// outcome: "created" | "conflict" | "rejected" | "error"
func (m *Metrics) ObserveAllocation(outcome string) {
	if m == nil {
		return
	}
	m.AllocationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSweep учитывает результат прохода по очереди ожидания
// outcome: "promoted" | "requeued" | "noop" | "error"
func (m *Metrics) ObserveSweep(outcome string) {
	if m == nil {
		return
	}
	m.WaitlistSweepsTotal.WithLabelValues(outcome).Inc()
}
