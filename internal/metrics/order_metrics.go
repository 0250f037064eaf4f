package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Операции чтения для orderdesk_order_lookups_total.
const (
	LookupGet  = "get"
	LookupList = "list"
)

// OrderMetrics содержит метрики отправки и чтения заказов.
type OrderMetrics struct {
	submissions    *prometheus.CounterVec
	submitDuration prometheus.Histogram
	lookups        *prometheus.CounterVec
	totalsMismatch *prometheus.CounterVec
}

// NewOrderMetrics регистрирует метрики в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в заданном реестре.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	return &OrderMetrics{
		submissions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_submissions_total",
			Help: "Total number of order submissions grouped by outcome.",
		}, []string{"result"}),
		submitDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderdesk_order_submit_duration_seconds",
			Help:    "Duration of order submissions in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		lookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_lookups_total",
			Help: "Total number of order lookups grouped by operation and outcome.",
		}, []string{"op", "result"}),
		totalsMismatch: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_totals_mismatch_total",
			Help: "Submitted orders whose caller-supplied totals disagree with their items.",
		}, []string{"field"}),
	}
}

// RecordSubmission фиксирует исход и длительность отправки заказа.
func (m *OrderMetrics) RecordSubmission(kind domain.Kind, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(kind)).Inc()
	m.submitDuration.Observe(duration.Seconds())
}

// RecordLookup фиксирует исход чтения.
func (m *OrderMetrics) RecordLookup(op string, kind domain.Kind) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(op, string(kind)).Inc()
}

// RecordTotalsMismatch увеличивает счётчик расхождений итогов по полю.
func (m *OrderMetrics) RecordTotalsMismatch(field string) {
	if m == nil {
		return
	}
	m.totalsMismatch.WithLabelValues(field).Inc()
}
