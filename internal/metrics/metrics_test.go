package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func TestOrderMetrics_RecordSubmission(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.RecordSubmission(domain.KindOK, 10*time.Millisecond)
	m.RecordSubmission(domain.KindDuplicateOrder, time.Millisecond)
	m.RecordSubmission(domain.KindOK, time.Millisecond)

	if got := testutil.ToFloat64(m.submissions.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok submissions, got %f", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("duplicate_order")); got != 1 {
		t.Errorf("expected 1 duplicate submission, got %f", got)
	}

	metric := &dto.Metric{}
	if err := m.submitDuration.Write(metric); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("expected 3 duration samples, got %d", metric.Histogram.GetSampleCount())
	}
}

func TestOrderMetrics_LookupsAndMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.RecordLookup(LookupGet, domain.KindOrderNotFound)
	m.RecordLookup(LookupList, domain.KindOK)
	m.RecordTotalsMismatch("total_amount")

	if got := testutil.ToFloat64(m.lookups.WithLabelValues(LookupGet, "order_not_found")); got != 1 {
		t.Errorf("expected 1 not found lookup, got %f", got)
	}
	if got := testutil.ToFloat64(m.totalsMismatch.WithLabelValues("total_amount")); got != 1 {
		t.Errorf("expected 1 mismatch, got %f", got)
	}
}

func TestOrderMetrics_NilSafe(t *testing.T) {
	var m *OrderMetrics
	m.RecordSubmission(domain.KindOK, time.Second)
	m.RecordLookup(LookupGet, domain.KindOK)
	m.RecordTotalsMismatch("item_count")
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordTotalsMismatch("item_count")
	if got := testutil.ToFloat64(second.totalsMismatch.WithLabelValues("item_count")); got != 1 {
		t.Fatalf("expected shared collector, got %f", got)
	}
}

func TestRegister_PanicsOnTypeConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_order_submit_duration_seconds",
		Help: "conflicting type",
	}))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on conflicting collector type")
		}
	}()
	NewOrderMetricsWithRegisterer(reg)
}

func TestOutboxMetrics_ObserveBacklog(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetricsWithRegisterer(reg)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.ObserveBacklog(domain.OutboxStats{PendingCount: 4, OldestPendingAt: now.Add(-30 * time.Second)}, now)

	if got := testutil.ToFloat64(m.pendingRecords); got != 4 {
		t.Errorf("expected 4 pending, got %f", got)
	}
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 30 {
		t.Errorf("expected age 30s, got %f", got)
	}

	m.ObserveBacklog(domain.OutboxStats{}, now)
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 0 {
		t.Errorf("expected age reset, got %f", got)
	}

	m.RecordPublish("sent")
	if got := testutil.ToFloat64(m.publishAttempts.WithLabelValues("sent")); got != 1 {
		t.Errorf("expected 1 sent attempt, got %f", got)
	}
}
