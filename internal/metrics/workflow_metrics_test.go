package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewWorkflowMetrics(t *testing.T) {
	metrics := newWorkflowMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newWorkflowMetricsWithRegisterer should not return nil")
	}

	if metrics.ordersSubmitted == nil {
		t.Error("ordersSubmitted counter should not be nil")
	}
	if metrics.submissionFailed == nil {
		t.Error("submissionFailed counter should not be nil")
	}
	if metrics.validationFailed == nil {
		t.Error("validationFailed counter should not be nil")
	}
	if metrics.catalogFetchFailed == nil {
		t.Error("catalogFetchFailed counter should not be nil")
	}
	if metrics.confirmVisits == nil {
		t.Error("confirmVisits counter should not be nil")
	}
	if metrics.confirmReplays == nil {
		t.Error("confirmReplays counter should not be nil")
	}
	if metrics.visitOutcomes == nil {
		t.Error("visitOutcomes counter vec should not be nil")
	}
	if metrics.visitDuration == nil {
		t.Error("visitDuration histogram should not be nil")
	}
	if metrics.activeVisits == nil {
		t.Error("activeVisits gauge should not be nil")
	}
}

func TestNewWorkflowMetrics_ReRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newWorkflowMetricsWithRegisterer(reg)
	second := newWorkflowMetricsWithRegisterer(reg)

	// Повторная регистрация должна вернуть уже существующие коллекторы.
	if first.ordersSubmitted != second.ordersSubmitted {
		t.Error("expected re-registration to reuse the existing counter")
	}
}

func TestRecordVisitStarted(t *testing.T) {
	reg := prometheus.NewRegistry()

	confirmVisits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_confirm_visits_total",
		Help: "Test counter",
	})
	activeVisits := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_active_visits",
		Help: "Test gauge",
	})

	reg.MustRegister(confirmVisits, activeVisits)

	metrics := &WorkflowMetrics{
		confirmVisits: confirmVisits,
		activeVisits:  activeVisits,
	}

	metrics.RecordVisitStarted()

	metric := &dto.Metric{}
	if err := confirmVisits.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}

	gaugeMetric := &dto.Metric{}
	if err := activeVisits.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected active visits 1.0, got %f", gaugeMetric.Gauge.GetValue())
	}
}

func TestRecordVisitFinished(t *testing.T) {
	reg := prometheus.NewRegistry()

	activeVisits := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_active_visits_finish",
		Help: "Test gauge",
	})
	visitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_visit_duration_seconds",
		Help: "Test histogram",
	})

	reg.MustRegister(activeVisits, visitDuration)

	metrics := &WorkflowMetrics{
		activeVisits:  activeVisits,
		visitDuration: visitDuration,
	}

	activeVisits.Set(2)
	metrics.RecordVisitFinished(150 * time.Millisecond)

	gaugeMetric := &dto.Metric{}
	if err := activeVisits.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected active visits 1.0, got %f", gaugeMetric.Gauge.GetValue())
	}
}

func TestRecordOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_confirm_outcomes_total",
		Help: "Test counter vec",
	}, []string{"outcome"})

	reg.MustRegister(outcomes)

	metrics := &WorkflowMetrics{visitOutcomes: outcomes}

	metrics.RecordOutcome(OutcomeConfirmed)
	metrics.RecordOutcome(OutcomeConfirmed)
	metrics.RecordOutcome(OutcomeAlreadyConfirmed)

	metric := &dto.Metric{}
	if err := outcomes.WithLabelValues(OutcomeConfirmed).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected confirmed outcomes 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *WorkflowMetrics

	// Компоненты могут работать без метрик; запись не должна паниковать.
	metrics.RecordOrderSubmitted()
	metrics.RecordSubmissionFailed()
	metrics.RecordValidationFailed()
	metrics.RecordCatalogFetchFailed()
	metrics.RecordVisitStarted()
	metrics.RecordVisitFinished(time.Second)
	metrics.RecordVisitReplayed()
	metrics.RecordOutcome(OutcomeUnknownStatus)
}
