package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы визита на экран подтверждения; значения попадают в label outcome.
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeAlreadyConfirmed = "already_confirmed"
	OutcomeConfirmFailed    = "confirm_failed"
	OutcomeFetchFailed      = "fetch_failed"
	OutcomeUnknownStatus    = "unknown_status"
)

// WorkflowMetrics содержит метрики order-capture workflow.
// Методы Record* безопасны при nil-получателе: компоненты можно собирать
// без метрик в тестах.
type WorkflowMetrics struct {
	// Счётчики composer
	ordersSubmitted    prometheus.Counter
	submissionFailed   prometheus.Counter
	validationFailed   prometheus.Counter
	catalogFetchFailed prometheus.Counter

	// Счётчики confirmation controller
	confirmVisits  prometheus.Counter
	confirmReplays prometheus.Counter
	visitOutcomes  *prometheus.CounterVec

	// Гистограмма длительности визита и gauge активных визитов
	visitDuration prometheus.Histogram
	activeVisits  prometheus.Gauge
}

// NewWorkflowMetrics создаёт метрики в default-реестре.
func NewWorkflowMetrics() *WorkflowMetrics {
	return newWorkflowMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newWorkflowMetricsWithRegisterer(registerer prometheus.Registerer) *WorkflowMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &WorkflowMetrics{
		ordersSubmitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_orders_submitted_total",
			Help: "Total number of orders successfully submitted",
		}),
		submissionFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_submission_failed_total",
			Help: "Total number of order submissions rejected by the order service",
		}),
		validationFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_validation_failed_total",
			Help: "Total number of submissions blocked by field validation",
		}),
		catalogFetchFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_catalog_fetch_failed_total",
			Help: "Total number of failed product catalog fetches",
		}),
		confirmVisits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_confirm_visits_total",
			Help: "Total number of confirmation visits started",
		}),
		confirmReplays: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ocw_confirm_visit_replays_total",
			Help: "Total number of repeat renders answered from the visit latch",
		}),
		visitOutcomes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ocw_confirm_outcomes_total",
			Help: "Terminal confirmation outcomes grouped by kind",
		}, []string{"outcome"}),
		visitDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ocw_confirm_visit_duration_seconds",
			Help:    "Duration of the fetch-then-maybe-confirm sequence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		activeVisits: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "ocw_active_confirm_visits",
			Help: "Number of confirmation visits currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderSubmitted увеличивает счётчик успешно созданных заказов.
func (m *WorkflowMetrics) RecordOrderSubmitted() {
	if m == nil {
		return
	}
	m.ordersSubmitted.Inc()
}

// RecordSubmissionFailed увеличивает счётчик отклонённых сервисом отправок.
func (m *WorkflowMetrics) RecordSubmissionFailed() {
	if m == nil {
		return
	}
	m.submissionFailed.Inc()
}

// RecordValidationFailed увеличивает счётчик заблокированных валидацией отправок.
func (m *WorkflowMetrics) RecordValidationFailed() {
	if m == nil {
		return
	}
	m.validationFailed.Inc()
}

// RecordCatalogFetchFailed увеличивает счётчик неудачных загрузок каталога.
func (m *WorkflowMetrics) RecordCatalogFetchFailed() {
	if m == nil {
		return
	}
	m.catalogFetchFailed.Inc()
}

// RecordVisitStarted отмечает начало визита подтверждения.
func (m *WorkflowMetrics) RecordVisitStarted() {
	if m == nil {
		return
	}
	m.confirmVisits.Inc()
	m.activeVisits.Inc()
}

// RecordVisitFinished отмечает завершение визита и его длительность.
func (m *WorkflowMetrics) RecordVisitFinished(duration time.Duration) {
	if m == nil {
		return
	}
	m.activeVisits.Dec()
	m.visitDuration.Observe(duration.Seconds())
}

// RecordVisitReplayed отмечает повторный рендер, закрытый защёлкой визита.
func (m *WorkflowMetrics) RecordVisitReplayed() {
	if m == nil {
		return
	}
	m.confirmReplays.Inc()
}

// RecordOutcome фиксирует терминальный исход визита.
func (m *WorkflowMetrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.visitOutcomes.WithLabelValues(outcome).Inc()
}
