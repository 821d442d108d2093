package confirm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const defaultPruneInterval = 30 * time.Minute

var (
	latchPruneRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocw_latch_prune_runs_total",
		Help: "Total number of visit latch prune runs.",
	})
	latchPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocw_latch_pruned_total",
		Help: "Total number of pruned visit latches.",
	})
	latchPruneLastPruned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ocw_latch_prune_last_pruned",
		Help: "Number of latches pruned during the last run.",
	})
)

// LatchStore — то, что умеет отдавать устаревшие защёлки визитов.
type LatchStore interface {
	PruneStale(before time.Time) int
}

// CleanupOptions задаёт параметры воркера очистки защёлок.
type CleanupOptions struct {
	Logger   *log.Entry
	Interval time.Duration
	// MaxAge — возраст завершённого визита, после которого защёлку можно убрать.
	MaxAge time.Duration
}

// CleanupOption настраивает CleanupWorker.
type CleanupOption func(*CleanupOptions)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Logger = logger
	}
}

// WithInterval задаёт интервал между прогонами очистки.
func WithInterval(interval time.Duration) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Interval = interval
	}
}

// WithMaxAge задаёт возраст, после которого защёлка считается устаревшей.
func WithMaxAge(maxAge time.Duration) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.MaxAge = maxAge
	}
}

// CleanupWorker периодически убирает защёлки давно завершённых визитов,
// чтобы реестр не рос бесконечно. Сброс защёлки не нарушает exactly-once:
// повторный визит упрётся в статус "Confirmed" на стороне сервиса.
type CleanupWorker struct {
	store    LatchStore
	logger   *log.Entry
	interval time.Duration
	maxAge   time.Duration
}

// NewCleanupWorker создаёт воркер очистки защёлок визитов.
func NewCleanupWorker(store LatchStore, options ...CleanupOption) *CleanupWorker {
	opts := CleanupOptions{
		Interval: defaultPruneInterval,
		MaxAge:   defaultPruneInterval,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "latch-cleanup-worker")
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultPruneInterval
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultPruneInterval
	}

	return &CleanupWorker{
		store:    store,
		logger:   logger,
		interval: opts.Interval,
		maxAge:   opts.MaxAge,
	}
}

// Run запускает периодическую очистку до отмены ctx.
func (w *CleanupWorker) Run(ctx context.Context) {
	if w.store == nil {
		w.logger.Warn("latch cleanup worker is disabled: store is nil")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *CleanupWorker) prune() {
	pruned := w.store.PruneStale(time.Now().Add(-w.maxAge))

	latchPruneRunsTotal.Inc()
	latchPruneLastPruned.Set(float64(pruned))
	if pruned > 0 {
		latchPrunedTotal.Add(float64(pruned))
		w.logger.WithField("pruned", pruned).Info("visit latch cleanup completed")
	}
}
