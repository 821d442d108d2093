package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/composer"
	"github.com/vladislavdragonenkov/ocw/internal/confirm"
	healthcheck "github.com/vladislavdragonenkov/ocw/internal/health"
	"github.com/vladislavdragonenkov/ocw/internal/metrics"
	"github.com/vladislavdragonenkov/ocw/internal/service/ordergateway"
	"github.com/vladislavdragonenkov/ocw/internal/service/orders"
	"github.com/vladislavdragonenkov/ocw/internal/version"
	"github.com/vladislavdragonenkov/ocw/internal/web"
)

// RunWeb запускает webapp: два экрана workflow, метрики и фоновую очистку
// защёлок и сессий. Блокируется до отмены ctx или падения сервера.
func RunWeb(ctx context.Context, cfg WebConfig) error {
	logger := log.WithField("component", "app")

	wfMetrics := metrics.NewWorkflowMetrics()
	gateway := ordergateway.NewHTTPGateway(cfg.OrderServiceURL,
		ordergateway.WithLogger(log.WithField("component", "order-gateway")),
	)

	sessions := web.NewSessionRegistry(func() *composer.Composer {
		return composer.NewComposer(gateway, log.WithField("component", "composer"), wfMetrics)
	})
	controller := confirm.NewController(gateway,
		log.WithField("component", "confirm-controller"), wfMetrics)

	latchJanitor := confirm.NewCleanupWorker(controller,
		confirm.WithInterval(cfg.LatchPruneInterval),
		confirm.WithMaxAge(cfg.LatchMaxAge),
		confirm.WithLogger(log.WithField("component", "latch-cleanup-worker")),
	)
	go latchJanitor.Run(ctx)

	sessionJanitor := confirm.NewCleanupWorker(sessions,
		confirm.WithInterval(cfg.LatchPruneInterval),
		confirm.WithMaxAge(cfg.SessionMaxAge),
		confirm.WithLogger(log.WithField("component", "session-cleanup-worker")),
	)
	go sessionJanitor.Run(ctx)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	healthHandler.RegisterChecker("order-service",
		healthcheck.NewGatewayChecker(gateway, 2*time.Second))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	server := web.NewServer(sessions, controller, log.WithField("component", "web"))
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Router()}

	return serveHTTP(ctx, httpSrv, metricsSrv, logger, "webapp слушает "+cfg.HTTPAddr)
}

// RunService запускает dev-сервис заказов: REST-контракт, выбранное
// хранилище и опциональные Kafka-события.
func RunService(ctx context.Context, cfg ServiceConfig) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	producer := initKafkaProducer(cfg, logger)
	defer func() {
		if producer == nil {
			return
		}
		if err := producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}()

	var events orders.EventPublisher
	if producer != nil {
		events = producer
	}

	service := orders.NewService(storage.products, storage.orders, events,
		log.WithField("component", "order-service"))
	handler := orders.NewHandler(service, log.WithField("component", "order-service-http"))

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return storage.ping(pingCtx)
	}))

	metricsSrv := startMetricsServer(ctx, cfg.ServiceMetricsAddr, logger, healthHandler)

	httpSrv := &http.Server{Addr: cfg.ServiceAddr, Handler: handler.Router()}

	return serveHTTP(ctx, httpSrv, metricsSrv, logger, "order service слушает "+cfg.ServiceAddr)
}

// serveHTTP гоняет основной HTTP-сервер до отмены ctx, после чего аккуратно
// останавливает и его, и сервер метрик.
func serveHTTP(ctx context.Context, srv, metricsSrv *http.Server, logger *log.Entry, banner string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(banner)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
