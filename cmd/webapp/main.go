package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/app"
)

// setupLogger настраивает формат и уровень логирования для webapp.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

func main() {
	setupLogger()

	cfg, err := app.ReadWebConfig()
	if err != nil {
		log.WithError(err).Fatal("некорректная конфигурация")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":         cfg.HTTPAddr,
		"metrics_addr":      cfg.MetricsAddr,
		"order_service_url": cfg.OrderServiceURL,
	}).Info("запускаем webapp")

	if err := app.RunWeb(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("webapp завершился с ошибкой")
	}

	log.Info("webapp остановлен")
}
