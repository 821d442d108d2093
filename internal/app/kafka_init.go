package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/messaging/kafka"
)

// initKafkaProducer поднимает producer событий заказа, если брокеры заданы.
// Сбой подключения не фатален: сервис продолжает работать без событий.
func initKafkaProducer(cfg ServiceConfig, logger *log.Entry) *kafka.Producer {
	if cfg.KafkaBrokers == "" {
		return nil
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer
}
