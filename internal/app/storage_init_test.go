package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitStorage_Memory(t *testing.T) {
	cfg := DefaultServiceConfig()
	deps, err := initStorage(context.Background(), cfg, log.WithField("component", "test"))
	if err != nil {
		t.Fatalf("init memory storage: %v", err)
	}

	products, err := deps.products.List()
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("memory storage must ship a seeded catalog")
	}

	if err := deps.ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := deps.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestInitStorage_UnknownDriver(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.StorageDriver = "cassandra"

	if _, err := initStorage(context.Background(), cfg, log.WithField("component", "test")); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestInitKafkaProducer_Disabled(t *testing.T) {
	cfg := DefaultServiceConfig()
	if producer := initKafkaProducer(cfg, log.WithField("component", "test")); producer != nil {
		t.Fatal("expected nil producer when brokers are not configured")
	}
}
