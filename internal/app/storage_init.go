package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/storage/memory"
	"github.com/vladislavdragonenkov/ocw/internal/storage/postgres"
)

// defaultCatalog — демо-каталог dev-сервиса.
func defaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Widget", Cost: 1000},
		{ID: 2, Name: "Gadget", Cost: 2550},
		{ID: 3, Name: "Gizmo", Cost: 499},
	}
}

// storageDeps — собранный слой хранения dev-сервиса.
type storageDeps struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	ping     func(context.Context) error
	close    func() error
}

// initStorage выбирает драйвер хранилища по конфигурации.
func initStorage(ctx context.Context, cfg ServiceConfig, logger *log.Entry) (storageDeps, error) {
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return storageDeps{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return storageDeps{}, err
		}
		if err := store.SeedProducts(ctx, defaultCatalog()); err != nil {
			_ = store.Close()
			return storageDeps{}, err
		}
		logger.Info("postgres storage initialized")
		return storageDeps{
			products: postgres.NewProductRepository(store),
			orders:   postgres.NewOrderRepository(store),
			ping:     store.Ping,
			close:    store.Close,
		}, nil

	case StorageDriverMemory:
		logger.Info("in-memory storage initialized")
		return storageDeps{
			products: memory.NewProductRepository(defaultCatalog()),
			orders:   memory.NewOrderRepository(),
			ping:     func(context.Context) error { return nil },
			close:    func() error { return nil },
		}, nil

	default:
		return storageDeps{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
