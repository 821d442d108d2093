package memory

import (
	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// productRepositoryInMemory — read-only каталог товаров в памяти.
type productRepositoryInMemory struct {
	products []domain.Product
}

// NewProductRepository возвращает in-memory каталог с заданным набором товаров.
func NewProductRepository(products []domain.Product) domain.ProductRepository {
	items := make([]domain.Product, len(products))
	copy(items, products)
	return &productRepositoryInMemory{products: items}
}

// List возвращает каталог в порядке инициализации.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// Get возвращает товар по id или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id int64) (domain.Product, error) {
	product, ok := domain.FindProduct(r.products, id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
