package ordergateway

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

var _ domain.OrderGateway = (*MockGateway)(nil)

// MockGateway — конфигурируемая заглушка domain.OrderGateway для тестов.
// Считает вызовы каждой операции; это опора для проверок "ровно один раз".
type MockGateway struct {
	mu sync.Mutex

	Products    []domain.Product
	ProductsErr error

	CreateResult domain.Order
	CreateErr    error
	// OnCreate вызывается в начале CreateOrder; удобно для синхронизации
	// гонок двойной отправки в тестах.
	OnCreate func(req domain.CreateOrderRequest)

	// GetResults: order id → представление; при отсутствии ключа
	// используется GetResult.
	GetResults map[string]domain.Order
	GetResult  domain.Order
	GetErr     error

	ConfirmErr error

	ListCalls    int
	CreateCalls  int
	GetCalls     int
	ConfirmCalls int

	LastCreate domain.CreateOrderRequest
}

// NewMockGateway возвращает mock с пустым, но рабочим состоянием.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// ListProducts возвращает настроенный каталог и считает вызовы.
func (m *MockGateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ProductsErr != nil {
		return nil, m.ProductsErr
	}
	out := make([]domain.Product, len(m.Products))
	copy(out, m.Products)
	return out, nil
}

// CreateOrder возвращает настроенный результат и запоминает payload.
func (m *MockGateway) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.LastCreate = req
	hook := m.OnCreate
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return domain.Order{}, m.CreateErr
	}
	return m.CreateResult, nil
}

// GetOrder возвращает представление по id и считает вызовы.
func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return domain.Order{}, m.GetErr
	}
	if order, ok := m.GetResults[orderID]; ok {
		return order, nil
	}
	return m.GetResult, nil
}

// ConfirmOrder возвращает настроенный результат и считает вызовы.
func (m *MockGateway) ConfirmOrder(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmCalls++
	return m.ConfirmErr
}

// Calls возвращает снимок счётчиков (list, create, get, confirm).
func (m *MockGateway) Calls() (int, int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls, m.CreateCalls, m.GetCalls, m.ConfirmCalls
}
