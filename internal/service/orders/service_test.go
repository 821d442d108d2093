package orders_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ocw/internal/service/orders"
	"github.com/vladislavdragonenkov/ocw/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*kafka.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(event *kafka.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func newService(events orders.EventPublisher) *orders.Service {
	products := memory.NewProductRepository([]domain.Product{
		{ID: 1, Name: "Widget", Cost: 1000},
	})
	return orders.NewService(products, memory.NewOrderRepository(), events, nil)
}

func TestService_CreateOrder_ServerSideTotal(t *testing.T) {
	service := newService(nil)

	// Клиентская сумма игнорируется: истину считает сервис.
	order, err := service.CreateOrder(domain.CreateOrderRequest{
		CustomerName:  "Jane Doe",
		Quantity:      3,
		ProductID:     1,
		CustomerEmail: "jane@x.com",
		TotalCost:     "999.99",
	})
	require.NoError(t, err)
	require.Equal(t, domain.Money(3000), order.TotalCost)
	require.NotEmpty(t, order.OrderID)
	require.False(t, order.CreatedAt.IsZero())
}

func TestService_PublishesLifecycleEvents(t *testing.T) {
	pub := &recordingPublisher{}
	service := newService(pub)

	order, err := service.CreateOrder(domain.CreateOrderRequest{
		CustomerName:  "Jane Doe",
		Quantity:      1,
		ProductID:     1,
		CustomerEmail: "jane@x.com",
	})
	require.NoError(t, err)

	_, err = service.ConfirmOrder(order.OrderID)
	require.NoError(t, err)

	require.Len(t, pub.events, 2)
	require.Equal(t, kafka.EventTypeOrderCreated, pub.events[0].EventType)
	require.Equal(t, kafka.EventTypeOrderConfirmed, pub.events[1].EventType)
	require.Equal(t, order.OrderID, pub.events[1].OrderID)
}

func TestService_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	service := newService(pub)

	_, err := service.CreateOrder(domain.CreateOrderRequest{
		CustomerName:  "Jane Doe",
		Quantity:      1,
		ProductID:     1,
		CustomerEmail: "jane@x.com",
	})
	require.NoError(t, err, "broker failure must not fail the request")
}
