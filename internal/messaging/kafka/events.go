package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderConfirmed EventType = "order.confirmed"
)

// Topics для Kafka
const (
	TopicOrderEvents = "ocw.order.events"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType     EventType `json:"event_type"`
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	TotalCost     string    `json:"total_cost"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewOrderEvent создает событие из текущего представления заказа
func NewOrderEvent(eventType EventType, order domain.Order) *OrderEvent {
	return &OrderEvent{
		EventType:     eventType,
		OrderID:       order.OrderID,
		CustomerEmail: order.CustomerEmail,
		Status:        string(order.Status),
		TotalCost:     order.TotalCost.String(),
		Timestamp:     time.Now(),
	}
}
