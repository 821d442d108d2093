package kafka

import (
	"encoding/json"
	"testing"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

func TestNewOrderEvent(t *testing.T) {
	order := domain.Order{
		OrderID:       "abc",
		CustomerEmail: "jane@x.com",
		TotalCost:     3000,
		Status:        domain.OrderStatusPlaced,
	}

	event := NewOrderEvent(EventTypeOrderCreated, order)

	if event.EventType != EventTypeOrderCreated {
		t.Fatalf("expected %s, got %s", EventTypeOrderCreated, event.EventType)
	}
	if event.OrderID != "abc" {
		t.Fatalf("expected order id abc, got %s", event.OrderID)
	}
	if event.TotalCost != "30.00" {
		t.Fatalf("expected total 30.00, got %s", event.TotalCost)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}
}

func TestOrderEvent_JSONShape(t *testing.T) {
	order := domain.Order{
		OrderID:       "abc",
		CustomerEmail: "jane@x.com",
		TotalCost:     3000,
		Status:        domain.OrderStatusConfirmed,
	}

	data, err := json.Marshal(NewOrderEvent(EventTypeOrderConfirmed, order))
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if decoded["event_type"] != "order.confirmed" {
		t.Fatalf("unexpected event_type: %v", decoded["event_type"])
	}
	if decoded["status"] != "Confirmed" {
		t.Fatalf("unexpected status: %v", decoded["status"])
	}
	if decoded["total_cost"] != "30.00" {
		t.Fatalf("unexpected total_cost: %v", decoded["total_cost"])
	}
}
