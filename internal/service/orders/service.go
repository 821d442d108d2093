package orders

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/messaging/kafka"
)

// EventPublisher публикует события жизненного цикла заказа.
// kafka.Producer реализует интерфейс; nil отключает публикацию.
type EventPublisher interface {
	PublishOrderEvent(event *kafka.OrderEvent) error
}

// Service — доменная логика Order Service: каталог, создание и
// единственный переход статуса заказа.
type Service struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	events   EventPublisher
	logger   *log.Entry
}

// NewService конструирует сервис поверх репозиториев.
func NewService(products domain.ProductRepository, orders domain.OrderRepository, events EventPublisher, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		products: products,
		orders:   orders,
		events:   events,
		logger:   logger,
	}
}

// ListProducts возвращает каталог.
func (s *Service) ListProducts() ([]domain.Product, error) {
	return s.products.List()
}

// CreateOrder проверяет запрос, пересчитывает сумму на своей стороне и
// сохраняет заказ со статусом "Order Placed".
func (s *Service) CreateOrder(req domain.CreateOrderRequest) (domain.Order, error) {
	if errs := req.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, &domain.ValidationError{Fields: fieldMessages(errs)}
	}

	product, err := s.products.Get(req.ProductID)
	if err != nil {
		return domain.Order{}, err
	}

	// Сумма клиента — только подсказка; истина считается здесь.
	total := product.Cost.Mul(req.Quantity)
	if req.TotalCost != "" {
		claimed, err := domain.ParseMoney(req.TotalCost)
		if err != nil || claimed != total {
			s.logger.WithFields(log.Fields{
				"claimed": req.TotalCost,
				"actual":  total.String(),
			}).Warn("client total does not match server total")
		}
	}

	order := domain.Order{
		OrderID:       uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Product:       product,
		Quantity:      req.Quantity,
		TotalCost:     total,
		Status:        domain.OrderStatusPlaced,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.orders.Create(order); err != nil {
		return domain.Order{}, err
	}

	s.publish(kafka.EventTypeOrderCreated, order)
	s.logger.WithField("order_id", order.OrderID).Info("заказ создан")

	return order, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// ConfirmOrder выполняет переход "Order Placed" → "Confirmed" ровно один раз.
func (s *Service) ConfirmOrder(id string) (domain.Order, error) {
	order, err := s.orders.Confirm(id)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(kafka.EventTypeOrderConfirmed, order)
	s.logger.WithField("order_id", order.OrderID).Info("заказ подтверждён")

	return order, nil
}

// publish отправляет событие best-effort: сбой брокера не роняет запрос.
func (s *Service) publish(eventType kafka.EventType, order domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(kafka.NewOrderEvent(eventType, order)); err != nil {
		s.logger.WithError(err).WithField("order_id", order.OrderID).
			Warn("failed to publish order event")
	}
}

func fieldMessages(errs []error) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		switch err {
		case domain.ErrCustomerNameRequired:
			fields[domain.FieldCustomerName] = err.Error()
		case domain.ErrCustomerEmailRequired:
			fields[domain.FieldCustomerEmail] = err.Error()
		case domain.ErrProductRequired:
			fields[domain.FieldProductID] = err.Error()
		case domain.ErrQuantityInvalid:
			fields[domain.FieldQuantity] = err.Error()
		case domain.ErrTotalCostInvalid:
			fields["total_cost"] = err.Error()
		}
	}
	return fields
}
