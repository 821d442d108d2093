package domain

import "context"

// OrderGateway описывает взаимодействие с внешним Order Service.
// Все методы — единичные вызовы без повторов: любая ошибка терминальна
// для данной попытки и требует нового действия пользователя.
type OrderGateway interface {
	// ListProducts возвращает каталог в порядке, заданном сервисом.
	ListProducts(ctx context.Context) ([]Product, error)
	// CreateOrder создаёт заказ; при успехе возвращает представление
	// со статусом "Order Placed" и присвоенным идентификатором.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	// GetOrder возвращает актуальное состояние заказа.
	GetOrder(ctx context.Context, orderID string) (Order, error)
	// ConfirmOrder переводит заказ в "Confirmed".
	ConfirmOrder(ctx context.Context, orderID string) error
}

// ProductRepository хранит каталог товаров (сторона Order Service).
type ProductRepository interface {
	List() ([]Product, error)
	Get(id int64) (Product, error)
}

// OrderRepository хранит заказы (сторона Order Service).
type OrderRepository interface {
	Create(order Order) error
	Get(id string) (Order, error)
	// Confirm выполняет единственный допустимый переход статуса.
	// Повторная попытка возвращает ErrOrderAlreadyConfirmed.
	Confirm(id string) (Order, error)
}
