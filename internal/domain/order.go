package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в Order Service.
type OrderStatus string

const (
	// OrderStatusPlaced — заказ создан, подтверждение ещё не выполнено.
	OrderStatusPlaced OrderStatus = "Order Placed"
	// OrderStatusConfirmed — заказ подтверждён; состояние терминальное.
	OrderStatusConfirmed OrderStatus = "Confirmed"
)

// Order — представление заказа на стороне сервиса. Workflow его не мутирует:
// единственный переход статуса выполняет сам Order Service через confirm.
type Order struct {
	OrderID       string      `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Product       Product     `json:"product"`
	Quantity      int         `json:"quantity"`
	TotalCost     Money       `json:"total_cost"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at,omitzero"`
}

// CreateOrderRequest — payload создания заказа (POST /api/orders/).
type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name"`
	Quantity      int    `json:"quantity"`
	ProductID     int64  `json:"product_id"`
	CustomerEmail string `json:"customer_email"`
	TotalCost     string `json:"total_cost"`
}

// ValidateInvariants проверяет базовые инварианты запроса и возвращает список замечаний.
func (r CreateOrderRequest) ValidateInvariants() []error {
	var errs []error

	if r.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if r.CustomerEmail == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if r.ProductID <= 0 {
		errs = append(errs, ErrProductRequired)
	}
	if r.Quantity < 1 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if r.TotalCost != "" {
		if _, err := ParseMoney(r.TotalCost); err != nil {
			errs = append(errs, ErrTotalCostInvalid)
		}
	}

	return errs
}
