package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, customer_email, product_id, quantity,
			total_cost_minor, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.OrderID, order.CustomerName, order.CustomerEmail,
		order.Product.ID, order.Quantity, int64(order.TotalCost),
		string(order.Status), order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_name, o.customer_email,
		       p.id, p.name, p.cost_minor,
		       o.quantity, o.total_cost_minor, o.status, o.created_at
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE o.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

// Confirm выполняет переход "Order Placed" → "Confirmed" одним UPDATE:
// конкурирующие подтверждения не могут пройти оба.
func (r *orderRepository) Confirm(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1
		WHERE id = $2
		  AND status = $3
	`, string(domain.OrderStatusConfirmed), id, string(domain.OrderStatusPlaced))
	if err != nil {
		return domain.Order{}, fmt.Errorf("confirm order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := r.Get(id); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.ErrOrderAlreadyConfirmed
	}

	return r.Get(id)
}

func (r *orderRepository) scanOrder(row *sql.Row) (domain.Order, error) {
	var order domain.Order
	var status string
	var costMinor, totalMinor int64

	err := row.Scan(
		&order.OrderID, &order.CustomerName, &order.CustomerEmail,
		&order.Product.ID, &order.Product.Name, &costMinor,
		&order.Quantity, &totalMinor, &status, &order.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	order.Product.Cost = domain.Money(costMinor)
	order.TotalCost = domain.Money(totalMinor)
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
