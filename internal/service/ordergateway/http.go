package ordergateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// REST-операции внешнего Order Service.
const (
	pathProducts     = "/api/products/"
	pathOrders       = "/api/orders/"
	pathConfirmOrder = "/api/confirm-order/"
)

// Сколько байт тела ошибки попадает в сообщение.
const errBodyLimit = 512

var _ domain.OrderGateway = (*HTTPGateway)(nil)

// HTTPGateway — HTTP-реализация domain.OrderGateway.
// Таймауты не настраиваются: полагаемся на транспортные значения по
// умолчанию; повторов нет, любой сбой терминален для попытки.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *log.Entry
}

// Option настраивает HTTPGateway.
type Option func(*HTTPGateway)

// WithHTTPClient подменяет http-клиент (нужен в тестах).
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

// WithLogger задаёт logger шлюза.
func WithLogger(logger *log.Entry) Option {
	return func(g *HTTPGateway) {
		g.logger = logger
	}
}

// NewHTTPGateway конструирует шлюз к Order Service по базовому адресу.
func NewHTTPGateway(baseURL string, options ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  log.WithField("component", "order-gateway"),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// ListProducts возвращает каталог в порядке, отданном сервисом.
func (g *HTTPGateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := g.getJSON(ctx, pathProducts, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateOrder отправляет payload создания заказа и разбирает созданное
// представление.
func (g *HTTPGateway) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal create order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+pathOrders, bytes.NewReader(body))
	if err != nil {
		return domain.Order{}, fmt.Errorf("build create order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return domain.Order{}, fmt.Errorf("create order: %w", statusError(resp))
	}

	var order domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return domain.Order{}, fmt.Errorf("decode created order: %w", err)
	}
	return order, nil
}

// GetOrder возвращает актуальное состояние заказа.
func (g *HTTPGateway) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var order domain.Order
	if err := g.getJSON(ctx, pathOrders+url.PathEscape(orderID)+"/", &order); err != nil {
		return domain.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// ConfirmOrder переводит заказ в "Confirmed". Повторное подтверждение
// сервис отклоняет конфликтом — он мапится в ErrOrderAlreadyConfirmed.
func (g *HTTPGateway) ConfirmOrder(ctx context.Context, orderID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+pathConfirmOrder+url.PathEscape(orderID)+"/", nil)
	if err != nil {
		return fmt.Errorf("build confirm request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("confirm order %s: %w", orderID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("confirm order %s: %w", orderID, domain.ErrOrderAlreadyConfirmed)
	case http.StatusNotFound:
		return fmt.Errorf("confirm order %s: %w", orderID, domain.ErrOrderNotFound)
	default:
		return fmt.Errorf("confirm order %s: %w", orderID, statusError(resp))
	}
}

func (g *HTTPGateway) getJSON(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrOrderNotFound
	case resp.StatusCode != http.StatusOK:
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
}
