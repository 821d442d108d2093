package composer

import (
	"context"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/metrics"
)

const zeroTotal = "0.00"

// Composer собирает и проверяет черновик заказа и отправляет его
// в Order Service ровно один раз на действие пользователя.
//
// Каталог записывается один раз при LoadCatalog и дальше только читается.
// In-flight защёлка делает повторный Submit no-op, пока первый не завершился.
type Composer struct {
	gateway domain.OrderGateway
	logger  *log.Entry
	metrics *metrics.WorkflowMetrics

	mu       sync.Mutex
	catalog  []domain.Product
	draft    domain.DraftOrder
	errors   map[string]string
	inFlight bool
}

// NewComposer конструирует composer с зависимостями.
func NewComposer(gateway domain.OrderGateway, logger *log.Entry, wfMetrics *metrics.WorkflowMetrics) *Composer {
	if logger == nil {
		logger = log.New().WithField("component", "composer")
	}
	return &Composer{
		gateway: gateway,
		logger:  logger,
		metrics: wfMetrics,
		errors:  make(map[string]string),
	}
}

// LoadCatalog загружает каталог товаров. Неудача логируется и оставляет
// каталог пустым: форма остаётся рабочей, повторов нет.
func (c *Composer) LoadCatalog(ctx context.Context) {
	products, err := c.gateway.ListProducts(ctx)
	if err != nil {
		c.logger.WithError(err).Error("не удалось загрузить каталог товаров")
		c.metrics.RecordCatalogFetchFailed()
		return
	}

	c.mu.Lock()
	c.catalog = products
	c.mu.Unlock()

	c.logger.WithField("products", len(products)).Info("каталог загружен")
}

// Products возвращает копию каталога.
func (c *Composer) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Product, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// Draft возвращает текущее состояние черновика.
func (c *Composer) Draft() domain.DraftOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors возвращает копию текущих ошибок полей.
func (c *Composer) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// SetField обновляет поле черновика и сбрасывает его текущую ошибку.
// Переоценка выполняется на blur/submit, не на каждый ввод.
func (c *Composer) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.draft.SetField(name, value); err != nil {
		return err
	}
	delete(c.errors, name)
	return nil
}

// ValidateOnBlur проверяет одно поле и фиксирует результат в состоянии ошибок.
func (c *Composer) ValidateOnBlur(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := ValidateField(name, c.draft.Field(name))
	if msg == "" {
		delete(c.errors, name)
	} else {
		c.errors[name] = msg
	}
	return msg
}

// SelectedProduct — проекция (каталог, product_id) → товар.
func (c *Composer) SelectedProduct() (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Composer) selectedLocked() (domain.Product, bool) {
	id, err := strconv.ParseInt(c.draft.ProductID, 10, 64)
	if err != nil {
		return domain.Product{}, false
	}
	return domain.FindProduct(c.catalog, id)
}

// TotalCost считает cost × quantity с двумя знаками после точки.
// На частичном вводе всегда возвращает "0.00" и никогда не паникует.
func (c *Composer) TotalCost() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Composer) totalLocked() string {
	product, ok := c.selectedLocked()
	if !ok {
		return zeroTotal
	}
	qty, err := strconv.Atoi(c.draft.Quantity)
	if err != nil || qty < 1 {
		return zeroTotal
	}
	return product.Cost.Mul(qty).String()
}

// SubmitEligible сообщает, можно ли отправлять черновик: все обязательные
// поля заполнены, все валидаторы проходят и нет отправки в полёте.
func (c *Composer) SubmitEligible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight || !c.draft.Filled() {
		return false
	}
	return len(ValidateAll(c.draft)) == 0
}

// Submit перепроверяет все поля и выполняет ровно один запрос создания заказа.
// При ошибках валидации сетевого вызова не происходит. Успех сбрасывает
// черновик; неудача сохраняет введённые данные для повторной попытки.
func (c *Composer) Submit(ctx context.Context) (domain.Order, error) {
	c.mu.Lock()

	if failed := ValidateAll(c.draft); len(failed) > 0 {
		c.errors = failed
		c.mu.Unlock()
		c.metrics.RecordValidationFailed()
		return domain.Order{}, &domain.ValidationError{Fields: copyFields(failed)}
	}

	product, ok := c.selectedLocked()
	if !ok {
		c.errors[domain.FieldProductID] = msgProductRequired
		failed := map[string]string{domain.FieldProductID: msgProductRequired}
		c.mu.Unlock()
		c.metrics.RecordValidationFailed()
		return domain.Order{}, &domain.ValidationError{Fields: failed}
	}

	if c.inFlight {
		// Кнопка отключена в UI, но защёлка обязана держать и
		// быстрые дублирующие срабатывания.
		c.mu.Unlock()
		return domain.Order{}, domain.ErrSubmissionInFlight
	}
	c.inFlight = true

	qty, _ := strconv.Atoi(c.draft.Quantity)
	req := domain.CreateOrderRequest{
		CustomerName:  c.draft.CustomerName,
		Quantity:      qty,
		ProductID:     product.ID,
		CustomerEmail: c.draft.CustomerEmail,
		TotalCost:     product.Cost.Mul(qty).String(),
	}
	c.mu.Unlock()

	// Освобождение защёлки гарантировано на обоих исходах.
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	order, err := c.gateway.CreateOrder(ctx, req)
	if err != nil {
		c.logger.WithError(err).Error("не удалось создать заказ")
		c.metrics.RecordSubmissionFailed()
		return domain.Order{}, &domain.SubmissionError{Err: err}
	}

	c.mu.Lock()
	c.draft.Reset()
	c.errors = make(map[string]string)
	c.mu.Unlock()

	c.logger.WithFields(log.Fields{
		"order_id":   order.OrderID,
		"total_cost": order.TotalCost.String(),
	}).Info("заказ создан")
	c.metrics.RecordOrderSubmitted()

	return order, nil
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
