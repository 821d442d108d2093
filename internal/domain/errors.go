package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer_name is required")
	// Ошибка отсутствующего email покупателя.
	ErrCustomerEmailRequired = errors.New("customer_email is required")
	// Ошибка отсутствующего или некорректного товара.
	ErrProductRequired = errors.New("product_id is required")
	// Ошибка количества меньше единицы.
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	// Ошибка нечитаемой итоговой суммы.
	ErrTotalCostInvalid = errors.New("total_cost is not a valid decimal")
	// ErrUnknownField возвращается при обращении к несуществующему полю черновика.
	ErrUnknownField = errors.New("unknown draft field")
	// ErrProductNotFound возвращается, если товара нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists возвращается при создании заказа с занятым идентификатором.
	ErrOrderExists = errors.New("order already exists")
	// ErrOrderAlreadyConfirmed сигнализирует о повторной попытке подтверждения.
	ErrOrderAlreadyConfirmed = errors.New("order already confirmed")
	// ErrSubmissionInFlight — повторный submit, пока предыдущий не завершился.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// ValidationError — ошибки уровня полей. Блокирует только отправку формы
// и никогда не доходит до сетевого слоя.
type ValidationError struct {
	// Fields: имя поля → сообщение для пользователя.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// FetchError — неудачная загрузка каталога или заказа (сеть/сервер).
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmissionError — неудачное создание заказа.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationError — неудачный переход заказа в "Confirmed".
type ConfirmationError struct {
	OrderID string
	Err     error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirm order %s: %v", e.OrderID, e.Err)
}

func (e *ConfirmationError) Unwrap() error { return e.Err }

// IsAlreadyConfirmed проверяет, является ли ошибка повторным подтверждением.
func IsAlreadyConfirmed(err error) bool {
	return errors.Is(err, ErrOrderAlreadyConfirmed)
}
