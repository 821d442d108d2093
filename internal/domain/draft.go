package domain

import "strings"

// Имена полей черновика; совпадают с именами полей формы и payload.
const (
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldProductID     = "product_id"
	FieldQuantity      = "quantity"
)

// RequiredFields — обязательные поля черновика в порядке отображения формы.
var RequiredFields = []string{
	FieldCustomerName,
	FieldProductID,
	FieldQuantity,
	FieldCustomerEmail,
}

// DraftOrder — черновик заказа на стороне клиента. Все поля хранятся как
// сырой пользовательский ввод; разбор и проверка выполняются валидаторами.
type DraftOrder struct {
	CustomerName  string
	CustomerEmail string
	ProductID     string
	Quantity      string
}

// Field возвращает сырое значение поля по имени; пустая строка для неизвестного имени.
func (d DraftOrder) Field(name string) string {
	switch name {
	case FieldCustomerName:
		return d.CustomerName
	case FieldCustomerEmail:
		return d.CustomerEmail
	case FieldProductID:
		return d.ProductID
	case FieldQuantity:
		return d.Quantity
	}
	return ""
}

// SetField записывает сырое значение поля по имени.
func (d *DraftOrder) SetField(name, value string) error {
	switch name {
	case FieldCustomerName:
		d.CustomerName = value
	case FieldCustomerEmail:
		d.CustomerEmail = value
	case FieldProductID:
		d.ProductID = value
	case FieldQuantity:
		d.Quantity = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Filled сообщает, заполнены ли все обязательные поля (после trim).
func (d DraftOrder) Filled() bool {
	for _, name := range RequiredFields {
		if strings.TrimSpace(d.Field(name)) == "" {
			return false
		}
	}
	return true
}

// Reset очищает черновик после успешной отправки.
func (d *DraftOrder) Reset() {
	*d = DraftOrder{}
}
