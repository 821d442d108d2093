package composer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// Сообщения намеренно пользовательские: они отображаются под полями формы.
const (
	msgNameRequired    = "Name is required"
	msgNameInvalid     = "Name must be at least 2 characters and contain only letters"
	msgEmailRequired   = "Email is required"
	msgEmailInvalid    = "Please enter a valid email address"
	msgProductRequired = "Please select a product"
	msgQuantityEmpty   = "Quantity is required"
	msgQuantityInvalid = "Quantity must be at least 1"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateField — чистая проверка одного поля черновика.
// Возвращает сообщение об ошибке или пустую строку.
func ValidateField(name, value string) string {
	switch name {
	case domain.FieldCustomerName:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return msgNameRequired
		}
		if len(trimmed) < 2 || !nameRe.MatchString(trimmed) {
			return msgNameInvalid
		}
	case domain.FieldCustomerEmail:
		if strings.TrimSpace(value) == "" {
			return msgEmailRequired
		}
		if !emailRe.MatchString(value) {
			return msgEmailInvalid
		}
	case domain.FieldProductID:
		if value == "" {
			return msgProductRequired
		}
	case domain.FieldQuantity:
		if value == "" {
			return msgQuantityEmpty
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty < 1 {
			return msgQuantityInvalid
		}
	}
	return ""
}

// ValidateAll прогоняет валидаторы по всем обязательным полям черновика.
// Возвращает карту поле → сообщение только для провалившихся полей.
func ValidateAll(draft domain.DraftOrder) map[string]string {
	failed := make(map[string]string)
	for _, name := range domain.RequiredFields {
		if msg := ValidateField(name, draft.Field(name)); msg != "" {
			failed[name] = msg
		}
	}
	return failed
}
