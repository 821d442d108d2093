package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Money хранит денежную сумму в минимальных единицах (центы/копейки).
type Money int64

// ParseMoney разбирает десятичную строку вида "10", "10.5" или "10.50"
// в минимальные единицы. Дробная часть длиннее двух знаков отклоняется.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money value is empty")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("money value %q has more than two fraction digits", s)
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	// ParseInt пропускает знак, поэтому обе части проверяем на «только цифры».
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return 0, fmt.Errorf("money value %q is not a decimal number", s)
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Money(total), nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mul умножает сумму на количество.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// String форматирует сумму как десятичную строку с двумя знаками после точки.
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON кодирует сумму как строку "10.00" — так её отдаёт Order Service.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON принимает и строку "10.00", и числовой литерал 10.5:
// сериализация decimal-полей на стороне сервиса исторически была и такой, и такой.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Product — позиция каталога; владелец данных — внешний Order Service,
// локальная копия каталога read-only.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Cost Money  `json:"cost"`
}

// FindProduct — чистая проекция (каталог, product_id) → товар.
// Выбранный товар нигде не хранится отдельно, чтобы не разъезжаться с каталогом.
func FindProduct(catalog []Product, id int64) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
