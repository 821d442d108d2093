package confirm

import (
	"fmt"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// Phase — теговая часть состояния машины подтверждения.
type Phase string

const (
	// PhaseLoading — начальное состояние: заказ загружается.
	PhaseLoading Phase = "loading"
	// PhaseConfirming — заказ в "Order Placed", выдан эффект подтверждения.
	PhaseConfirming Phase = "confirming"
	// PhaseConfirmed — подтверждение выполнено (терминальное).
	PhaseConfirmed Phase = "confirmed"
	// PhaseAlreadyConfirmed — заказ уже был подтверждён ранее (терминальное).
	PhaseAlreadyConfirmed Phase = "already_confirmed"
	// PhaseConfirmFailed — переход не удался (терминальное).
	PhaseConfirmFailed Phase = "confirm_failed"
	// PhaseUnknown — статус вне известной таксономии; рендерится fallback
	// "already confirmed", confirm не выдаётся (терминальное).
	PhaseUnknown Phase = "unknown"
	// PhaseError — загрузка заказа не удалась (терминальное для визита).
	PhaseError Phase = "error"
)

// State — состояние машины подтверждения для одного визита.
type State struct {
	Phase Phase
	// Order заполнен для всех состояний после успешной загрузки.
	Order *domain.Order
	// Err хранит причину для PhaseError / PhaseConfirmFailed.
	Err error
}

// Terminal сообщает, завершён ли визит.
func (s State) Terminal() bool {
	switch s.Phase {
	case PhaseLoading, PhaseConfirming:
		return false
	}
	return true
}

// Event — входное событие машины.
type Event interface{ isEvent() }

// FetchSucceeded — ответ на загрузку заказа получен.
type FetchSucceeded struct{ Order domain.Order }

// FetchFailed — загрузка заказа не удалась.
type FetchFailed struct{ Err error }

// ConfirmSucceeded — переход в "Confirmed" выполнен.
type ConfirmSucceeded struct{}

// ConfirmFailed — переход в "Confirmed" не удался.
type ConfirmFailed struct{ Err error }

func (FetchSucceeded) isEvent()   {}
func (FetchFailed) isEvent()      {}
func (ConfirmSucceeded) isEvent() {}
func (ConfirmFailed) isEvent()    {}

// Effect — побочное действие, которое должен выполнить вызывающий код.
type Effect int

const (
	// EffectConfirm — выдать ровно один confirm-вызов для текущего заказа.
	EffectConfirm Effect = iota
	// EffectRedirect — после показа исхода вернуть пользователя на форму
	// с небольшой задержкой.
	EffectRedirect
)

// Transition — чистая функция переходов: (состояние, событие) →
// (новое состояние, эффекты). Не зависит ни от транспорта, ни от рендера.
//
// Confirm выдаётся строго после наблюдения ответа fetch и только при
// статусе ровно "Order Placed" — никогда параллельно и никогда заранее.
func Transition(s State, e Event) (State, []Effect) {
	switch s.Phase {
	case PhaseLoading:
		switch ev := e.(type) {
		case FetchFailed:
			return State{Phase: PhaseError, Err: ev.Err}, []Effect{EffectRedirect}
		case FetchSucceeded:
			order := ev.Order
			switch order.Status {
			case domain.OrderStatusConfirmed:
				return State{Phase: PhaseAlreadyConfirmed, Order: &order}, []Effect{EffectRedirect}
			case domain.OrderStatusPlaced:
				return State{Phase: PhaseConfirming, Order: &order}, []Effect{EffectConfirm}
			default:
				// Неизвестный статус намеренно трактуется как "уже
				// подтверждён": поведение исходной системы сохранено.
				return State{Phase: PhaseUnknown, Order: &order}, nil
			}
		}
	case PhaseConfirming:
		switch ev := e.(type) {
		case ConfirmSucceeded:
			return State{Phase: PhaseConfirmed, Order: s.Order}, []Effect{EffectRedirect}
		case ConfirmFailed:
			return State{Phase: PhaseConfirmFailed, Order: s.Order, Err: ev.Err}, []Effect{EffectRedirect}
		}
	}

	// Терминальные состояния событий не принимают.
	return s, nil
}

// Notice возвращает пользовательское сообщение для терминального состояния.
func (s State) Notice() string {
	switch s.Phase {
	case PhaseConfirmed:
		return "Order confirmed! You will receive a confirmation email."
	case PhaseAlreadyConfirmed, PhaseUnknown:
		return "Order already confirmed!"
	case PhaseConfirmFailed:
		return "Failed to confirm order. Please try again."
	case PhaseError:
		return "Failed to fetch order details."
	}
	return ""
}

func (s State) String() string {
	if s.Order != nil {
		return fmt.Sprintf("%s(order=%s)", s.Phase, s.Order.OrderID)
	}
	return string(s.Phase)
}
