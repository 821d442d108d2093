package confirm

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
	"github.com/vladislavdragonenkov/ocw/internal/metrics"
)

// visit — защёлка одного визита: взводится до первой точки приостановки
// и хранит терминальное состояние для повторных рендеров.
type visit struct {
	done      chan struct{}
	state     State
	startedAt time.Time
}

// Controller разрешает заказ по идентификатору и доводит его до
// подтверждения ровно один раз на визит, сколько бы раз ни перерисовывался
// окружающий UI. Визит идентифицируется order id.
type Controller struct {
	gateway domain.OrderGateway
	logger  *log.Entry
	metrics *metrics.WorkflowMetrics

	mu     sync.Mutex
	visits map[string]*visit
}

// NewController конструирует контроллер подтверждения.
func NewController(gateway domain.OrderGateway, logger *log.Entry, wfMetrics *metrics.WorkflowMetrics) *Controller {
	if logger == nil {
		logger = log.New().WithField("component", "confirm-controller")
	}
	return &Controller{
		gateway: gateway,
		logger:  logger,
		metrics: wfMetrics,
		visits:  make(map[string]*visit),
	}
}

// Visit выполняет последовательность fetch-then-maybe-confirm ровно один
// раз для данного order id. Повторное обращение с тем же идентификатором
// не выдаёт ни одного сетевого вызова и возвращает записанный исход;
// другой идентификатор начинает новую машину с PhaseLoading.
func (c *Controller) Visit(ctx context.Context, orderID string) State {
	c.mu.Lock()
	if v, ok := c.visits[orderID]; ok {
		c.mu.Unlock()
		// Параллельный рендер того же визита дожидается исхода первого.
		<-v.done
		c.metrics.RecordVisitReplayed()
		return v.state
	}

	v := &visit{done: make(chan struct{}), startedAt: time.Now()}
	c.visits[orderID] = v
	c.mu.Unlock()

	c.metrics.RecordVisitStarted()
	state := c.run(ctx, orderID)

	v.state = state
	close(v.done)

	c.metrics.RecordVisitFinished(time.Since(v.startedAt))
	c.metrics.RecordOutcome(outcomeForPhase(state.Phase))

	return state
}

// run прогоняет машину состояний, выполняя её эффекты.
// Поздние ответы сети не могут испортить чужое состояние: всё, чем владеет
// прогон, локально для визита.
func (c *Controller) run(ctx context.Context, orderID string) State {
	logger := c.logger.WithField("order_id", orderID)
	state := State{Phase: PhaseLoading}

	order, err := c.gateway.GetOrder(ctx, orderID)

	var event Event
	if err != nil {
		fetchErr := &domain.FetchError{Op: "order " + orderID, Err: err}
		logger.WithError(fetchErr).Error("не удалось загрузить заказ")
		event = FetchFailed{Err: fetchErr}
	} else {
		event = FetchSucceeded{Order: order}
	}

	state, effects := Transition(state, event)

	for _, effect := range effects {
		if effect != EffectConfirm {
			continue
		}
		if err := c.gateway.ConfirmOrder(ctx, orderID); err != nil {
			confirmErr := &domain.ConfirmationError{OrderID: orderID, Err: err}
			logger.WithError(confirmErr).Error("не удалось подтвердить заказ")
			state, _ = Transition(state, ConfirmFailed{Err: confirmErr})
			continue
		}
		state, _ = Transition(state, ConfirmSucceeded{})
		logger.Info("заказ подтверждён")
	}

	return state
}

// PruneStale удаляет защёлки завершённых визитов старше before и
// возвращает число удалённых. Сброс защёлки безопасен: новый визит
// увидит у сервиса статус "Confirmed" и попадёт в AlreadyConfirmed.
func (c *Controller) PruneStale(before time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for id, v := range c.visits {
		select {
		case <-v.done:
		default:
			continue // визит ещё в полёте
		}
		if v.startedAt.Before(before) {
			delete(c.visits, id)
			pruned++
		}
	}
	return pruned
}

// ActiveLatches возвращает текущее число защёлок (для диагностики и тестов).
func (c *Controller) ActiveLatches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.visits)
}

func outcomeForPhase(phase Phase) string {
	switch phase {
	case PhaseConfirmed:
		return metrics.OutcomeConfirmed
	case PhaseAlreadyConfirmed:
		return metrics.OutcomeAlreadyConfirmed
	case PhaseConfirmFailed:
		return metrics.OutcomeConfirmFailed
	case PhaseError:
		return metrics.OutcomeFetchFailed
	default:
		return metrics.OutcomeUnknownStatus
	}
}
