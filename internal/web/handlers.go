package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/composer"
	"github.com/vladislavdragonenkov/ocw/internal/confirm"
	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Задержка навигации обратно на форму после показа исхода.
const redirectDelaySeconds = 3

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Пользовательские уведомления формы.
const (
	noticeOrderPlaced      = "Order placed successfully! Check your email for confirmation."
	noticeSubmissionFailed = "Error placing order. Please try again."
	noticeSubmitInFlight   = "Your order is being placed. Please wait."
)

// Server — HTTP-поверхность двух экранов workflow.
type Server struct {
	sessions   *SessionRegistry
	controller *confirm.Controller
	logger     *log.Entry
	templates  *template.Template
}

// NewServer собирает webapp поверх реестра сессий и контроллера подтверждения.
func NewServer(sessions *SessionRegistry, controller *confirm.Controller, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.WithField("component", "web")
	}
	return &Server{
		sessions:   sessions,
		controller: controller,
		logger:     logger,
		templates:  template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Router собирает маршруты webapp.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.showForm)
	r.Post("/orders", s.submitOrder)
	r.Get("/confirm-order/{orderID}", s.showConfirmation)

	return r
}

// requestLogger пишет результат каждого запроса в структурированный лог.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(started).String(),
		}).Debug("http request")
	})
}

// formView — данные шаблона формы.
type formView struct {
	Products       []domain.Product
	Draft          domain.DraftOrder
	Errors         map[string]string
	TotalCost      string
	SubmitEligible bool
	Flash          string
	FlashKind      string
	PlacedOrderID  string
}

// confirmView — данные шаблона подтверждения.
type confirmView struct {
	Notice               string
	NoticeKind           string
	Order                *domain.Order
	RedirectDelaySeconds int
}

// session достаёт сессию посетителя из cookie или заводит новую.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if session, ok := s.sessions.Get(cookie.Value); ok {
			return session
		}
	}

	session := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}

// showForm рендерит Order Composer. Каталог загружается на каждый показ
// формы: это аналог mount исходного экрана, без повторов внутри попытки.
func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	session.Composer.LoadCatalog(r.Context())

	flashKind, flash, placedOrderID := session.TakeFlash()
	s.renderForm(w, http.StatusOK, session.Composer, formView{
		Flash:         flash,
		FlashKind:     flashKind,
		PlacedOrderID: placedOrderID,
	})
}

// submitOrder прогоняет отправку формы через Composer сессии.
func (s *Server) submitOrder(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	c := session.Composer

	// POST мимо формы (например, прямой запрос) приходит без каталога.
	if len(c.Products()) == 0 {
		c.LoadCatalog(r.Context())
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	for _, field := range domain.RequiredFields {
		if err := c.SetField(field, r.PostFormValue(field)); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
	}

	order, err := c.Submit(r.Context())
	switch {
	case err == nil:
		session.SetFlash(flashSuccess, noticeOrderPlaced, order.OrderID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, domain.ErrSubmissionInFlight):
		s.renderForm(w, http.StatusConflict, c, formView{
			Flash:     noticeSubmitInFlight,
			FlashKind: flashError,
		})
	default:
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.renderForm(w, http.StatusUnprocessableEntity, c, formView{})
			return
		}
		s.logger.WithError(err).Error("не удалось отправить заказ")
		s.renderForm(w, http.StatusOK, c, formView{
			Flash:     noticeSubmissionFailed,
			FlashKind: flashError,
		})
	}
}

// showConfirmation доводит визит до терминального состояния и рендерит исход.
func (s *Server) showConfirmation(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	state := s.controller.Visit(r.Context(), orderID)

	kind := flashSuccess
	if state.Phase == confirm.PhaseConfirmFailed || state.Phase == confirm.PhaseError {
		kind = flashError
	}

	view := confirmView{
		Notice:               state.Notice(),
		NoticeKind:           kind,
		Order:                state.Order,
		RedirectDelaySeconds: redirectDelaySeconds,
	}
	if err := s.templates.ExecuteTemplate(w, "confirm", view); err != nil {
		s.logger.WithError(err).Error("failed to render confirmation view")
	}
}

func (s *Server) renderForm(w http.ResponseWriter, status int, c *composer.Composer, view formView) {
	view.Products = c.Products()
	view.Draft = c.Draft()
	view.Errors = c.Errors()
	view.TotalCost = c.TotalCost()
	view.SubmitEligible = c.SubmitEligible()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "form", view); err != nil {
		s.logger.WithError(err).Error("failed to render form view")
	}
}
