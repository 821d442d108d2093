package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ocw/internal/domain"
)

// Handler — REST-поверхность Order Service.
type Handler struct {
	service *Service
	logger  *log.Entry
}

// NewHandler конструирует HTTP-обработчик поверх сервиса.
func NewHandler(service *Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "order-service-http")
	}
	return &Handler{service: service, logger: logger}
}

// Router собирает маршруты REST-контракта.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/products/", h.listProducts)
	r.Post("/api/orders/", h.createOrder)
	r.Get("/api/orders/{orderID}/", h.getOrder)
	r.Post("/api/confirm-order/{orderID}/", h.confirmOrder)

	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts()
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		h.writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": vErr.Fields})
		case errors.Is(err, domain.ErrProductNotFound):
			h.writeError(w, http.StatusBadRequest, "product not found")
		default:
			h.logger.WithError(err).Error("failed to create order")
			h.writeError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.WithError(err).Error("failed to get order")
		h.writeError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ConfirmOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			h.writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, domain.ErrOrderAlreadyConfirmed):
			h.writeError(w, http.StatusConflict, "order already confirmed")
		default:
			h.logger.WithError(err).Error("failed to confirm order")
			h.writeError(w, http.StatusInternalServerError, "failed to confirm order")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
