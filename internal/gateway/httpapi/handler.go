package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// maxBodyBytes ограничивает размер тела запроса на отправку заказа.
const maxBodyBytes = 1 << 20

// Handler обслуживает REST API заказов.
type Handler struct {
	svc    domain.OrderService
	logger *log.Entry
}

// NewHandler создаёт обработчики поверх доменного сервиса.
func NewHandler(svc domain.OrderService, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithFields(log.Fields{"component": "order-http", "layer": "http"})
	}
	return &Handler{svc: svc, logger: logger}
}

// SubmitOrder обрабатывает POST /orders.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.fail(w, r, fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err))
		return
	}

	result, err := h.svc.Submit(r.Context(), body.toDomain())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

// GetOrder обрабатывает GET /orders/{orderId}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

// ListOrders обрабатывает GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(results))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, fmt.Errorf("%w: no route for %s %s", domain.ErrInvalidInput, r.Method, r.URL.Path))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err, r.URL.Path)
	if p.Status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).Error("order request failed")
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		p.Detail = "request body is too large"
		p.Message = p.Detail
	}
	writeProblem(w, p)
}
