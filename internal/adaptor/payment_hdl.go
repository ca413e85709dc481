package adaptor

import (
	"net/http"

	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreateOrder handles POST /api/bookings/{id}/order (customer)
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID.String(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "create order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// CaptureOrder handles POST /api/bookings/{id}/capture (customer).
// Safe to retry: a booking already marked paid is reported as such.
func (h *PaymentHandler) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	capture, err := h.service.CaptureOrder(r.Context(), userID.String(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "capture order")
		return
	}

	utils.ResponseSuccess(w, "success", capture)
}
