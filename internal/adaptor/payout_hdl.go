package adaptor

import (
	"net/http"

	"casaora/internal/dto/request"
	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

type PayoutHandler struct {
	service usecase.PayoutService
	log     *zap.Logger
}

func NewPayoutHandler(service usecase.PayoutService, log *zap.Logger) *PayoutHandler {
	return &PayoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "payout")),
	}
}

// GetBalance handles GET /api/payouts/balance (professional)
func (h *PayoutHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID.String())
	if err != nil {
		handleServiceError(h.log, w, err, "get balance")
		return
	}

	utils.ResponseSuccess(w, "success", balance)
}

// GetSummary handles GET /api/payouts/summary (professional)
func (h *PayoutHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GetPayoutSummary(r.Context(), userID.String())
	if err != nil {
		handleServiceError(h.log, w, err, "get payout summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// GetPending handles GET /api/payouts/pending (professional)
func (h *PayoutHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	pending, err := h.service.GetPendingPayouts(r.Context(), userID.String())
	if err != nil {
		handleServiceError(h.log, w, err, "get pending payouts")
		return
	}

	utils.ResponseSuccess(w, "success", pending)
}

// RunPayouts handles POST /api/admin/payouts/run. Same job the schedule runs;
// the advisory lock keeps a manual trigger from overlapping a timed one.
func (h *PayoutHandler) RunPayouts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearBalances(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "run payouts")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// ListPayouts handles GET /api/payouts (professional)
func (h *PayoutHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	payouts, err := h.service.ListPayouts(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}
