package adaptor

import (
	"encoding/json"
	"net/http"

	"casaora/internal/dto/request"
	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DisputeHandler struct {
	service usecase.DisputeService
	log     *zap.Logger
}

func NewDisputeHandler(service usecase.DisputeService, log *zap.Logger) *DisputeHandler {
	return &DisputeHandler{
		service: service,
		log:     log.With(zap.String("handler", "dispute")),
	}
}

// CreateDispute handles POST /api/disputes (booking participant)
func (h *DisputeHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	dispute, err := h.service.CreateDispute(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create dispute")
		return
	}

	utils.ResponseCreated(w, "success", dispute)
}

// ResolveDispute handles POST /api/admin/disputes/{id}/resolve (admin)
func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	dispute, err := h.service.ResolveDispute(r.Context(), userID.String(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "resolve dispute")
		return
	}

	utils.ResponseSuccess(w, "success", dispute)
}

// ListOpenDisputes handles GET /api/admin/disputes (admin)
func (h *DisputeHandler) ListOpenDisputes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	disputes, err := h.service.ListOpenDisputes(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list disputes")
		return
	}

	utils.ResponseSuccess(w, "success", disputes)
}
