package adaptor

import (
	"encoding/json"
	"net/http"

	"casaora/internal/dto/request"
	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

type FeedbackHandler struct {
	service usecase.FeedbackService
	log     *zap.Logger
}

func NewFeedbackHandler(service usecase.FeedbackService, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		log:     log.With(zap.String("handler", "feedback")),
	}
}

// SubmitFeedback handles POST /api/feedback. Works with or without a
// session; anonymous submissions carry no user id.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var submitter string
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		submitter = userID.String()
	}

	var req request.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), submitter, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "submit feedback")
		return
	}

	utils.ResponseCreated(w, "success", feedback)
}

// ListRecent handles GET /api/admin/feedback (admin)
func (h *FeedbackHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	feedback, err := h.service.ListRecent(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list feedback")
		return
	}

	utils.ResponseSuccess(w, "success", feedback)
}
