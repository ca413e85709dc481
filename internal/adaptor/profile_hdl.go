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

type ProfileHandler struct {
	service usecase.ProfileService
	log     *zap.Logger
}

func NewProfileHandler(service usecase.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		log:     log.With(zap.String("handler", "profile")),
	}
}

// UpsertMyProfile handles PUT /api/professionals/me (professional)
func (h *ProfileHandler) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	profile, err := h.service.UpsertMyProfile(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "upsert profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetMyProfile handles GET /api/professionals/me (professional)
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetMyProfile(r.Context(), userID.String())
	if err != nil {
		handleServiceError(h.log, w, err, "get my profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetBySlug handles GET /api/professionals/{slug} (public)
func (h *ProfileHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Slug is required", nil)
		return
	}

	profile, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(h.log, w, err, "get professional")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// ListProfiles handles GET /api/professionals (public)
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	profiles, err := h.service.ListProfiles(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list professionals")
		return
	}

	utils.ResponseSuccess(w, "success", profiles)
}
