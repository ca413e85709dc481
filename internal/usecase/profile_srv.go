package usecase

import (
	"context"
	"fmt"
	"time"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/internal/dto/response"
	"casaora/internal/search"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	UpsertMyProfile(ctx context.Context, userID string, req *request.UpsertProfileRequest) (*response.ProfileResponse, error)
	GetMyProfile(ctx context.Context, userID string) (*response.ProfileResponse, error)
	GetBySlug(ctx context.Context, slug string) (*response.ProfileResponse, error)
	ListProfiles(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error)
}

type profileService struct {
	repo  *repository.Repository
	index SearchIndex
	log   *zap.Logger
}

func NewProfileService(repo *repository.Repository, index SearchIndex, log *zap.Logger) ProfileService {
	return &profileService{
		repo:  repo,
		index: index,
		log:   log.With(zap.String("service", "profile")),
	}
}

func (s *profileService) UpsertMyProfile(ctx context.Context, userID string, req *request.UpsertProfileRequest) (*response.ProfileResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Upsert profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	// Slug must stay unique across professionals.
	bySlug, err := s.repo.Profile.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if bySlug != nil && bySlug.UserID != userUUID {
		return nil, fmt.Errorf("slug %s is already taken", req.Slug)
	}

	now := time.Now()
	profile := &entity.ProfessionalProfile{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:         userUUID,
		Slug:           req.Slug,
		DisplayName:    req.DisplayName,
		ServiceName:    req.ServiceName,
		HourlyRate:     req.HourlyRate,
		Currency:       req.Currency,
		Bio:            req.Bio,
		ServiceAddress: req.ServiceAddress,
		IsActive:       true,
	}
	if existing, err := s.repo.Profile.FindByUserID(ctx, userUUID); err == nil && existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		profile.IsActive = existing.IsActive
	}
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}

	if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.refreshIndex(ctx, profile)

	s.log.Info("Profile upserted",
		zap.String("user_id", userID),
		zap.String("slug", profile.Slug),
	)

	resp := response.ProfileToResponse(profile)
	return &resp, nil
}

func (s *profileService) GetMyProfile(ctx context.Context, userID string) (*response.ProfileResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	profile, err := s.repo.Profile.FindByUserID(ctx, userUUID)
	if err != nil || profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	resp := response.ProfileToResponse(profile)
	return &resp, nil
}

// GetBySlug serves from the search index first and falls back to the
// database, backfilling the index on a miss.
func (s *profileService) GetBySlug(ctx context.Context, slug string) (*response.ProfileResponse, error) {
	doc, err := s.index.GetBySlug(ctx, slug)
	if err != nil {
		s.log.Warn("Search index lookup failed", zap.Error(err), zap.String("slug", slug))
	}
	if doc != nil {
		return &response.ProfileResponse{
			ID:          doc.ID,
			Slug:        doc.Slug,
			DisplayName: doc.DisplayName,
			ServiceName: doc.ServiceName,
			HourlyRate:  doc.HourlyRate,
			Currency:    doc.Currency,
			Bio:         doc.Bio,
			IsActive:    true,
		}, nil
	}

	profile, err := s.repo.Profile.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find profile by slug: %w", err)
	}
	if profile == nil || !profile.IsActive {
		return nil, fmt.Errorf("professional %s not found", slug)
	}

	s.refreshIndex(ctx, profile)

	resp := response.PublicProfileToResponse(profile)
	return &resp, nil
}

func (s *profileService) ListProfiles(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error) {
	profiles, err := s.repo.Profile.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	total, err := s.repo.Profile.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	items := make([]response.ProfileResponse, len(profiles))
	for i := range profiles {
		items[i] = response.PublicProfileToResponse(&profiles[i])
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, int64(total)), nil
}

func (s *profileService) refreshIndex(ctx context.Context, profile *entity.ProfessionalProfile) {
	if !profile.IsActive {
		if err := s.index.Remove(ctx, profile.ID.String(), profile.Slug); err != nil {
			s.log.Warn("Failed to remove profile from index", zap.Error(err))
		}
		return
	}

	err := s.index.Upsert(ctx, search.ProfessionalDoc{
		ID:          profile.ID.String(),
		Slug:        profile.Slug,
		DisplayName: profile.DisplayName,
		ServiceName: profile.ServiceName,
		HourlyRate:  profile.HourlyRate,
		Currency:    profile.Currency,
		Bio:         profile.Bio,
	})
	if err != nil {
		s.log.Warn("Failed to index profile",
			zap.Error(err),
			zap.String("profile_id", profile.ID.String()),
		)
	}
}
