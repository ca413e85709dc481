package usecase

import (
	"context"
	"fmt"
	"time"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/internal/dto/response"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, customerID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetProfessionalReviews(ctx context.Context, professionalID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, customerID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", customerID, err)
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", req.BookingID)
	}
	if booking.CustomerID != customerUUID {
		return nil, fmt.Errorf("forbidden: booking belongs to another customer")
	}
	if booking.Status != entity.BookingStatusCompleted {
		return nil, fmt.Errorf("cannot review booking with status: %s", booking.Status)
	}

	exists, err := s.repo.Review.ExistsForBooking(ctx, bookingID, customerUUID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("booking %s is already reviewed", req.BookingID)
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProfessionalID: booking.ProfessionalID,
		CustomerID:     customerUUID,
		BookingID:      bookingID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetProfessionalReviews(ctx context.Context, professionalID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid professional ID format %s: %w", professionalID, err)
	}

	reviews, err := s.repo.Review.FindByProfessionalID(ctx, professionalUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	total, err := s.repo.Review.CountByProfessionalID(ctx, professionalUUID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = response.ReviewToResponse(&reviews[i])
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, int64(total)), nil
}
