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

type FeedbackService interface {
	// SubmitFeedback accepts anonymous submissions; userID may be empty.
	SubmitFeedback(ctx context.Context, userID string, req *request.CreateFeedbackRequest) (*response.FeedbackResponse, error)
	ListRecent(ctx context.Context, req *request.PaginatedRequest) ([]response.FeedbackResponse, error)
}

type feedbackService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFeedbackService(repo *repository.Repository, log *zap.Logger) FeedbackService {
	return &feedbackService{
		repo: repo,
		log:  log.With(zap.String("service", "feedback")),
	}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, userID string, req *request.CreateFeedbackRequest) (*response.FeedbackResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit feedback validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	var submitter *uuid.UUID
	if userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
		}
		submitter = &id
	}

	submission := &entity.FeedbackSubmission{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:   submitter,
		Category: req.Category,
		Message:  req.Message,
	}

	if err := s.repo.Feedback.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}

	s.log.Info("Feedback submitted",
		zap.String("feedback_id", submission.ID.String()),
		zap.String("category", req.Category),
	)

	resp := response.FeedbackToResponse(submission)
	return &resp, nil
}

func (s *feedbackService) ListRecent(ctx context.Context, req *request.PaginatedRequest) ([]response.FeedbackResponse, error) {
	submissions, err := s.repo.Feedback.FindRecent(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	items := make([]response.FeedbackResponse, len(submissions))
	for i := range submissions {
		items[i] = response.FeedbackToResponse(&submissions[i])
	}
	return items, nil
}
