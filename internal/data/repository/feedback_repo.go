package repository

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"go.uber.org/zap"
)

type FeedbackRepository interface {
	Create(ctx context.Context, submission *entity.FeedbackSubmission) error
	FindRecent(ctx context.Context, limit, offset int) ([]entity.FeedbackSubmission, error)
}

type feedbackRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFeedbackRepository(db database.PgxIface, log *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		db:  db,
		log: log.With(zap.String("repository", "feedback")),
	}
}

func (r *feedbackRepository) Create(ctx context.Context, submission *entity.FeedbackSubmission) error {
	query := `
		INSERT INTO feedback_submissions (id, user_id, category, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		submission.ID, submission.UserID, submission.Category,
		submission.Message, submission.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create feedback submission", zap.Error(err))
		return fmt.Errorf("create feedback submission: %w", err)
	}

	return nil
}

func (r *feedbackRepository) FindRecent(ctx context.Context, limit, offset int) ([]entity.FeedbackSubmission, error) {
	query := `
		SELECT id, user_id, category, message, created_at
		FROM feedback_submissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list feedback submissions", zap.Error(err))
		return nil, fmt.Errorf("list feedback submissions: %w", err)
	}
	defer rows.Close()

	var submissions []entity.FeedbackSubmission
	for rows.Next() {
		var s entity.FeedbackSubmission
		if err := rows.Scan(&s.ID, &s.UserID, &s.Category, &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("list feedback submissions: %w", err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}
