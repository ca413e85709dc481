package repository

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Review, error)
	CountByProfessionalID(ctx context.Context, professionalID uuid.UUID) (int, error)
	ExistsForBooking(ctx context.Context, bookingID, customerID uuid.UUID) (bool, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, professional_id, customer_id, booking_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID, review.ProfessionalID, review.CustomerID, review.BookingID,
		review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", review.BookingID.String()),
		)
		return fmt.Errorf("create review for booking %s: %w", review.BookingID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Review, error) {
	query := `
		SELECT id, professional_id, customer_id, booking_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE professional_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, professionalID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list reviews", zap.Error(err))
		return nil, fmt.Errorf("list reviews for professional %s: %w", professionalID.String(), err)
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rv entity.Review
		err := rows.Scan(&rv.ID, &rv.ProfessionalID, &rv.CustomerID, &rv.BookingID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("list reviews: %w", err)
		}
		reviews = append(reviews, rv)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) CountByProfessionalID(ctx context.Context, professionalID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE professional_id = $1`, professionalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews for professional %s: %w", professionalID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID, customerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE booking_id = $1 AND customer_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, bookingID, customerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}
