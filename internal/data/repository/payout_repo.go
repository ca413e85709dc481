package repository

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PayoutRepository interface {
	CreateTx(ctx context.Context, q database.Querier, payout *entity.Payout) error
	FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Payout, error)
}

type payoutRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPayoutRepository(db database.PgxIface, log *zap.Logger) PayoutRepository {
	return &payoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "payout")),
	}
}

func (r *payoutRepository) CreateTx(ctx context.Context, q database.Querier, payout *entity.Payout) error {
	query := `
		INSERT INTO payouts (
			id, professional_id, period_start, period_end,
			gross_amount, commission_amount, net_amount, currency,
			booking_count, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(ctx, query,
		payout.ID, payout.ProfessionalID, payout.PeriodStart, payout.PeriodEnd,
		payout.GrossAmount, payout.CommissionAmount, payout.NetAmount, payout.Currency,
		payout.BookingCount, payout.Status, payout.CreatedAt, payout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payout",
			zap.Error(err),
			zap.String("professional_id", payout.ProfessionalID.String()),
		)
		return fmt.Errorf("create payout for professional %s: %w", payout.ProfessionalID.String(), err)
	}

	return nil
}

func (r *payoutRepository) FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Payout, error) {
	query := `
		SELECT id, professional_id, period_start, period_end,
		       gross_amount, commission_amount, net_amount, currency,
		       booking_count, status, created_at, updated_at
		FROM payouts
		WHERE professional_id = $1
		ORDER BY period_end DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, professionalID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payouts", zap.Error(err))
		return nil, fmt.Errorf("list payouts for professional %s: %w", professionalID.String(), err)
	}
	defer rows.Close()

	var payouts []entity.Payout
	for rows.Next() {
		var p entity.Payout
		err := rows.Scan(&p.ID, &p.ProfessionalID, &p.PeriodStart, &p.PeriodEnd,
			&p.GrossAmount, &p.CommissionAmount, &p.NetAmount, &p.Currency,
			&p.BookingCount, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("list payouts: %w", err)
		}
		payouts = append(payouts, p)
	}

	return payouts, rows.Err()
}
