package repository

import (
	"context"
	"fmt"
	"time"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BalanceRepository interface {
	Create(ctx context.Context, entry *entity.BalanceEntry) error
	FindDueProfessionals(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ClearDueForProfessional(ctx context.Context, professionalID uuid.UUID, now time.Time) (int64, error)
	FindAvailableByProfessional(ctx context.Context, professionalID uuid.UUID) ([]entity.BalanceEntry, error)
	MarkPaidOutTx(ctx context.Context, q database.Querier, entryIDs []uuid.UUID) error
	SumByStatus(ctx context.Context, professionalID uuid.UUID, status entity.BalanceStatus) (int64, error)
}

type balanceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBalanceRepository(db database.PgxIface, log *zap.Logger) BalanceRepository {
	return &balanceRepository{
		db:  db,
		log: log.With(zap.String("repository", "balance")),
	}
}

func (r *balanceRepository) Create(ctx context.Context, entry *entity.BalanceEntry) error {
	query := `
		INSERT INTO balance_entries (id, professional_id, booking_id, amount, currency, status, available_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.ProfessionalID, entry.BookingID,
		entry.Amount, entry.Currency, entry.Status, entry.AvailableAt, entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create balance entry",
			zap.Error(err),
			zap.String("booking_id", entry.BookingID.String()),
		)
		return fmt.Errorf("create balance entry for booking %s: %w", entry.BookingID.String(), err)
	}

	return nil
}

// FindDueProfessionals lists professionals holding pending entries whose
// clearance time has passed.
func (r *balanceRepository) FindDueProfessionals(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT professional_id
		FROM balance_entries
		WHERE status = $1 AND available_at <= $2
	`

	rows, err := r.db.Query(ctx, query, entity.BalanceStatusPending, now)
	if err != nil {
		r.log.Error("Failed to find due professionals", zap.Error(err))
		return nil, fmt.Errorf("find due professionals: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("find due professionals: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *balanceRepository) ClearDueForProfessional(ctx context.Context, professionalID uuid.UUID, now time.Time) (int64, error) {
	query := `
		UPDATE balance_entries
		SET status = $3
		WHERE professional_id = $1 AND status = $2 AND available_at <= $4
	`

	result, err := r.db.Exec(ctx, query,
		professionalID, entity.BalanceStatusPending, entity.BalanceStatusAvailable, now)
	if err != nil {
		r.log.Error("Failed to clear due balances",
			zap.Error(err),
			zap.String("professional_id", professionalID.String()),
		)
		return 0, fmt.Errorf("clear balances for professional %s: %w", professionalID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *balanceRepository) FindAvailableByProfessional(ctx context.Context, professionalID uuid.UUID) ([]entity.BalanceEntry, error) {
	query := `
		SELECT id, professional_id, booking_id, amount, currency, status, available_at, created_at
		FROM balance_entries
		WHERE professional_id = $1 AND status = $2
		ORDER BY available_at
	`

	rows, err := r.db.Query(ctx, query, professionalID, entity.BalanceStatusAvailable)
	if err != nil {
		r.log.Error("Failed to list available balances", zap.Error(err))
		return nil, fmt.Errorf("list available balances for professional %s: %w", professionalID.String(), err)
	}
	defer rows.Close()

	var entries []entity.BalanceEntry
	for rows.Next() {
		var e entity.BalanceEntry
		err := rows.Scan(&e.ID, &e.ProfessionalID, &e.BookingID,
			&e.Amount, &e.Currency, &e.Status, &e.AvailableAt, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list available balances: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *balanceRepository) MarkPaidOutTx(ctx context.Context, q database.Querier, entryIDs []uuid.UUID) error {
	query := `
		UPDATE balance_entries
		SET status = $2
		WHERE id = ANY($1) AND status = $3
	`

	result, err := q.Exec(ctx, query, entryIDs, entity.BalanceStatusPaidOut, entity.BalanceStatusAvailable)
	if err != nil {
		return fmt.Errorf("mark balance entries paid out: %w", err)
	}
	if int(result.RowsAffected()) != len(entryIDs) {
		return fmt.Errorf("mark balance entries paid out: %w", ErrStatusConflict)
	}

	return nil
}

func (r *balanceRepository) SumByStatus(ctx context.Context, professionalID uuid.UUID, status entity.BalanceStatus) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM balance_entries
		WHERE professional_id = $1 AND status = $2
	`

	var sum int64
	if err := r.db.QueryRow(ctx, query, professionalID, status).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum balances for professional %s: %w", professionalID.String(), err)
	}

	return sum, nil
}
