package repository

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *entity.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error)
	FindOpen(ctx context.Context, limit, offset int) ([]entity.Dispute, error)
	CountOpen(ctx context.Context) (int, error)
	ResolveTx(ctx context.Context, q database.Querier, dispute *entity.Dispute) error
	CreateModerationFlagTx(ctx context.Context, q database.Querier, flag *entity.ModerationFlag) error
	CreateSuspensionTx(ctx context.Context, q database.Querier, suspension *entity.UserSuspension) error
}

type disputeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDisputeRepository(db database.PgxIface, log *zap.Logger) DisputeRepository {
	return &disputeRepository{
		db:  db,
		log: log.With(zap.String("repository", "dispute")),
	}
}

const disputeColumns = `
	id, booking_id, raised_by, reason, status,
	resolution_type, resolution_action, resolved_by, resolved_at,
	suspension_id, moderation_flag_id, created_at, updated_at
`

func scanDispute(row pgx.Row) (*entity.Dispute, error) {
	var d entity.Dispute
	err := row.Scan(
		&d.ID, &d.BookingID, &d.RaisedBy, &d.Reason, &d.Status,
		&d.ResolutionType, &d.ResolutionAction, &d.ResolvedBy, &d.ResolvedAt,
		&d.SuspensionID, &d.ModerationFlagID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *disputeRepository) Create(ctx context.Context, dispute *entity.Dispute) error {
	query := `
		INSERT INTO disputes (id, booking_id, raised_by, reason, status, resolution_type, resolution_action, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		dispute.ID, dispute.BookingID, dispute.RaisedBy, dispute.Reason,
		dispute.Status, dispute.ResolutionType, dispute.ResolutionAction,
		dispute.CreatedAt, dispute.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create dispute",
			zap.Error(err),
			zap.String("booking_id", dispute.BookingID.String()),
		)
		return fmt.Errorf("create dispute for booking %s: %w", dispute.BookingID.String(), err)
	}

	return nil
}

func (r *disputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`

	dispute, err := scanDispute(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find dispute", zap.Error(err), zap.String("dispute_id", id.String()))
		return nil, fmt.Errorf("find dispute %s: %w", id.String(), err)
	}

	return dispute, nil
}

func (r *disputeRepository) FindOpen(ctx context.Context, limit, offset int) ([]entity.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, entity.DisputeStatusOpen, limit, offset)
	if err != nil {
		r.log.Error("Failed to list open disputes", zap.Error(err))
		return nil, fmt.Errorf("list open disputes: %w", err)
	}
	defer rows.Close()

	var disputes []entity.Dispute
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("list open disputes: %w", err)
		}
		disputes = append(disputes, *dispute)
	}

	return disputes, rows.Err()
}

func (r *disputeRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM disputes WHERE status = $1`, entity.DisputeStatusOpen).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open disputes: %w", err)
	}
	return count, nil
}

// ResolveTx flips an open dispute to resolved. Guarded on status so two
// admins resolving concurrently cannot both win.
func (r *disputeRepository) ResolveTx(ctx context.Context, q database.Querier, dispute *entity.Dispute) error {
	query := `
		UPDATE disputes
		SET status = $2, resolution_type = $3, resolution_action = $4,
		    resolved_by = $5, resolved_at = $6,
		    suspension_id = $7, moderation_flag_id = $8, updated_at = NOW()
		WHERE id = $1 AND status = $9
	`

	result, err := q.Exec(ctx, query,
		dispute.ID, entity.DisputeStatusResolved,
		dispute.ResolutionType, dispute.ResolutionAction,
		dispute.ResolvedBy, dispute.ResolvedAt,
		dispute.SuspensionID, dispute.ModerationFlagID,
		entity.DisputeStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("resolve dispute %s: %w", dispute.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resolve dispute %s: %w", dispute.ID.String(), ErrStatusConflict)
	}

	return nil
}

func (r *disputeRepository) CreateModerationFlagTx(ctx context.Context, q database.Querier, flag *entity.ModerationFlag) error {
	query := `
		INSERT INTO moderation_flags (id, user_id, dispute_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query, flag.ID, flag.UserID, flag.DisputeID, flag.Reason, flag.CreatedAt)
	if err != nil {
		return fmt.Errorf("create moderation flag for user %s: %w", flag.UserID.String(), err)
	}

	return nil
}

func (r *disputeRepository) CreateSuspensionTx(ctx context.Context, q database.Querier, suspension *entity.UserSuspension) error {
	query := `
		INSERT INTO user_suspensions (id, user_id, dispute_id, reason, until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		suspension.ID, suspension.UserID, suspension.DisputeID,
		suspension.Reason, suspension.Until, suspension.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create suspension for user %s: %w", suspension.UserID.String(), err)
	}

	return nil
}
