package repository

import (
	"context"
	"fmt"
	"time"

	"casaora/internal/data/entity"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error
	SetPaymentIntentTx(ctx context.Context, q database.Querier, id uuid.UUID, intentID string, amount int64) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]entity.Booking, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int, error)
	FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Booking, error)
	CountByProfessionalID(ctx context.Context, professionalID uuid.UUID) (int, error)

	// Status transitions. Every one is a compare-and-swap on the current
	// status; ErrStatusConflict means the booking moved first.
	MarkAuthorized(ctx context.Context, id uuid.UUID) error
	Accept(ctx context.Context, id uuid.UUID) error
	Decline(ctx context.Context, id uuid.UUID, from entity.BookingStatus, reason string) error
	Cancel(ctx context.Context, id uuid.UUID, from entity.BookingStatus, paymentStatus entity.PaymentStatus) error
	CheckIn(ctx context.Context, id uuid.UUID, lat, lng *float64, proximityStatus string, at time.Time) error
	Complete(ctx context.Context, id uuid.UUID, capturedAmount int64, at time.Time) error
	SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error
	MarkPaidByOrder(ctx context.Context, id uuid.UUID, orderID string) error
	MarkRefunded(ctx context.Context, id uuid.UUID) error

	HasCompletedBooking(ctx context.Context, customerID, professionalID uuid.UUID) (bool, error)
	FindPayable(ctx context.Context, professionalID uuid.UUID, periodStart, periodEnd time.Time) ([]entity.Booking, error)
	StampPayoutTx(ctx context.Context, q database.Querier, bookingIDs []uuid.UUID, payoutID uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, customer_id, professional_id, service_name,
	scheduled_start, duration_minutes, scheduled_end,
	currency, estimated_amount, authorized_amount, captured_amount, hourly_rate,
	status, payment_intent_id, payment_status, order_id,
	address, instructions,
	checked_in_at, checked_out_at, check_in_lat, check_in_lng,
	proximity_status, decline_reason, included_in_payout_id,
	created_at, updated_at
`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.ProfessionalID, &b.ServiceName,
		&b.ScheduledStart, &b.DurationMin, &b.ScheduledEnd,
		&b.Currency, &b.EstimatedAmount, &b.AuthorizedAmount, &b.CapturedAmount, &b.HourlyRate,
		&b.Status, &b.PaymentIntentID, &b.PaymentStatus, &b.OrderID,
		&b.Address, &b.Instructions,
		&b.CheckedInAt, &b.CheckedOutAt, &b.CheckInLat, &b.CheckInLng,
		&b.ProximityStatus, &b.DeclineReason, &b.IncludedInPayout,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts the booking on the given querier so the insert and the
// payment authorization commit or roll back together.
func (r *bookingRepository) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, professional_id, service_name,
			scheduled_start, duration_minutes, scheduled_end,
			currency, estimated_amount, authorized_amount, captured_amount, hourly_rate,
			status, payment_intent_id, payment_status, order_id,
			address, instructions, proximity_status, decline_reason,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := q.Exec(ctx, query,
		booking.ID, booking.CustomerID, booking.ProfessionalID, booking.ServiceName,
		booking.ScheduledStart, booking.DurationMin, booking.ScheduledEnd,
		booking.Currency, booking.EstimatedAmount, booking.AuthorizedAmount, booking.CapturedAmount, booking.HourlyRate,
		booking.Status, booking.PaymentIntentID, booking.PaymentStatus, booking.OrderID,
		booking.Address, booking.Instructions, booking.ProximityStatus, booking.DeclineReason,
		booking.CreatedAt, booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// SetPaymentIntentTx attaches the created intent. Status stays
// pending_payment until the authorization is confirmed.
func (r *bookingRepository) SetPaymentIntentTx(ctx context.Context, q database.Querier, id uuid.UUID, intentID string, amount int64) error {
	query := `
		UPDATE bookings
		SET payment_intent_id = $2, authorized_amount = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := q.Exec(ctx, query, id, intentID, amount); err != nil {
		return fmt.Errorf("attach payment intent to booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) findList(ctx context.Context, query string, args ...any) ([]entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findList(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list customer bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings for customer %s: %w", customerID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings for customer %s: %w", customerID.String(), err)
	}
	return count, nil
}

func (r *bookingRepository) FindByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE professional_id = $1
		ORDER BY scheduled_start DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findList(ctx, query, professionalID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list professional bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings for professional %s: %w", professionalID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByProfessionalID(ctx context.Context, professionalID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE professional_id = $1`, professionalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings for professional %s: %w", professionalID.String(), err)
	}
	return count, nil
}

// cas runs a guarded update and maps zero affected rows to ErrStatusConflict.
func (r *bookingRepository) cas(ctx context.Context, query string, args ...any) error {
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *bookingRepository) MarkAuthorized(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = $3, payment_status = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id,
		entity.BookingStatusPendingPayment,
		entity.BookingStatusAuthorized,
		entity.PaymentStatusAuthorized,
	)
	if err != nil {
		return fmt.Errorf("mark booking %s authorized: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) Accept(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id,
		entity.BookingStatusAuthorized,
		entity.BookingStatusConfirmed,
	)
	if err != nil {
		return fmt.Errorf("accept booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) Decline(ctx context.Context, id uuid.UUID, from entity.BookingStatus, reason string) error {
	query := `
		UPDATE bookings
		SET status = $3, decline_reason = $4, payment_status = $5, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id, from,
		entity.BookingStatusDeclined,
		reason,
		entity.PaymentStatusCanceled,
	)
	if err != nil {
		return fmt.Errorf("decline booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, from entity.BookingStatus, paymentStatus entity.PaymentStatus) error {
	query := `
		UPDATE bookings
		SET status = $3, payment_status = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id, from, entity.BookingStatusCanceled, paymentStatus)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) CheckIn(ctx context.Context, id uuid.UUID, lat, lng *float64, proximityStatus string, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $3, checked_in_at = $4, check_in_lat = $5, check_in_lng = $6,
		    proximity_status = $7, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id,
		entity.BookingStatusConfirmed,
		entity.BookingStatusInProgress,
		at, lat, lng, proximityStatus,
	)
	if err != nil {
		return fmt.Errorf("check in booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) Complete(ctx context.Context, id uuid.UUID, capturedAmount int64, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $3, payment_status = $4, captured_amount = $5,
		    checked_out_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	err := r.cas(ctx, query, id,
		entity.BookingStatusInProgress,
		entity.BookingStatusCompleted,
		entity.PaymentStatusPaid,
		capturedAmount, at,
	)
	if err != nil {
		return fmt.Errorf("complete booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error {
	query := `
		UPDATE bookings
		SET order_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, orderID); err != nil {
		return fmt.Errorf("attach order to booking %s: %w", id.String(), err)
	}

	return nil
}

// MarkPaidByOrder records a successful order capture. Guarded on payment
// status so a concurrent duplicate capture loses at the row level and can be
// reported as already captured.
func (r *bookingRepository) MarkPaidByOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	query := `
		UPDATE bookings
		SET payment_status = $2, order_id = $3, updated_at = NOW()
		WHERE id = $1 AND payment_status <> $2
	`

	err := r.cas(ctx, query, id, entity.PaymentStatusPaid, orderID)
	if err != nil {
		return fmt.Errorf("mark booking %s paid: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, entity.PaymentStatusRefunded); err != nil {
		return fmt.Errorf("mark booking %s refunded: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) HasCompletedBooking(ctx context.Context, customerID, professionalID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE customer_id = $1 AND professional_id = $2 AND status = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, customerID, professionalID, entity.BookingStatusCompleted).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check completed booking: %w", err)
	}

	return exists, nil
}

// FindPayable returns completed bookings in the period that no payout has
// claimed yet.
func (r *bookingRepository) FindPayable(ctx context.Context, professionalID uuid.UUID, periodStart, periodEnd time.Time) ([]entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE professional_id = $1
		  AND status = $2
		  AND included_in_payout_id IS NULL
		  AND checked_out_at >= $3 AND checked_out_at < $4
		ORDER BY checked_out_at
	`

	bookings, err := r.findList(ctx, query, professionalID, entity.BookingStatusCompleted, periodStart, periodEnd)
	if err != nil {
		r.log.Error("Failed to find payable bookings", zap.Error(err))
		return nil, fmt.Errorf("find payable bookings for professional %s: %w", professionalID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) StampPayoutTx(ctx context.Context, q database.Querier, bookingIDs []uuid.UUID, payoutID uuid.UUID) error {
	query := `
		UPDATE bookings
		SET included_in_payout_id = $2, updated_at = NOW()
		WHERE id = ANY($1) AND included_in_payout_id IS NULL
	`

	result, err := q.Exec(ctx, query, bookingIDs, payoutID)
	if err != nil {
		return fmt.Errorf("stamp payout %s: %w", payoutID.String(), err)
	}
	if int(result.RowsAffected()) != len(bookingIDs) {
		return fmt.Errorf("stamp payout %s: %w", payoutID.String(), ErrStatusConflict)
	}

	return nil
}
