package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusAuthorized     BookingStatus = "authorized"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusInProgress     BookingStatus = "in_progress"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusDeclined       BookingStatus = "declined"
	BookingStatusCanceled       BookingStatus = "canceled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid     PaymentStatus = "unpaid"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Booking is one requested service engagement. Status is the single source
// of truth for which actions are currently legal.
type Booking struct {
	Base
	CustomerID     uuid.UUID     `db:"customer_id"`
	ProfessionalID uuid.UUID     `db:"professional_id"`
	ServiceName    string        `db:"service_name"`
	ScheduledStart time.Time     `db:"scheduled_start"`
	DurationMin    int           `db:"duration_minutes"`
	ScheduledEnd   time.Time     `db:"scheduled_end"`

	Currency         string `db:"currency"`
	EstimatedAmount  int64  `db:"estimated_amount"`
	AuthorizedAmount int64  `db:"authorized_amount"`
	CapturedAmount   int64  `db:"captured_amount"`
	HourlyRate       int64  `db:"hourly_rate"`

	Status BookingStatus `db:"status"`

	PaymentIntentID string        `db:"payment_intent_id"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	OrderID         string        `db:"order_id"`

	Address      json.RawMessage `db:"address"`
	Instructions string          `db:"instructions"`

	CheckedInAt      *time.Time `db:"checked_in_at"`
	CheckedOutAt     *time.Time `db:"checked_out_at"`
	CheckInLat       *float64   `db:"check_in_lat"`
	CheckInLng       *float64   `db:"check_in_lng"`
	ProximityStatus  string     `db:"proximity_status"`
	DeclineReason    string     `db:"decline_reason"`
	IncludedInPayout *uuid.UUID `db:"included_in_payout_id"`
}
