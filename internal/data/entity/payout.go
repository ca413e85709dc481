package entity

import (
	"time"

	"github.com/google/uuid"
)

type BalanceStatus string

const (
	BalanceStatusPending   BalanceStatus = "pending"
	BalanceStatusAvailable BalanceStatus = "available"
	BalanceStatusPaidOut   BalanceStatus = "paid_out"
)

// BalanceEntry is one completed booking's earnings, held for the clearance
// period before it becomes available for payout.
type BalanceEntry struct {
	BaseSimple
	ProfessionalID uuid.UUID     `db:"professional_id"`
	BookingID      uuid.UUID     `db:"booking_id"`
	Amount         int64         `db:"amount"`
	Currency       string        `db:"currency"`
	Status         BalanceStatus `db:"status"`
	AvailableAt    time.Time     `db:"available_at"`
}

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
)

// Payout rows exist only once a payout run executes.
type Payout struct {
	Base
	ProfessionalID   uuid.UUID    `db:"professional_id"`
	PeriodStart      time.Time    `db:"period_start"`
	PeriodEnd        time.Time    `db:"period_end"`
	GrossAmount      int64        `db:"gross_amount"`
	CommissionAmount int64        `db:"commission_amount"`
	NetAmount        int64        `db:"net_amount"`
	Currency         string       `db:"currency"`
	BookingCount     int          `db:"booking_count"`
	Status           PayoutStatus `db:"status"`
}
