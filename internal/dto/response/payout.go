package response

import (
	"time"

	"casaora/internal/data/entity"
)

type BalanceResponse struct {
	PendingAmount   int64  `json:"pending_amount"`
	AvailableAmount int64  `json:"available_amount"`
	Currency        string `json:"currency"`
}

type PayoutResponse struct {
	ID               string    `json:"id"`
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	GrossAmount      int64     `json:"gross_amount"`
	CommissionAmount int64     `json:"commission_amount"`
	NetAmount        int64     `json:"net_amount"`
	Currency         string    `json:"currency"`
	BookingCount     int       `json:"booking_count"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func PayoutToResponse(p *entity.Payout) PayoutResponse {
	return PayoutResponse{
		ID:               p.ID.String(),
		PeriodStart:      p.PeriodStart,
		PeriodEnd:        p.PeriodEnd,
		GrossAmount:      p.GrossAmount,
		CommissionAmount: p.CommissionAmount,
		NetAmount:        p.NetAmount,
		Currency:         p.Currency,
		BookingCount:     p.BookingCount,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
	}
}

// PayoutSummaryResponse previews the current period before any payout row
// exists.
type PayoutSummaryResponse struct {
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	GrossAmount      int64     `json:"gross_amount"`
	CommissionAmount int64     `json:"commission_amount"`
	NetAmount        int64     `json:"net_amount"`
	Currency         string    `json:"currency"`
	BookingCount     int       `json:"booking_count"`
}

// PendingPayoutsResponse bundles what the professional dashboard shows in one
// call: the live balance, the current-period preview and recent payouts.
type PendingPayoutsResponse struct {
	Balance       *BalanceResponse       `json:"balance"`
	CurrentPeriod *PayoutSummaryResponse `json:"current_period"`
	RecentPayouts []PayoutResponse       `json:"recent_payouts"`
}

// ClearBalancesResult is the outcome of one balance-clearance run.
type ClearBalancesResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
