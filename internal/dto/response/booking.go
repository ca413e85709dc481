package response

import (
	"encoding/json"
	"time"

	"casaora/internal/data/entity"
)

type BookingResponse struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customer_id"`
	ProfessionalID string `json:"professional_id"`
	ServiceName    string `json:"service_name"`

	ScheduledStart  time.Time `json:"scheduled_start"`
	ScheduledEnd    time.Time `json:"scheduled_end"`
	DurationMinutes int       `json:"duration_minutes"`

	Currency         string `json:"currency"`
	EstimatedAmount  int64  `json:"estimated_amount"`
	AuthorizedAmount int64  `json:"authorized_amount,omitempty"`
	CapturedAmount   int64  `json:"captured_amount,omitempty"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	Address      json.RawMessage `json:"address,omitempty"`
	Instructions string          `json:"instructions,omitempty"`

	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time `json:"checked_out_at,omitempty"`
	ProximityStatus string     `json:"proximity_status,omitempty"`
	DeclineReason   string     `json:"decline_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		CustomerID:      b.CustomerID.String(),
		ProfessionalID:  b.ProfessionalID.String(),
		ServiceName:     b.ServiceName,
		ScheduledStart:  b.ScheduledStart,
		ScheduledEnd:    b.ScheduledEnd,
		DurationMinutes: b.DurationMin,
		Currency:        b.Currency,
		EstimatedAmount: b.EstimatedAmount,
		AuthorizedAmount: b.AuthorizedAmount,
		CapturedAmount:   b.CapturedAmount,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		Address:         b.Address,
		Instructions:    b.Instructions,
		CheckedInAt:     b.CheckedInAt,
		CheckedOutAt:    b.CheckedOutAt,
		ProximityStatus: b.ProximityStatus,
		DeclineReason:   b.DeclineReason,
		CreatedAt:       b.CreatedAt,
	}
}

// CreateBookingResponse carries the client secret the frontend needs to
// complete the payment authorization.
type CreateBookingResponse struct {
	Booking             BookingResponse `json:"booking"`
	PaymentIntentID     string          `json:"payment_intent_id"`
	PaymentClientSecret string          `json:"payment_client_secret"`
}

// CheckInResponse reports the proximity outcome alongside the booking.
type CheckInResponse struct {
	Booking         BookingResponse `json:"booking"`
	ProximityStatus string          `json:"proximity_status"`
	DistanceMeters  float64         `json:"distance_meters,omitempty"`
	MaxMeters       float64         `json:"max_meters"`
}
