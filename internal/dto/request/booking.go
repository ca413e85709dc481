package request

import "encoding/json"

type CreateBookingRequest struct {
	ProfessionalID  string          `json:"professional_id" validate:"required,uuid4"`
	ScheduledStart  string          `json:"scheduled_start" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=30,max=720"`
	Address         json.RawMessage `json:"address" validate:"required"`
	Instructions    string          `json:"instructions" validate:"max=2000"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type CheckInRequest struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}

// RebookRequest reuses a past booking's professional and address with a new
// time slot.
type RebookRequest struct {
	ScheduledStart  string `json:"scheduled_start" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=30,max=720"`
}
