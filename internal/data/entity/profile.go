package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ProfessionalProfile is the public face of a professional: vanity slug,
// pricing, and the service address used for check-in geofencing.
type ProfessionalProfile struct {
	Base
	UserID          uuid.UUID       `db:"user_id"`
	Slug            string          `db:"slug"`
	DisplayName     string          `db:"display_name"`
	ServiceName     string          `db:"service_name"`
	HourlyRate      int64           `db:"hourly_rate"`
	Currency        string          `db:"currency"`
	Bio             string          `db:"bio"`
	ServiceAddress  json.RawMessage `db:"service_address"`
	IsActive        bool            `db:"is_active"`
}
