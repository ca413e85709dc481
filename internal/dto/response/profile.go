package response

import (
	"encoding/json"
	"time"

	"casaora/internal/data/entity"
)

type ProfileResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	ServiceName string `json:"service_name"`
	HourlyRate  int64  `json:"hourly_rate"`
	Currency    string `json:"currency"`
	Bio         string `json:"bio,omitempty"`

	ServiceAddress json.RawMessage `json:"service_address,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

func ProfileToResponse(p *entity.ProfessionalProfile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID.String(),
		UserID:         p.UserID.String(),
		Slug:           p.Slug,
		DisplayName:    p.DisplayName,
		ServiceName:    p.ServiceName,
		HourlyRate:     p.HourlyRate,
		Currency:       p.Currency,
		Bio:            p.Bio,
		ServiceAddress: p.ServiceAddress,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
	}
}

// PublicProfileToResponse drops the service address; only check-in
// verification may see it.
func PublicProfileToResponse(p *entity.ProfessionalProfile) ProfileResponse {
	resp := ProfileToResponse(p)
	resp.ServiceAddress = nil
	return resp
}
