package request

import "encoding/json"

type UpsertProfileRequest struct {
	Slug           string          `json:"slug" validate:"required,min=3,max=60"`
	DisplayName    string          `json:"display_name" validate:"required,min=2,max=100"`
	ServiceName    string          `json:"service_name" validate:"required,min=2,max=100"`
	HourlyRate     int64           `json:"hourly_rate" validate:"required,min=1"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	Bio            string          `json:"bio" validate:"max=2000"`
	ServiceAddress json.RawMessage `json:"service_address"`
	IsActive       *bool           `json:"is_active"`
}
