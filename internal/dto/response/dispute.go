package response

import (
	"time"

	"casaora/internal/data/entity"
)

type DisputeResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	RaisedBy  string `json:"raised_by"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`

	ResolutionType   string     `json:"resolution_type,omitempty"`
	ResolutionAction string     `json:"resolution_action,omitempty"`
	ResolvedBy       string     `json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func DisputeToResponse(d *entity.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:               d.ID.String(),
		BookingID:        d.BookingID.String(),
		RaisedBy:         d.RaisedBy.String(),
		Reason:           d.Reason,
		Status:           string(d.Status),
		ResolutionType:   d.ResolutionType,
		ResolutionAction: d.ResolutionAction,
		ResolvedAt:       d.ResolvedAt,
		CreatedAt:        d.CreatedAt,
	}
	if d.ResolvedBy != nil {
		resp.ResolvedBy = d.ResolvedBy.String()
	}
	return resp
}
