package response

import (
	"time"

	"casaora/internal/data/entity"
)

type ReviewResponse struct {
	ID             string    `json:"id"`
	ProfessionalID string    `json:"professional_id"`
	CustomerID     string    `json:"customer_id"`
	BookingID      string    `json:"booking_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func ReviewToResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID.String(),
		ProfessionalID: r.ProfessionalID.String(),
		CustomerID:     r.CustomerID.String(),
		BookingID:      r.BookingID.String(),
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
	}
}
