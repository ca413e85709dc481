package response

import (
	"time"

	"casaora/internal/data/entity"
)

type FeedbackResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func FeedbackToResponse(f *entity.FeedbackSubmission) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID.String(),
		Category:  f.Category,
		Message:   f.Message,
		CreatedAt: f.CreatedAt,
	}
}
