package entity

import (
	"github.com/google/uuid"
)

type FeedbackSubmission struct {
	BaseSimple
	UserID   *uuid.UUID `db:"user_id"`
	Category string     `db:"category"`
	Message  string     `db:"message"`
}
