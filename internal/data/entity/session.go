package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	Role      string    `db:"role"` // joined from users on lookup
	ExpiresAt time.Time `db:"expires_at"`
}
