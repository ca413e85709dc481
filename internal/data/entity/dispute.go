package entity

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

const (
	ResolutionRefund     = "refund"
	ResolutionWarning    = "warning"
	ResolutionSuspension = "suspension"
	ResolutionNoAction   = "no_action"
)

type Dispute struct {
	Base
	BookingID        uuid.UUID     `db:"booking_id"`
	RaisedBy         uuid.UUID     `db:"raised_by"`
	Reason           string        `db:"reason"`
	Status           DisputeStatus `db:"status"`
	ResolutionType   string        `db:"resolution_type"`
	ResolutionAction string        `db:"resolution_action"`
	ResolvedBy       *uuid.UUID    `db:"resolved_by"`
	ResolvedAt       *time.Time    `db:"resolved_at"`
	SuspensionID     *uuid.UUID    `db:"suspension_id"`
	ModerationFlagID *uuid.UUID    `db:"moderation_flag_id"`
}

type ModerationFlag struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	DisputeID uuid.UUID `db:"dispute_id"`
	Reason    string    `db:"reason"`
}

type UserSuspension struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	DisputeID uuid.UUID `db:"dispute_id"`
	Reason    string    `db:"reason"`
	Until     time.Time `db:"until"`
}
