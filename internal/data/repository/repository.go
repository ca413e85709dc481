package repository

import (
	"errors"

	"casaora/pkg/database"

	"go.uber.org/zap"
)

// ErrStatusConflict is returned when a compare-and-swap status update hits
// zero rows: another request changed the booking first.
var ErrStatusConflict = errors.New("booking was modified concurrently")

type Repository struct {
	DB database.PgxIface

	User     UserRepository
	Session  SessionRepository
	Profile  ProfileRepository
	Booking  BookingRepository
	Balance  BalanceRepository
	Payout   PayoutRepository
	Dispute  DisputeRepository
	Review   ReviewRepository
	Feedback FeedbackRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:       db,
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Profile:  NewProfileRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Balance:  NewBalanceRepository(db, log),
		Payout:   NewPayoutRepository(db, log),
		Dispute:  NewDisputeRepository(db, log),
		Review:   NewReviewRepository(db, log),
		Feedback: NewFeedbackRepository(db, log),
	}
}
