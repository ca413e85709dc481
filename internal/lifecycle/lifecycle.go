// Package lifecycle defines the booking status graph. Repositories enforce it
// atomically with compare-and-swap updates; this package is the single place
// that says which edges exist.
package lifecycle

import (
	"fmt"

	"casaora/internal/data/entity"
)

var transitions = map[entity.BookingStatus]map[entity.BookingStatus]struct{}{
	entity.BookingStatusPendingPayment: {
		entity.BookingStatusAuthorized: {},
		entity.BookingStatusDeclined:   {},
		entity.BookingStatusCanceled:   {},
	},
	entity.BookingStatusAuthorized: {
		entity.BookingStatusConfirmed: {},
		entity.BookingStatusDeclined:  {},
		entity.BookingStatusCanceled:  {},
	},
	entity.BookingStatusConfirmed: {
		entity.BookingStatusInProgress: {},
		entity.BookingStatusCanceled:   {},
	},
	entity.BookingStatusInProgress: {
		entity.BookingStatusCompleted: {},
	},
	entity.BookingStatusCompleted: {},
	entity.BookingStatusDeclined:  {},
	entity.BookingStatusCanceled:  {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to entity.BookingStatus) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(status entity.BookingStatus) bool {
	return len(transitions[status]) == 0
}

// ErrInvalidTransition builds the user-facing error for an illegal action,
// naming the booking's current status.
func ErrInvalidTransition(action string, current entity.BookingStatus) error {
	return fmt.Errorf("cannot %s booking with status: %s", action, current)
}
