package lifecycle

import (
	"testing"

	"casaora/internal/data/entity"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(entity.BookingStatusPendingPayment, entity.BookingStatusAuthorized) {
		t.Fatal("expected pending_payment -> authorized to be allowed")
	}
	if !CanTransition(entity.BookingStatusAuthorized, entity.BookingStatusConfirmed) {
		t.Fatal("expected authorized -> confirmed to be allowed")
	}
	if !CanTransition(entity.BookingStatusPendingPayment, entity.BookingStatusDeclined) {
		t.Fatal("expected pending_payment -> declined to be allowed")
	}
	if !CanTransition(entity.BookingStatusConfirmed, entity.BookingStatusInProgress) {
		t.Fatal("expected confirmed -> in_progress to be allowed")
	}
	if !CanTransition(entity.BookingStatusInProgress, entity.BookingStatusCompleted) {
		t.Fatal("expected in_progress -> completed to be allowed")
	}
	if CanTransition(entity.BookingStatusPendingPayment, entity.BookingStatusConfirmed) {
		t.Fatal("unexpected transition allowed: pending_payment -> confirmed")
	}
	if CanTransition(entity.BookingStatusCompleted, entity.BookingStatusDeclined) {
		t.Fatal("unexpected transition allowed: completed -> declined")
	}
	if CanTransition(entity.BookingStatusInProgress, entity.BookingStatusCanceled) {
		t.Fatal("unexpected transition allowed: in_progress -> canceled")
	}
	if CanTransition(entity.BookingStatusCompleted, entity.BookingStatusCompleted) {
		t.Fatal("self transition must not be allowed")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []entity.BookingStatus{
		entity.BookingStatusCompleted,
		entity.BookingStatusDeclined,
		entity.BookingStatusCanceled,
	} {
		if !IsTerminal(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	if IsTerminal(entity.BookingStatusConfirmed) {
		t.Fatal("confirmed must not be terminal")
	}
}
