package usecase

import (
	"testing"
	"time"

	"casaora/internal/data/entity"
)

func TestPayoutPeriod(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 42, 7, 0, time.UTC)

	start, end := PayoutPeriod(now, 7)

	wantEnd := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	wantStart := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	if !end.Equal(wantEnd) {
		t.Errorf("period end = %v, want %v", end, wantEnd)
	}
	if !start.Equal(wantStart) {
		t.Errorf("period start = %v, want %v", start, wantStart)
	}
}

func TestPayoutPeriodNonUTCInput(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 15, 22, 30, 0, 0, loc) // 03:30 next day UTC

	_, end := PayoutPeriod(now, 7)

	wantEnd := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if !end.Equal(wantEnd) {
		t.Errorf("period end = %v, want %v", end, wantEnd)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	gross, commission, net, count := Summarize(nil, 0.15)

	if gross != 0 || commission != 0 || net != 0 || count != 0 {
		t.Errorf("empty summary = (%d, %d, %d, %d), want zeros", gross, commission, net, count)
	}
}

func TestSummarize(t *testing.T) {
	bookings := []entity.Booking{
		{CapturedAmount: 100000},
		{CapturedAmount: 45000},
		{CapturedAmount: 75000},
	}

	gross, commission, net, count := Summarize(bookings, 0.15)

	if gross != 220000 {
		t.Errorf("gross = %d, want 220000", gross)
	}
	if commission != 33000 {
		t.Errorf("commission = %d, want 33000", commission)
	}
	if net != 187000 {
		t.Errorf("net = %d, want 187000", net)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	a := []entity.Booking{{CapturedAmount: 33333}, {CapturedAmount: 66667}, {CapturedAmount: 10000}}
	b := []entity.Booking{{CapturedAmount: 10000}, {CapturedAmount: 33333}, {CapturedAmount: 66667}}

	grossA, commA, netA, _ := Summarize(a, 0.15)
	grossB, commB, netB, _ := Summarize(b, 0.15)

	if grossA != grossB || commA != commB || netA != netB {
		t.Errorf("summaries differ by order: (%d,%d,%d) vs (%d,%d,%d)",
			grossA, commA, netA, grossB, commB, netB)
	}
}

func TestSummarizeCommissionRounding(t *testing.T) {
	bookings := []entity.Booking{{CapturedAmount: 33335}}

	gross, commission, net, _ := Summarize(bookings, 0.15)

	// 33335 * 0.15 = 5000.25, rounds to 5000
	if commission != 5000 {
		t.Errorf("commission = %d, want 5000", commission)
	}
	if net != gross-commission {
		t.Errorf("net %d does not equal gross %d minus commission %d", net, gross, commission)
	}
}
