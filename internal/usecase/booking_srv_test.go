package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/internal/payments"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== STUBS ====================

type stubBookingRepo struct {
	repository.BookingRepository

	findByID      func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	declined      int
	checkedIn     int
	completed     int
	refunded      int
	lastProximity string
	declineFunc   func(ctx context.Context, id uuid.UUID, from entity.BookingStatus, reason string) error
}

func (s *stubBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return s.findByID(ctx, id)
}

func (s *stubBookingRepo) Decline(ctx context.Context, id uuid.UUID, from entity.BookingStatus, reason string) error {
	s.declined++
	if s.declineFunc != nil {
		return s.declineFunc(ctx, id, from, reason)
	}
	return nil
}

func (s *stubBookingRepo) CheckIn(ctx context.Context, id uuid.UUID, lat, lng *float64, proximityStatus string, at time.Time) error {
	s.checkedIn++
	s.lastProximity = proximityStatus
	return nil
}

func (s *stubBookingRepo) Complete(ctx context.Context, id uuid.UUID, capturedAmount int64, at time.Time) error {
	s.completed++
	return nil
}

func (s *stubBookingRepo) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	s.refunded++
	return nil
}

type stubIntents struct {
	IntentProcessor

	cancelCalls int
	cancelErr   error
	refundCalls int
	refundErr   error
}

func (s *stubIntents) Cancel(ctx context.Context, intentID string) error {
	s.cancelCalls++
	return s.cancelErr
}

func (s *stubIntents) Refund(ctx context.Context, intentID string, amountMinor int64) (*payments.Intent, error) {
	s.refundCalls++
	if s.refundErr != nil {
		return nil, s.refundErr
	}
	return &payments.Intent{ID: intentID, Status: payments.IntentStatusSucceeded}, nil
}

type stubEvents struct {
	published []string
}

func (s *stubEvents) Publish(ctx context.Context, routingKey string, data any) {
	s.published = append(s.published, routingKey)
}

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			Currency:            "COP",
			MinAmount:           20000,
			CommissionRate:      0.15,
			ClearanceHours:      24,
			PayoutPeriodDays:    7,
			MaxCheckInDistanceM: 150,
		},
	}
}

// ==================== TESTS ====================

func TestDeriveAmount(t *testing.T) {
	tests := []struct {
		name        string
		rate        int64
		durationMin int
		minAmount   int64
		want        int64
	}{
		{"two hours at standard rate", 50000, 120, 20000, 100000},
		{"half hour floors at minimum", 30000, 30, 20000, 20000},
		{"exactly one hour", 45000, 60, 20000, 45000},
		{"rounding on partial hours", 50000, 90, 20000, 75000},
		{"45 minutes rounds to nearest unit", 41000, 45, 20000, 30750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveAmount(tt.rate, tt.durationMin, tt.minAmount)
			if got != tt.want {
				t.Errorf("deriveAmount(%d, %d, %d) = %d, want %d",
					tt.rate, tt.durationMin, tt.minAmount, got, tt.want)
			}
		})
	}
}

func TestDeclineCompletedBookingDoesNotMutate(t *testing.T) {
	professionalID := uuid.New()
	bookingID := uuid.New()

	booking := &entity.Booking{
		Base:            entity.Base{ID: bookingID},
		CustomerID:      uuid.New(),
		ProfessionalID:  professionalID,
		Status:          entity.BookingStatusCompleted,
		PaymentStatus:   entity.PaymentStatusPaid,
		PaymentIntentID: "pi_123",
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	intents := &stubIntents{}
	publisher := &stubEvents{}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), intents, publisher, zap.NewNop(),
	)

	_, err := svc.DeclineBooking(context.Background(), professionalID.String(), bookingID.String(),
		&request.DeclineBookingRequest{Reason: "no longer available"})

	if err == nil {
		t.Fatal("expected error declining a completed booking")
	}
	if !strings.Contains(err.Error(), "cannot decline") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), string(entity.BookingStatusCompleted)) {
		t.Errorf("error should name the current status, got: %v", err)
	}
	if bookingRepo.declined != 0 {
		t.Errorf("decline must not write, got %d writes", bookingRepo.declined)
	}
	if intents.cancelCalls != 0 {
		t.Errorf("payment hold must not be released, got %d cancel calls", intents.cancelCalls)
	}
	if len(publisher.published) != 0 {
		t.Errorf("no events should fire, got %v", publisher.published)
	}
}

func TestDeclineForbiddenForOtherProfessional(t *testing.T) {
	bookingID := uuid.New()
	booking := &entity.Booking{
		Base:           entity.Base{ID: bookingID},
		CustomerID:     uuid.New(),
		ProfessionalID: uuid.New(),
		Status:         entity.BookingStatusAuthorized,
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), &stubIntents{}, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.DeclineBooking(context.Background(), uuid.New().String(), bookingID.String(),
		&request.DeclineBookingRequest{Reason: "not mine"})

	if err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Fatalf("expected forbidden error, got: %v", err)
	}
	if bookingRepo.declined != 0 {
		t.Errorf("decline must not write for a foreign booking")
	}
}

func TestRebookRequiresCompletedSource(t *testing.T) {
	customerID := uuid.New()
	bookingID := uuid.New()

	booking := &entity.Booking{
		Base:           entity.Base{ID: bookingID},
		CustomerID:     customerID,
		ProfessionalID: uuid.New(),
		Status:         entity.BookingStatusPendingPayment,
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}

	// Profile repo is absent on purpose: a rebook from a non-completed
	// booking must fail before any professional lookup.
	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), &stubIntents{}, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.Rebook(context.Background(), customerID.String(), bookingID.String(),
		&request.RebookRequest{ScheduledStart: "2030-01-15T10:00:00Z", DurationMinutes: 120})

	if err == nil {
		t.Fatal("expected error rebooking from a pending_payment source")
	}
	if !strings.Contains(err.Error(), "cannot rebook") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), string(entity.BookingStatusPendingPayment)) {
		t.Errorf("error should name the source status, got: %v", err)
	}
}

func TestDeclinePendingPaymentReleasesUnconfirmedIntent(t *testing.T) {
	professionalID := uuid.New()
	bookingID := uuid.New()

	// The intent exists but was never confirmed; declining must still cancel
	// it or the customer could confirm a hold against a dead booking.
	booking := &entity.Booking{
		Base:            entity.Base{ID: bookingID},
		CustomerID:      uuid.New(),
		ProfessionalID:  professionalID,
		Status:          entity.BookingStatusPendingPayment,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		PaymentIntentID: "pi_unconfirmed",
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	intents := &stubIntents{}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), intents, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.DeclineBooking(context.Background(), professionalID.String(), bookingID.String(),
		&request.DeclineBookingRequest{Reason: "schedule conflict"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookingRepo.declined != 1 {
		t.Errorf("expected one decline write, got %d", bookingRepo.declined)
	}
	if intents.cancelCalls != 1 {
		t.Errorf("unconfirmed intent must be canceled, got %d cancel calls", intents.cancelCalls)
	}
}

func TestCheckInRejectsInvalidLatitude(t *testing.T) {
	professionalID := uuid.New()
	bookingID := uuid.New()

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			t.Fatal("booking must not be loaded for invalid coordinates")
			return nil, nil
		},
	}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), &stubIntents{}, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.CheckIn(context.Background(), professionalID.String(), bookingID.String(),
		&request.CheckInRequest{Lat: 91.0, Lng: -74.08})

	if err == nil {
		t.Fatal("expected error for latitude out of range")
	}
	if bookingRepo.checkedIn != 0 {
		t.Errorf("check-in must not write for invalid coordinates")
	}
}

func TestCheckInSkipsVerificationWithoutAddressCoordinates(t *testing.T) {
	professionalID := uuid.New()
	bookingID := uuid.New()

	booking := &entity.Booking{
		Base:           entity.Base{ID: bookingID},
		CustomerID:     uuid.New(),
		ProfessionalID: professionalID,
		Status:         entity.BookingStatusConfirmed,
		Address:        []byte(`{"street":"Calle 93 #11-27","city":"Bogota"}`),
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	publisher := &stubEvents{}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), &stubIntents{}, publisher, zap.NewNop(),
	)

	resp, err := svc.CheckIn(context.Background(), professionalID.String(), bookingID.String(),
		&request.CheckInRequest{Lat: 4.6761, Lng: -74.0486})

	if err != nil {
		t.Fatalf("check-in without address coordinates must fail open: %v", err)
	}
	if resp.ProximityStatus != "skipped" {
		t.Errorf("proximity status = %s, want skipped", resp.ProximityStatus)
	}
	if bookingRepo.checkedIn != 1 {
		t.Errorf("expected exactly one check-in write, got %d", bookingRepo.checkedIn)
	}
}

func TestCheckInOutsideGeofenceRecordsRejectionButProceeds(t *testing.T) {
	professionalID := uuid.New()
	bookingID := uuid.New()

	// Service address in Bogota, check-in from Medellin.
	booking := &entity.Booking{
		Base:           entity.Base{ID: bookingID},
		CustomerID:     uuid.New(),
		ProfessionalID: professionalID,
		Status:         entity.BookingStatusConfirmed,
		Address:        []byte(`{"lat":4.6761,"lng":-74.0486}`),
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	publisher := &stubEvents{}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), &stubIntents{}, publisher, zap.NewNop(),
	)

	resp, err := svc.CheckIn(context.Background(), professionalID.String(), bookingID.String(),
		&request.CheckInRequest{Lat: 6.2442, Lng: -75.5812})

	if err != nil {
		t.Fatalf("rejected proximity must not block the check-in: %v", err)
	}
	if resp.ProximityStatus != "rejected" {
		t.Errorf("proximity status = %s, want rejected", resp.ProximityStatus)
	}
	if resp.DistanceMeters <= testConfig().Booking.MaxCheckInDistanceM {
		t.Errorf("distance %.0f m should exceed the geofence", resp.DistanceMeters)
	}
	if bookingRepo.checkedIn != 1 {
		t.Errorf("expected exactly one check-in write, got %d", bookingRepo.checkedIn)
	}
	if bookingRepo.lastProximity != "rejected" {
		t.Errorf("recorded proximity = %s, want rejected", bookingRepo.lastProximity)
	}
	if len(publisher.published) != 1 {
		t.Errorf("check-in event should still fire, got %v", publisher.published)
	}
}

func TestConfirmPaymentIdempotentWhenAlreadyAuthorized(t *testing.T) {
	customerID := uuid.New()
	bookingID := uuid.New()

	booking := &entity.Booking{
		Base:            entity.Base{ID: bookingID},
		CustomerID:      customerID,
		ProfessionalID:  uuid.New(),
		Status:          entity.BookingStatusAuthorized,
		PaymentStatus:   entity.PaymentStatusAuthorized,
		PaymentIntentID: "pi_123",
	}

	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}

	retrieveCalled := false
	intents := &retrieveStub{retrieve: func(ctx context.Context, intentID string) (*payments.Intent, error) {
		retrieveCalled = true
		return nil, nil
	}}

	svc := NewBookingService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), intents, &stubEvents{}, zap.NewNop(),
	)

	resp, err := svc.ConfirmPayment(context.Background(), customerID.String(), bookingID.String())
	if err != nil {
		t.Fatalf("repeat confirmation should succeed: %v", err)
	}
	if resp.Status != string(entity.BookingStatusAuthorized) {
		t.Errorf("status = %s, want authorized", resp.Status)
	}
	if retrieveCalled {
		t.Error("processor must not be consulted when already authorized")
	}
}

type retrieveStub struct {
	IntentProcessor
	retrieve func(ctx context.Context, intentID string) (*payments.Intent, error)
}

func (s *retrieveStub) Retrieve(ctx context.Context, intentID string) (*payments.Intent, error) {
	return s.retrieve(ctx, intentID)
}
