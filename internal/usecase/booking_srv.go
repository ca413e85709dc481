package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/internal/dto/response"
	"casaora/internal/events"
	"casaora/internal/geo"
	"casaora/internal/lifecycle"
	"casaora/internal/payments"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Customer
	CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	ConfirmPayment(ctx context.Context, customerID, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, customerID, bookingID string) (*response.BookingResponse, error)
	Rebook(ctx context.Context, customerID, bookingID string, req *request.RebookRequest) (*response.CreateBookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Professional
	AcceptBooking(ctx context.Context, professionalID, bookingID string) (*response.BookingResponse, error)
	DeclineBooking(ctx context.Context, professionalID, bookingID string, req *request.DeclineBookingRequest) (*response.BookingResponse, error)
	CheckIn(ctx context.Context, professionalID, bookingID string, req *request.CheckInRequest) (*response.CheckInResponse, error)
	CompleteBooking(ctx context.Context, professionalID, bookingID string) (*response.BookingResponse, error)
	GetProfessionalBookings(ctx context.Context, professionalID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Shared
	GetBooking(ctx context.Context, userID, role, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	config  *utils.Config
	intents IntentProcessor
	events  EventPublisher
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, intents IntentProcessor, publisher EventPublisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		config:  config,
		intents: intents,
		events:  publisher,
		log:     log.With(zap.String("service", "booking")),
	}
}

// intentCancelable reports whether the booking carries an intent that has not
// been captured or already canceled. Both unconfirmed and held intents must be
// canceled when the booking dies.
func intentCancelable(booking *entity.Booking) bool {
	if booking.PaymentIntentID == "" {
		return false
	}
	return booking.PaymentStatus == entity.PaymentStatusUnpaid ||
		booking.PaymentStatus == entity.PaymentStatusAuthorized
}

// deriveAmount estimates the charge from the hourly rate and duration,
// floored at the marketplace minimum.
func deriveAmount(hourlyRate int64, durationMin int, minAmount int64) int64 {
	amount := int64(math.Round(float64(hourlyRate) * float64(durationMin) / 60.0))
	if amount < minAmount {
		return minAmount
	}
	return amount
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", customerID, err)
	}

	profileID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid professional ID format %s: %w", req.ProfessionalID, err)
	}

	profile, err := s.repo.Profile.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("find professional: %w", err)
	}
	if profile == nil || !profile.IsActive {
		return nil, fmt.Errorf("professional %s not found", req.ProfessionalID)
	}
	if profile.UserID == customerUUID {
		return nil, fmt.Errorf("cannot book your own services")
	}

	start, err := time.Parse(time.RFC3339, req.ScheduledStart)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled_start, expected RFC 3339: %w", err)
	}
	if start.Before(time.Now()) {
		return nil, fmt.Errorf("cannot book a slot in the past")
	}

	amount := deriveAmount(profile.HourlyRate, req.DurationMinutes, s.config.Booking.MinAmount)
	currency := profile.Currency
	if currency == "" {
		currency = s.config.Booking.Currency
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerID:      customerUUID,
		ProfessionalID:  profile.UserID,
		ServiceName:     profile.ServiceName,
		ScheduledStart:  start,
		DurationMin:     req.DurationMinutes,
		ScheduledEnd:    start.Add(time.Duration(req.DurationMinutes) * time.Minute),
		Currency:        currency,
		EstimatedAmount: amount,
		HourlyRate:      profile.HourlyRate,
		Status:          entity.BookingStatusPendingPayment,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		Address:         req.Address,
		Instructions:    req.Instructions,
	}

	// Insert and authorize inside one transaction: if the processor refuses
	// the hold, the booking row never lands.
	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Booking.CreateTx(ctx, tx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	intent, err := s.intents.Authorize(ctx, payments.AuthorizeRequest{
		AmountMinor: amount,
		Currency:    currency,
		CustomerRef: customerUUID.String(),
		Metadata: map[string]string{
			"booking_id": booking.ID.String(),
		},
	})
	if err != nil {
		s.log.Error("Payment authorization failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, fmt.Errorf("authorize payment: %w", err)
	}

	if err := s.repo.Booking.SetPaymentIntentTx(ctx, tx, booking.ID, intent.ID, amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	booking.PaymentIntentID = intent.ID
	booking.AuthorizedAmount = amount

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("customer_id", customerID),
		zap.String("professional_id", profile.UserID.String()),
		zap.Int64("estimated_amount", amount),
		zap.String("intent_id", intent.ID),
	)

	return &response.CreateBookingResponse{
		Booking:             response.BookingToResponse(booking),
		PaymentIntentID:     intent.ID,
		PaymentClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmPayment checks the intent with the processor and moves the booking
// to authorized. Safe to call repeatedly.
func (s *bookingService) ConfirmPayment(ctx context.Context, customerID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.ownedByCustomer(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusAuthorized {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}
	if booking.Status != entity.BookingStatusPendingPayment {
		return nil, lifecycle.ErrInvalidTransition("confirm payment for", booking.Status)
	}
	if booking.PaymentIntentID == "" {
		return nil, fmt.Errorf("booking %s has no payment intent", bookingID)
	}

	intent, err := s.intents.Retrieve(ctx, booking.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if !intent.Held() {
		return nil, fmt.Errorf("cannot confirm payment: intent status is %s", intent.Status)
	}

	if err := s.repo.Booking.MarkAuthorized(ctx, booking.ID); err != nil {
		return nil, err
	}

	s.log.Info("Booking payment authorized",
		zap.String("booking_id", bookingID),
		zap.String("intent_id", booking.PaymentIntentID),
	)

	return s.freshResponse(ctx, booking.ID)
}

func (s *bookingService) AcceptBooking(ctx context.Context, professionalID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.ownedByProfessional(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(booking.Status, entity.BookingStatusConfirmed) {
		return nil, lifecycle.ErrInvalidTransition("accept", booking.Status)
	}

	if err := s.repo.Booking.Accept(ctx, booking.ID); err != nil {
		return nil, err
	}

	s.log.Info("Booking accepted", zap.String("booking_id", bookingID))
	s.events.Publish(ctx, events.BookingAccepted, map[string]string{
		"booking_id":  bookingID,
		"customer_id": booking.CustomerID.String(),
	})

	return s.freshResponse(ctx, booking.ID)
}

func (s *bookingService) DeclineBooking(ctx context.Context, professionalID, bookingID string, req *request.DeclineBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.ownedByProfessional(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(booking.Status, entity.BookingStatusDeclined) {
		return nil, lifecycle.ErrInvalidTransition("decline", booking.Status)
	}

	if err := s.repo.Booking.Decline(ctx, booking.ID, booking.Status, req.Reason); err != nil {
		return nil, err
	}

	// Cancel the intent only after the decline committed. An unconfirmed
	// intent is canceled too, or the customer could still confirm it against
	// a dead booking. A failed release is logged and retried by
	// reconciliation, never surfaced to the caller.
	if intentCancelable(booking) {
		if err := s.intents.Cancel(ctx, booking.PaymentIntentID); err != nil {
			s.log.Error("Failed to release payment hold",
				zap.Error(err),
				zap.String("booking_id", bookingID),
				zap.String("intent_id", booking.PaymentIntentID),
			)
		}
	}

	s.log.Info("Booking declined",
		zap.String("booking_id", bookingID),
		zap.String("reason", req.Reason),
	)
	s.events.Publish(ctx, events.BookingDeclined, map[string]string{
		"booking_id":  bookingID,
		"customer_id": booking.CustomerID.String(),
		"reason":      req.Reason,
	})

	return s.freshResponse(ctx, booking.ID)
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.ownedByCustomer(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(booking.Status, entity.BookingStatusCanceled) {
		return nil, lifecycle.ErrInvalidTransition("cancel", booking.Status)
	}

	paymentStatus := booking.PaymentStatus
	if intentCancelable(booking) {
		paymentStatus = entity.PaymentStatusCanceled
	}

	if err := s.repo.Booking.Cancel(ctx, booking.ID, booking.Status, paymentStatus); err != nil {
		return nil, err
	}

	if intentCancelable(booking) {
		if err := s.intents.Cancel(ctx, booking.PaymentIntentID); err != nil {
			s.log.Error("Failed to release payment hold",
				zap.Error(err),
				zap.String("booking_id", bookingID),
				zap.String("intent_id", booking.PaymentIntentID),
			)
		}
	}

	s.log.Info("Booking canceled", zap.String("booking_id", bookingID))
	s.events.Publish(ctx, events.BookingCanceled, map[string]string{
		"booking_id":      bookingID,
		"professional_id": booking.ProfessionalID.String(),
	})

	return s.freshResponse(ctx, booking.ID)
}

func (s *bookingService) CheckIn(ctx context.Context, professionalID, bookingID string, req *request.CheckInRequest) (*response.CheckInResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if !geo.ValidCoordinates(req.Lat, req.Lng) {
		return nil, fmt.Errorf("invalid coordinates: lat %.4f lng %.4f", req.Lat, req.Lng)
	}

	booking, err := s.ownedByProfessional(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(booking.Status, entity.BookingStatusInProgress) {
		return nil, lifecycle.ErrInvalidTransition("check in to", booking.Status)
	}

	current := geo.Point{Lat: req.Lat, Lng: req.Lng}
	target := geo.ExtractPoint(booking.Address)
	result := geo.Verify(current, target, s.config.Booking.MaxCheckInDistanceM)

	// Verification never blocks the check-in; the outcome is recorded so a
	// rejected geofence is visible to support and disputes.
	if result.Status == geo.StatusRejected {
		s.log.Warn("Check-in outside the geofence",
			zap.String("booking_id", bookingID),
			zap.Float64("distance_m", result.DistanceMeters),
			zap.Float64("max_m", result.MaxMeters),
		)
	}

	now := time.Now()
	if err := s.repo.Booking.CheckIn(ctx, booking.ID, &req.Lat, &req.Lng, result.Status, now); err != nil {
		return nil, err
	}

	s.log.Info("Booking checked in",
		zap.String("booking_id", bookingID),
		zap.String("proximity_status", result.Status),
		zap.Float64("distance_m", result.DistanceMeters),
	)
	s.events.Publish(ctx, events.BookingCheckedIn, map[string]any{
		"booking_id":       bookingID,
		"proximity_status": result.Status,
	})

	fresh, err := s.freshResponse(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	return &response.CheckInResponse{
		Booking:         *fresh,
		ProximityStatus: result.Status,
		DistanceMeters:  result.DistanceMeters,
		MaxMeters:       result.MaxMeters,
	}, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, professionalID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.ownedByProfessional(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(booking.Status, entity.BookingStatusCompleted) {
		return nil, lifecycle.ErrInvalidTransition("complete", booking.Status)
	}

	// Capture first: if the charge fails the booking stays in progress and
	// the professional can retry.
	captured := booking.AuthorizedAmount
	if booking.PaymentIntentID != "" && booking.PaymentStatus == entity.PaymentStatusAuthorized {
		intent, err := s.intents.Capture(ctx, booking.PaymentIntentID, booking.AuthorizedAmount)
		if err != nil {
			s.log.Error("Payment capture failed",
				zap.Error(err),
				zap.String("booking_id", bookingID),
				zap.String("intent_id", booking.PaymentIntentID),
			)
			return nil, fmt.Errorf("capture payment: %w", err)
		}
		captured = intent.AmountMinor
	} else if booking.PaymentStatus == entity.PaymentStatusPaid {
		captured = booking.CapturedAmount
		if captured == 0 {
			captured = booking.AuthorizedAmount
		}
	}

	now := time.Now()
	if err := s.repo.Booking.Complete(ctx, booking.ID, captured, now); err != nil {
		return nil, err
	}

	// Earnings clear after the hold period; the cron flips them to available.
	entry := &entity.BalanceEntry{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ProfessionalID: booking.ProfessionalID,
		BookingID:      booking.ID,
		Amount:         captured,
		Currency:       booking.Currency,
		Status:         entity.BalanceStatusPending,
		AvailableAt:    now.Add(time.Duration(s.config.Booking.ClearanceHours) * time.Hour),
	}
	if err := s.repo.Balance.Create(ctx, entry); err != nil {
		s.log.Error("Failed to record balance entry",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
	}

	s.log.Info("Booking completed",
		zap.String("booking_id", bookingID),
		zap.Int64("captured_amount", captured),
	)
	s.events.Publish(ctx, events.BookingCompleted, map[string]any{
		"booking_id":      bookingID,
		"captured_amount": captured,
	})

	return s.freshResponse(ctx, booking.ID)
}

// Rebook opens a new booking against the same professional and address as a
// previous one.
func (s *bookingService) Rebook(ctx context.Context, customerID, bookingID string, req *request.RebookRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	previous, err := s.ownedByCustomer(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	// Only a finished engagement can seed a new one.
	if previous.Status != entity.BookingStatusCompleted {
		return nil, lifecycle.ErrInvalidTransition("rebook", previous.Status)
	}

	profile, err := s.repo.Profile.FindByUserID(ctx, previous.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("find professional: %w", err)
	}
	if profile == nil || !profile.IsActive {
		return nil, fmt.Errorf("professional is no longer available")
	}

	return s.CreateBooking(ctx, customerID, &request.CreateBookingRequest{
		ProfessionalID:  profile.ID.String(),
		ScheduledStart:  req.ScheduledStart,
		DurationMinutes: req.DurationMinutes,
		Address:         previous.Address,
		Instructions:    previous.Instructions,
	})
}

func (s *bookingService) GetBooking(ctx context.Context, userID, role, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	if role != entity.RoleAdmin {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
		}
		if booking.CustomerID != userUUID && booking.ProfessionalID != userUUID {
			return nil, fmt.Errorf("forbidden: booking belongs to another user")
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", customerID, err)
	}

	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customerUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get customer bookings: %w", err)
	}
	total, err := s.repo.Booking.CountByCustomerID(ctx, customerUUID)
	if err != nil {
		return nil, fmt.Errorf("count customer bookings: %w", err)
	}

	return paginateBookings(bookings, req, total), nil
}

func (s *bookingService) GetProfessionalBookings(ctx context.Context, professionalID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", professionalID, err)
	}

	bookings, err := s.repo.Booking.FindByProfessionalID(ctx, professionalUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get professional bookings: %w", err)
	}
	total, err := s.repo.Booking.CountByProfessionalID(ctx, professionalUUID)
	if err != nil {
		return nil, fmt.Errorf("count professional bookings: %w", err)
	}

	return paginateBookings(bookings, req, total), nil
}

// ==================== HELPER METHODS ====================

func paginateBookings(bookings []entity.Booking, req *request.PaginatedRequest, total int) *response.PaginatedResponse[response.BookingResponse] {
	items := make([]response.BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = response.BookingToResponse(&bookings[i])
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, int64(total))
}

func (s *bookingService) ownedByCustomer(ctx context.Context, customerID, bookingID string) (*entity.Booking, error) {
	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", customerID, err)
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.CustomerID != customerUUID {
		return nil, fmt.Errorf("forbidden: booking belongs to another customer")
	}
	return booking, nil
}

func (s *bookingService) ownedByProfessional(ctx context.Context, professionalID, bookingID string) (*entity.Booking, error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", professionalID, err)
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.ProfessionalID != professionalUUID {
		return nil, fmt.Errorf("forbidden: booking belongs to another professional")
	}
	return booking, nil
}

func (s *bookingService) freshResponse(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", id.String())
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}
