package usecase

import (
	"context"
	"fmt"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/response"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService drives the order-based processor: an order is opened for a
// booking, approved by the customer out of band, then captured here.
type PaymentService interface {
	CreateOrder(ctx context.Context, customerID, bookingID string) (*response.OrderResponse, error)
	CaptureOrder(ctx context.Context, customerID, bookingID string) (*response.CaptureResponse, error)
}

type paymentService struct {
	repo   *repository.Repository
	config *utils.Config
	orders OrderProcessor
	log    *zap.Logger
}

func NewPaymentService(repo *repository.Repository, config *utils.Config, orders OrderProcessor, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:   repo,
		config: config,
		orders: orders,
		log:    log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, customerID, bookingID string) (*response.OrderResponse, error) {
	booking, err := s.customerBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("cannot create order: booking is already paid")
	}
	if booking.PaymentIntentID != "" {
		return nil, fmt.Errorf("cannot create order: booking uses intent-based payment")
	}

	order, err := s.orders.CreateOrder(ctx, booking.EstimatedAmount, booking.Currency, booking.ID.String())
	if err != nil {
		s.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.repo.Booking.SetOrderID(ctx, booking.ID, order.ID); err != nil {
		return nil, err
	}

	s.log.Info("Order created",
		zap.String("booking_id", bookingID),
		zap.String("order_id", order.ID),
	)

	return &response.OrderResponse{
		BookingID:   bookingID,
		OrderID:     order.ID,
		Status:      order.Status,
		ApproveLink: order.ApproveLink,
	}, nil
}

// CaptureOrder charges an approved order. Idempotent: a booking already
// marked paid short-circuits without touching the processor again.
func (s *paymentService) CaptureOrder(ctx context.Context, customerID, bookingID string) (*response.CaptureResponse, error) {
	booking, err := s.customerBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return &response.CaptureResponse{
			BookingID:       bookingID,
			OrderID:         booking.OrderID,
			Status:          "COMPLETED",
			AlreadyCaptured: true,
		}, nil
	}
	if booking.OrderID == "" {
		return nil, fmt.Errorf("booking %s has no order to capture", bookingID)
	}

	capture, err := s.orders.CaptureOrder(ctx, booking.OrderID)
	if err != nil {
		s.log.Error("Order capture failed",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("order_id", booking.OrderID),
		)
		return nil, fmt.Errorf("capture order: %w", err)
	}

	if !capture.Completed() {
		return nil, fmt.Errorf("cannot mark booking paid: capture status is %s", capture.Status)
	}

	err = s.repo.Booking.MarkPaidByOrder(ctx, booking.ID, capture.OrderID)
	if err != nil {
		// A concurrent capture already marked it paid; report success rather
		// than charging the customer a second time.
		if errorsIsConflict(err) {
			return &response.CaptureResponse{
				BookingID:       bookingID,
				OrderID:         capture.OrderID,
				CaptureID:       capture.CaptureID,
				Status:          capture.Status,
				AlreadyCaptured: true,
			}, nil
		}
		return nil, err
	}

	s.log.Info("Order captured",
		zap.String("booking_id", bookingID),
		zap.String("order_id", capture.OrderID),
		zap.String("capture_id", capture.CaptureID),
	)

	return &response.CaptureResponse{
		BookingID: bookingID,
		OrderID:   capture.OrderID,
		CaptureID: capture.CaptureID,
		Status:    capture.Status,
	}, nil
}

func (s *paymentService) customerBooking(ctx context.Context, customerID, bookingID string) (*entity.Booking, error) {
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
