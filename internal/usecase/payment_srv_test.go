package usecase

import (
	"context"
	"strings"
	"testing"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/payments"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubOrders struct {
	captureCalls int
	capture      func(ctx context.Context, orderID string) (*payments.OrderCapture, error)
	createCalls  int
	create       func(ctx context.Context, amountMinor int64, currency, reference string) (*payments.Order, error)
}

func (s *stubOrders) CreateOrder(ctx context.Context, amountMinor int64, currency, reference string) (*payments.Order, error) {
	s.createCalls++
	return s.create(ctx, amountMinor, currency, reference)
}

func (s *stubOrders) CaptureOrder(ctx context.Context, orderID string) (*payments.OrderCapture, error) {
	s.captureCalls++
	return s.capture(ctx, orderID)
}

type paidStatusRepo struct {
	repository.BookingRepository

	booking    *entity.Booking
	markedPaid int
	markErr    error
}

func (s *paidStatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return s.booking, nil
}

func (s *paidStatusRepo) MarkPaidByOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	s.markedPaid++
	return s.markErr
}

func TestCaptureOrderShortCircuitsWhenAlreadyPaid(t *testing.T) {
	customerID := uuid.New()
	bookingID := uuid.New()

	bookingRepo := &paidStatusRepo{
		booking: &entity.Booking{
			Base:          entity.Base{ID: bookingID},
			CustomerID:    customerID,
			PaymentStatus: entity.PaymentStatusPaid,
			OrderID:       "ord_42",
		},
	}
	orders := &stubOrders{}

	svc := NewPaymentService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), orders, zap.NewNop(),
	)

	resp, err := svc.CaptureOrder(context.Background(), customerID.String(), bookingID.String())
	if err != nil {
		t.Fatalf("repeat capture should succeed: %v", err)
	}
	if !resp.AlreadyCaptured {
		t.Error("expected already_captured to be set")
	}
	if resp.OrderID != "ord_42" {
		t.Errorf("order_id = %s, want ord_42", resp.OrderID)
	}
	if orders.captureCalls != 0 {
		t.Errorf("processor must not be hit again, got %d capture calls", orders.captureCalls)
	}
}

func TestCaptureOrderTreatsConcurrentWinnerAsCaptured(t *testing.T) {
	customerID := uuid.New()
	bookingID := uuid.New()

	bookingRepo := &paidStatusRepo{
		booking: &entity.Booking{
			Base:          entity.Base{ID: bookingID},
			CustomerID:    customerID,
			PaymentStatus: entity.PaymentStatusUnpaid,
			OrderID:       "ord_42",
		},
		markErr: repository.ErrStatusConflict,
	}
	orders := &stubOrders{
		capture: func(ctx context.Context, orderID string) (*payments.OrderCapture, error) {
			return &payments.OrderCapture{OrderID: orderID, CaptureID: "cap_1", Status: "COMPLETED"}, nil
		},
	}

	svc := NewPaymentService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), orders, zap.NewNop(),
	)

	resp, err := svc.CaptureOrder(context.Background(), customerID.String(), bookingID.String())
	if err != nil {
		t.Fatalf("losing the row race must not surface an error: %v", err)
	}
	if !resp.AlreadyCaptured {
		t.Error("expected already_captured when another request marked the booking first")
	}
}

func TestCaptureOrderRejectsIncompleteCapture(t *testing.T) {
	customerID := uuid.New()
	bookingID := uuid.New()

	bookingRepo := &paidStatusRepo{
		booking: &entity.Booking{
			Base:          entity.Base{ID: bookingID},
			CustomerID:    customerID,
			PaymentStatus: entity.PaymentStatusUnpaid,
			OrderID:       "ord_42",
		},
	}
	orders := &stubOrders{
		capture: func(ctx context.Context, orderID string) (*payments.OrderCapture, error) {
			return &payments.OrderCapture{OrderID: orderID, Status: "PENDING"}, nil
		},
	}

	svc := NewPaymentService(
		&repository.Repository{Booking: bookingRepo},
		testConfig(), orders, zap.NewNop(),
	)

	_, err := svc.CaptureOrder(context.Background(), customerID.String(), bookingID.String())
	if err == nil || !strings.Contains(err.Error(), "PENDING") {
		t.Fatalf("expected error naming the capture status, got: %v", err)
	}
	if bookingRepo.markedPaid != 0 {
		t.Errorf("booking must not be marked paid on incomplete capture")
	}
}
