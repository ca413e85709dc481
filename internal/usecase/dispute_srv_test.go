package usecase

import (
	"context"
	"errors"
	"testing"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ==================== STUBS ====================

type stubTx struct {
	pgx.Tx
}

func (stubTx) Commit(ctx context.Context) error   { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }

type stubDB struct {
	database.PgxIface
}

func (stubDB) Begin(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }

type stubDisputeRepo struct {
	repository.DisputeRepository

	dispute  *entity.Dispute
	resolved int
}

func (s *stubDisputeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	return s.dispute, nil
}

func (s *stubDisputeRepo) ResolveTx(ctx context.Context, q database.Querier, dispute *entity.Dispute) error {
	s.resolved++
	return nil
}

func disputeFixture(bookingID, raisedBy uuid.UUID) *entity.Dispute {
	return &entity.Dispute{
		Base:      entity.Base{ID: uuid.New()},
		BookingID: bookingID,
		RaisedBy:  raisedBy,
		Reason:    "work not finished",
		Status:    entity.DisputeStatusOpen,
	}
}

func resolveFixtures(paymentStatus entity.PaymentStatus, capturedAmount int64) (*stubDisputeRepo, *stubBookingRepo) {
	bookingID := uuid.New()
	customerID := uuid.New()

	booking := &entity.Booking{
		Base:            entity.Base{ID: bookingID},
		CustomerID:      customerID,
		ProfessionalID:  uuid.New(),
		Status:          entity.BookingStatusCompleted,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: "pi_disputed",
		CapturedAmount:  capturedAmount,
	}

	disputeRepo := &stubDisputeRepo{dispute: disputeFixture(bookingID, customerID)}
	bookingRepo := &stubBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	return disputeRepo, bookingRepo
}

// ==================== TESTS ====================

func TestResolveRefundReturnsCapturedFunds(t *testing.T) {
	disputeRepo, bookingRepo := resolveFixtures(entity.PaymentStatusPaid, 90000)
	intents := &stubIntents{}

	svc := NewDisputeService(
		&repository.Repository{DB: stubDB{}, Dispute: disputeRepo, Booking: bookingRepo},
		intents, &stubEvents{}, zap.NewNop(),
	)

	resp, err := svc.ResolveDispute(context.Background(), uuid.New().String(), disputeRepo.dispute.ID.String(),
		&request.ResolveDisputeRequest{ResolutionType: entity.ResolutionRefund, Action: "full refund"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.DisputeStatusResolved) {
		t.Errorf("status = %s, want resolved", resp.Status)
	}
	if intents.refundCalls != 1 {
		t.Errorf("captured intent must be refunded, got %d refund calls", intents.refundCalls)
	}
	if intents.cancelCalls != 0 {
		t.Errorf("a captured intent is refunded, not canceled, got %d cancel calls", intents.cancelCalls)
	}
	if bookingRepo.refunded != 1 {
		t.Errorf("booking must be marked refunded, got %d writes", bookingRepo.refunded)
	}
}

func TestResolveRefundReleasesUncapturedHold(t *testing.T) {
	disputeRepo, bookingRepo := resolveFixtures(entity.PaymentStatusAuthorized, 0)
	intents := &stubIntents{}

	svc := NewDisputeService(
		&repository.Repository{DB: stubDB{}, Dispute: disputeRepo, Booking: bookingRepo},
		intents, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.ResolveDispute(context.Background(), uuid.New().String(), disputeRepo.dispute.ID.String(),
		&request.ResolveDisputeRequest{ResolutionType: entity.ResolutionRefund})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intents.cancelCalls != 1 {
		t.Errorf("uncaptured hold must be released, got %d cancel calls", intents.cancelCalls)
	}
	if intents.refundCalls != 0 {
		t.Errorf("nothing was captured, got %d refund calls", intents.refundCalls)
	}
	if bookingRepo.refunded != 1 {
		t.Errorf("booking must be marked refunded, got %d writes", bookingRepo.refunded)
	}
}

func TestResolveRefundProcessorFailureStillResolves(t *testing.T) {
	disputeRepo, bookingRepo := resolveFixtures(entity.PaymentStatusPaid, 90000)
	intents := &stubIntents{refundErr: errors.New("processor unavailable")}

	svc := NewDisputeService(
		&repository.Repository{DB: stubDB{}, Dispute: disputeRepo, Booking: bookingRepo},
		intents, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.ResolveDispute(context.Background(), uuid.New().String(), disputeRepo.dispute.ID.String(),
		&request.ResolveDisputeRequest{ResolutionType: entity.ResolutionRefund})

	if err != nil {
		t.Fatalf("a processor outage must not reopen the dispute: %v", err)
	}
	if disputeRepo.resolved != 1 {
		t.Errorf("dispute must resolve exactly once, got %d", disputeRepo.resolved)
	}
	if bookingRepo.refunded != 0 {
		t.Errorf("booking must not be marked refunded when the processor rejects, got %d writes", bookingRepo.refunded)
	}
}

func TestResolveClosedDisputeFails(t *testing.T) {
	disputeRepo, bookingRepo := resolveFixtures(entity.PaymentStatusPaid, 90000)
	disputeRepo.dispute.Status = entity.DisputeStatusResolved
	intents := &stubIntents{}

	svc := NewDisputeService(
		&repository.Repository{DB: stubDB{}, Dispute: disputeRepo, Booking: bookingRepo},
		intents, &stubEvents{}, zap.NewNop(),
	)

	_, err := svc.ResolveDispute(context.Background(), uuid.New().String(), disputeRepo.dispute.ID.String(),
		&request.ResolveDisputeRequest{ResolutionType: entity.ResolutionRefund})

	if err == nil {
		t.Fatal("expected error resolving a closed dispute")
	}
	if intents.refundCalls != 0 || bookingRepo.refunded != 0 {
		t.Error("a closed dispute must not touch payments")
	}
}
