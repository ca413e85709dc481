package usecase

import (
	"context"
	"fmt"
	"time"

	"casaora/internal/data/entity"
	"casaora/internal/data/repository"
	"casaora/internal/dto/request"
	"casaora/internal/dto/response"
	"casaora/internal/events"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSuspensionDays = 30

type DisputeService interface {
	CreateDispute(ctx context.Context, userID string, req *request.CreateDisputeRequest) (*response.DisputeResponse, error)
	ResolveDispute(ctx context.Context, adminID, disputeID string, req *request.ResolveDisputeRequest) (*response.DisputeResponse, error)
	ListOpenDisputes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DisputeResponse], error)
}

type disputeService struct {
	repo    *repository.Repository
	intents IntentProcessor
	events  EventPublisher
	log     *zap.Logger
}

func NewDisputeService(repo *repository.Repository, intents IntentProcessor, publisher EventPublisher, log *zap.Logger) DisputeService {
	return &disputeService{
		repo:    repo,
		intents: intents,
		events:  publisher,
		log:     log.With(zap.String("service", "dispute")),
	}
}

func (s *disputeService) CreateDispute(ctx context.Context, userID string, req *request.CreateDisputeRequest) (*response.DisputeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create dispute validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", req.BookingID)
	}
	if booking.CustomerID != userUUID && booking.ProfessionalID != userUUID {
		return nil, fmt.Errorf("forbidden: only booking participants may open a dispute")
	}

	now := time.Now()
	dispute := &entity.Dispute{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		RaisedBy:  userUUID,
		Reason:    req.Reason,
		Status:    entity.DisputeStatusOpen,
	}

	if err := s.repo.Dispute.Create(ctx, dispute); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}

	s.log.Info("Dispute opened",
		zap.String("dispute_id", dispute.ID.String()),
		zap.String("booking_id", req.BookingID),
	)

	resp := response.DisputeToResponse(dispute)
	return &resp, nil
}

// ResolveDispute closes a dispute and applies its side effects in one
// transaction: refunds flag the booking, warnings create moderation flags,
// suspensions create suspension records against the counterparty.
func (s *disputeService) ResolveDispute(ctx context.Context, adminID, disputeID string, req *request.ResolveDisputeRequest) (*response.DisputeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", adminID, err)
	}
	id, err := uuid.Parse(disputeID)
	if err != nil {
		return nil, fmt.Errorf("invalid dispute ID format %s: %w", disputeID, err)
	}

	dispute, err := s.repo.Dispute.FindByID(ctx, id)
	if err != nil || dispute == nil {
		return nil, fmt.Errorf("dispute %s not found", disputeID)
	}
	if dispute.Status != entity.DisputeStatusOpen {
		return nil, fmt.Errorf("cannot resolve dispute with status: %s", dispute.Status)
	}

	booking, err := s.repo.Booking.FindByID(ctx, dispute.BookingID)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", dispute.BookingID.String())
	}

	// Sanctions land on the counterparty of whoever raised the dispute.
	target := booking.ProfessionalID
	if dispute.RaisedBy == booking.ProfessionalID {
		target = booking.CustomerID
	}

	now := time.Now()
	dispute.ResolutionType = req.ResolutionType
	dispute.ResolutionAction = req.Action
	dispute.ResolvedBy = &adminUUID
	dispute.ResolvedAt = &now

	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin dispute transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	switch req.ResolutionType {
	case entity.ResolutionWarning:
		flag := &entity.ModerationFlag{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     target,
			DisputeID:  dispute.ID,
			Reason:     dispute.Reason,
		}
		if err := s.repo.Dispute.CreateModerationFlagTx(ctx, tx, flag); err != nil {
			return nil, err
		}
		dispute.ModerationFlagID = &flag.ID

	case entity.ResolutionSuspension:
		days := req.SuspensionDays
		if days == 0 {
			days = defaultSuspensionDays
		}
		suspension := &entity.UserSuspension{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     target,
			DisputeID:  dispute.ID,
			Reason:     dispute.Reason,
			Until:      now.AddDate(0, 0, days),
		}
		if err := s.repo.Dispute.CreateSuspensionTx(ctx, tx, suspension); err != nil {
			return nil, err
		}
		dispute.SuspensionID = &suspension.ID
	}

	if err := s.repo.Dispute.ResolveTx(ctx, tx, dispute); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dispute resolution: %w", err)
	}

	// Refunds touch the processor outside the transaction; the booking is
	// marked afterwards. Both steps are best-effort, a processor outage must
	// not reopen the dispute.
	if req.ResolutionType == entity.ResolutionRefund {
		s.refundBooking(ctx, booking)
	}

	s.log.Info("Dispute resolved",
		zap.String("dispute_id", disputeID),
		zap.String("resolution_type", req.ResolutionType),
		zap.String("resolved_by", adminID),
	)
	s.events.Publish(ctx, events.DisputeResolved, map[string]string{
		"dispute_id":      disputeID,
		"booking_id":      dispute.BookingID.String(),
		"resolution_type": req.ResolutionType,
	})

	dispute.Status = entity.DisputeStatusResolved
	resp := response.DisputeToResponse(dispute)
	return &resp, nil
}

// refundBooking returns the customer's money: a captured intent is refunded,
// an uncaptured hold is released. Failures are logged and the booking is not
// marked refunded until the processor accepted the operation.
func (s *disputeService) refundBooking(ctx context.Context, booking *entity.Booking) {
	if booking.PaymentIntentID != "" {
		switch booking.PaymentStatus {
		case entity.PaymentStatusPaid:
			if _, err := s.intents.Refund(ctx, booking.PaymentIntentID, booking.CapturedAmount); err != nil {
				s.log.Error("Failed to refund payment intent",
					zap.Error(err),
					zap.String("booking_id", booking.ID.String()),
					zap.String("intent_id", booking.PaymentIntentID),
				)
				return
			}
		case entity.PaymentStatusAuthorized, entity.PaymentStatusUnpaid:
			if err := s.intents.Cancel(ctx, booking.PaymentIntentID); err != nil {
				s.log.Error("Failed to release payment hold",
					zap.Error(err),
					zap.String("booking_id", booking.ID.String()),
					zap.String("intent_id", booking.PaymentIntentID),
				)
				return
			}
		}
	}

	if err := s.repo.Booking.MarkRefunded(ctx, booking.ID); err != nil {
		s.log.Error("Failed to mark booking refunded",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func (s *disputeService) ListOpenDisputes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DisputeResponse], error) {
	disputes, err := s.repo.Dispute.FindOpen(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list open disputes: %w", err)
	}
	total, err := s.repo.Dispute.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open disputes: %w", err)
	}

	items := make([]response.DisputeResponse, len(disputes))
	for i := range disputes {
		items[i] = response.DisputeToResponse(&disputes[i])
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, int64(total)), nil
}
