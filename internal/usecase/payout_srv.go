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
	"casaora/pkg/database"
	"casaora/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clearBalancesLockKey serializes clearance runs across instances.
const clearBalancesLockKey int64 = 7214200134

type PayoutService interface {
	GetBalance(ctx context.Context, professionalID string) (*response.BalanceResponse, error)
	GetPayoutSummary(ctx context.Context, professionalID string) (*response.PayoutSummaryResponse, error)
	ListPayouts(ctx context.Context, professionalID string, req *request.PaginatedRequest) ([]response.PayoutResponse, error)
	GetPendingPayouts(ctx context.Context, professionalID string) (*response.PendingPayoutsResponse, error)

	// ClearBalances is the scheduled job body: flips cleared pending entries
	// to available and cuts payouts for professionals holding available
	// funds. One run at a time, enforced with an advisory lock.
	ClearBalances(ctx context.Context) (*response.ClearBalancesResult, error)
}

type payoutService struct {
	repo   *repository.Repository
	config *utils.Config
	events EventPublisher
	log    *zap.Logger
}

func NewPayoutService(repo *repository.Repository, config *utils.Config, publisher EventPublisher, log *zap.Logger) PayoutService {
	return &payoutService{
		repo:   repo,
		config: config,
		events: publisher,
		log:    log.With(zap.String("service", "payout")),
	}
}

// PayoutPeriod returns the rolling window ending at the most recent UTC
// midnight.
func PayoutPeriod(now time.Time, days int) (time.Time, time.Time) {
	end := now.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -days)
	return start, end
}

// Summarize folds booking earnings into gross, commission and net amounts.
// Pure; order of bookings does not matter.
func Summarize(bookings []entity.Booking, commissionRate float64) (gross, commission, net int64, count int) {
	for i := range bookings {
		gross += bookings[i].CapturedAmount
	}
	commission = int64(math.Round(float64(gross) * commissionRate))
	net = gross - commission
	count = len(bookings)
	return gross, commission, net, count
}

func (s *payoutService) GetBalance(ctx context.Context, professionalID string) (*response.BalanceResponse, error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", professionalID, err)
	}

	pending, err := s.repo.Balance.SumByStatus(ctx, professionalUUID, entity.BalanceStatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending balance: %w", err)
	}
	available, err := s.repo.Balance.SumByStatus(ctx, professionalUUID, entity.BalanceStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("get available balance: %w", err)
	}

	return &response.BalanceResponse{
		PendingAmount:   pending,
		AvailableAmount: available,
		Currency:        s.config.Booking.Currency,
	}, nil
}

func (s *payoutService) GetPayoutSummary(ctx context.Context, professionalID string) (*response.PayoutSummaryResponse, error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", professionalID, err)
	}

	start, end := PayoutPeriod(time.Now(), s.config.Booking.PayoutPeriodDays)

	bookings, err := s.repo.Booking.FindPayable(ctx, professionalUUID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get payout summary: %w", err)
	}

	gross, commission, net, count := Summarize(bookings, s.config.Booking.CommissionRate)

	return &response.PayoutSummaryResponse{
		PeriodStart:      start,
		PeriodEnd:        end,
		GrossAmount:      gross,
		CommissionAmount: commission,
		NetAmount:        net,
		Currency:         s.config.Booking.Currency,
		BookingCount:     count,
	}, nil
}

func (s *payoutService) ListPayouts(ctx context.Context, professionalID string, req *request.PaginatedRequest) ([]response.PayoutResponse, error) {
	professionalUUID, err := uuid.Parse(professionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", professionalID, err)
	}

	payouts, err := s.repo.Payout.FindByProfessionalID(ctx, professionalUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}

	items := make([]response.PayoutResponse, len(payouts))
	for i := range payouts {
		items[i] = response.PayoutToResponse(&payouts[i])
	}
	return items, nil
}

// GetPendingPayouts assembles the professional's payout dashboard: balance,
// current-period preview and recent payout history.
func (s *payoutService) GetPendingPayouts(ctx context.Context, professionalID string) (*response.PendingPayoutsResponse, error) {
	balance, err := s.GetBalance(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	summary, err := s.GetPayoutSummary(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ListPayouts(ctx, professionalID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		return nil, err
	}

	return &response.PendingPayoutsResponse{
		Balance:       balance,
		CurrentPeriod: summary,
		RecentPayouts: recent,
	}, nil
}

func (s *payoutService) ClearBalances(ctx context.Context) (*response.ClearBalancesResult, error) {
	locked, err := database.TryAdvisoryLock(ctx, s.repo.DB, clearBalancesLockKey)
	if err != nil {
		return nil, fmt.Errorf("clear balances: %w", err)
	}
	if !locked {
		s.log.Warn("Balance clearance skipped, another run holds the lock")
		return &response.ClearBalancesResult{}, nil
	}
	defer func() {
		if err := database.AdvisoryUnlock(ctx, s.repo.DB, clearBalancesLockKey); err != nil {
			s.log.Error("Failed to release clearance lock", zap.Error(err))
		}
	}()

	now := time.Now()
	result := &response.ClearBalancesResult{}

	due, err := s.repo.Balance.FindDueProfessionals(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("clear balances: %w", err)
	}

	for _, professionalID := range due {
		if err := s.clearAndPay(ctx, professionalID, now); err != nil {
			s.log.Error("Balance clearance failed for professional",
				zap.Error(err),
				zap.String("professional_id", professionalID.String()),
			)
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: %v", professionalID.String(), err))
			continue
		}
		result.Processed++
	}

	s.log.Info("Balance clearance finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// clearAndPay moves one professional's cleared funds to available, then cuts
// a payout over everything available.
func (s *payoutService) clearAndPay(ctx context.Context, professionalID uuid.UUID, now time.Time) error {
	cleared, err := s.repo.Balance.ClearDueForProfessional(ctx, professionalID, now)
	if err != nil {
		return err
	}

	entries, err := s.repo.Balance.FindAvailableByProfessional(ctx, professionalID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var gross int64
	entryIDs := make([]uuid.UUID, len(entries))
	bookingIDs := make([]uuid.UUID, len(entries))
	currency := s.config.Booking.Currency
	for i, e := range entries {
		gross += e.Amount
		entryIDs[i] = e.ID
		bookingIDs[i] = e.BookingID
		if e.Currency != "" {
			currency = e.Currency
		}
	}
	commission := int64(math.Round(float64(gross) * s.config.Booking.CommissionRate))

	start, end := PayoutPeriod(now, s.config.Booking.PayoutPeriodDays)
	payout := &entity.Payout{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProfessionalID:   professionalID,
		PeriodStart:      start,
		PeriodEnd:        end,
		GrossAmount:      gross,
		CommissionAmount: commission,
		NetAmount:        gross - commission,
		Currency:         currency,
		BookingCount:     len(entries),
		Status:           entity.PayoutStatusPending,
	}

	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Payout.CreateTx(ctx, tx, payout); err != nil {
		return err
	}
	if err := s.repo.Booking.StampPayoutTx(ctx, tx, bookingIDs, payout.ID); err != nil {
		return err
	}
	if err := s.repo.Balance.MarkPaidOutTx(ctx, tx, entryIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payout: %w", err)
	}

	s.log.Info("Payout created",
		zap.String("payout_id", payout.ID.String()),
		zap.String("professional_id", professionalID.String()),
		zap.Int64("cleared_entries", cleared),
		zap.Int64("net_amount", payout.NetAmount),
	)
	s.events.Publish(ctx, events.PayoutCreated, map[string]any{
		"payout_id":       payout.ID.String(),
		"professional_id": professionalID.String(),
		"net_amount":      payout.NetAmount,
	})

	return nil
}
