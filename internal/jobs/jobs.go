// Package jobs holds the background work run on a schedule.
package jobs

import (
	"context"
	"time"

	"casaora/internal/dto/response"

	"go.uber.org/zap"
)

// BalanceClearer runs the payout clearance sweep.
type BalanceClearer interface {
	ClearBalances(ctx context.Context) (*response.ClearBalancesResult, error)
}

// SessionSweeper removes expired sessions.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

const jobTimeout = 5 * time.Minute

// ClearBalancesJob clears due balances and issues payouts.
func ClearBalancesJob(clearer BalanceClearer, log *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		result, err := clearer.ClearBalances(ctx)
		if err != nil {
			log.Error("Balance clearance job failed", zap.Error(err))
			return
		}

		log.Info("Balance clearance job finished",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed))
	}
}

// SessionSweepJob deletes sessions past their expiry.
func SessionSweepJob(sweeper SessionSweeper, log *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		deleted, err := sweeper.DeleteExpired(ctx)
		if err != nil {
			log.Error("Session sweep job failed", zap.Error(err))
			return
		}

		if deleted > 0 {
			log.Info("Session sweep job finished", zap.Int64("deleted", deleted))
		}
	}
}
