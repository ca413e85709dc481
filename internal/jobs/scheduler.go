package jobs

import (
	"fmt"

	"casaora/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps the cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewScheduler registers the recurring jobs using the configured schedules.
func NewScheduler(config *utils.Config, clearer BalanceClearer, sweeper SessionSweeper, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
	))

	if _, err := c.AddFunc(config.Cron.ClearBalancesSchedule, ClearBalancesJob(clearer, log)); err != nil {
		return nil, fmt.Errorf("failed to schedule balance clearance: %w", err)
	}

	if _, err := c.AddFunc(config.Cron.SessionSweepSchedule, SessionSweepJob(sweeper, log)); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("Starting scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}
