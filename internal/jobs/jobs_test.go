package jobs

import (
	"context"
	"errors"
	"testing"

	"casaora/internal/dto/response"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

type stubClearer struct {
	calls  int
	result *response.ClearBalancesResult
	err    error
}

func (s *stubClearer) ClearBalances(ctx context.Context) (*response.ClearBalancesResult, error) {
	s.calls++
	return s.result, s.err
}

type stubSweeper struct {
	calls   int
	deleted int64
	err     error
}

func (s *stubSweeper) DeleteExpired(ctx context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func TestClearBalancesJobRunsClearer(t *testing.T) {
	clearer := &stubClearer{result: &response.ClearBalancesResult{Processed: 2}}

	ClearBalancesJob(clearer, zap.NewNop())()

	if clearer.calls != 1 {
		t.Errorf("expected 1 call, got %d", clearer.calls)
	}
}

func TestClearBalancesJobSwallowsError(t *testing.T) {
	clearer := &stubClearer{err: errors.New("db down")}

	// Must not panic so the schedule keeps running.
	ClearBalancesJob(clearer, zap.NewNop())()

	if clearer.calls != 1 {
		t.Errorf("expected 1 call, got %d", clearer.calls)
	}
}

func TestSessionSweepJobRunsSweeper(t *testing.T) {
	sweeper := &stubSweeper{deleted: 5}

	SessionSweepJob(sweeper, zap.NewNop())()

	if sweeper.calls != 1 {
		t.Errorf("expected 1 call, got %d", sweeper.calls)
	}
}

func schedulerConfig(clear, sweep string) *utils.Config {
	return &utils.Config{
		Cron: utils.CronConfig{
			ClearBalancesSchedule: clear,
			SessionSweepSchedule:  sweep,
		},
	}
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(schedulerConfig("not a schedule", "30 3 * * *"), &stubClearer{}, &stubSweeper{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestNewSchedulerAcceptsValidSchedules(t *testing.T) {
	s, err := NewScheduler(schedulerConfig("0 * * * *", "30 3 * * *"), &stubClearer{}, &stubSweeper{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil {
		t.Fatal("expected scheduler")
	}
}
