package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// settlementRunner is the part of SettlementService the scheduler drives.
type settlementRunner interface {
	Run(ctx context.Context) (model.SettlementResult, error)
}

// SettlementScheduler runs the settlement sweep once a day at a fixed market-local time.
type SettlementScheduler struct {
	cron    *cron.Cron
	runner  settlementRunner
	log     *zap.Logger
	timeout time.Duration
	spec    string
}

// NewSettlementScheduler registers the daily sweep at cfg.Hour:cfg.Minute market time.
// A run still in progress when the next one is due causes that next run to be skipped.
// The scheduler does nothing until Start is called.
func NewSettlementScheduler(runner settlementRunner, cfg config.SchedulerConfig, log *zap.Logger) (*SettlementScheduler, error) {
	s := &SettlementScheduler{
		cron: cron.New(
			cron.WithLocation(model.MarketLocation),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:  runner,
		log:     log,
		timeout: 10 * time.Minute,
		spec:    fmt.Sprintf("%d %d * * *", cfg.Minute, cfg.Hour),
	}
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid settlement schedule %q: %w", s.spec, err)
	}
	return s, nil
}

// Start begins running the schedule in the background.
func (s *SettlementScheduler) Start() {
	s.cron.Start()
	s.log.Info("settlement scheduler started",
		zap.String("schedule", s.spec),
		zap.String("location", model.MarketLocation.String()),
	)
}

// Stop prevents further runs and waits for a running sweep to finish or ctx to expire.
func (s *SettlementScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the time of the next scheduled sweep.
func (s *SettlementScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *SettlementScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("scheduled settlement failed", zap.Error(err))
		return
	}
	s.log.Info("scheduled settlement complete",
		zap.Int("confirmed", result.Confirmed),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
}
