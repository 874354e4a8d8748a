package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/usecase/autopilot"
)

// Sweeper runs one autopilot pass over every enabled goal.
type Sweeper interface {
	Sweep(ctx context.Context) (autopilot.SweepStats, error)
}

type SchedulerConfig struct {
	// Spec is a six-field cron expression (seconds first).
	Spec    string
	Timeout time.Duration
}

// AutopilotScheduler triggers sweeps on a cron schedule. Overlapping runs are skipped.
type AutopilotScheduler struct {
	sweeper Sweeper
	cron    *cron.Cron
	cfg     SchedulerConfig
	logger  *zap.Logger
	running atomic.Bool
}

func NewAutopilotScheduler(sweeper Sweeper, logger *zap.Logger, cfg SchedulerConfig) (*AutopilotScheduler, error) {
	if cfg.Spec == "" {
		cfg.Spec = "0 0 7 * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &AutopilotScheduler{
		sweeper: sweeper,
		cron:    cron.New(cron.WithSeconds()),
		cfg:     cfg,
		logger:  logger.Named("autopilot_scheduler"),
	}
	if _, err := s.cron.AddFunc(cfg.Spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AutopilotScheduler) Start() {
	s.cron.Start()
	s.logger.Info("autopilot scheduler started", zap.String("spec", s.cfg.Spec))
}

func (s *AutopilotScheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("autopilot scheduler stopped")
}

// RunOnce performs a sweep now unless one is already in progress.
func (s *AutopilotScheduler) RunOnce(ctx context.Context) (autopilot.SweepStats, bool, error) {
	if !s.running.CompareAndSwap(false, true) {
		return autopilot.SweepStats{}, false, nil
	}
	defer s.running.Store(false)

	stats, err := s.sweeper.Sweep(ctx)
	return stats, true, err
}

func (s *AutopilotScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	stats, ran, err := s.RunOnce(ctx)
	if !ran {
		s.logger.Warn("previous sweep still running, skipping")
		return
	}
	if err != nil {
		s.logger.Error("autopilot sweep failed", zap.Error(err), zap.Int("goals", stats.Goals))
	}
}
