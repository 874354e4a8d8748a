package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/infrastructure/buffer"
	"github.com/fastygo/coachly/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how often the buffer is drained and how long items live.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	MaxAge     time.Duration
}

// BufferProcessor replays buffered notification and activity writes into Postgres.
type BufferProcessor struct {
	store         *buffer.Store
	monitor       ConnectionHealth
	notifications repository.NotificationRepository
	activity      repository.ActivityLogRepository
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	notifications repository.NotificationRepository,
	activity repository.ActivityLogRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:         store,
		monitor:       monitor,
		notifications: notifications,
		activity:      activity,
		logger:        logger.Named("buffer"),
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain or for ctx, whichever ends first.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch. Items past MaxAge are discarded first; failing
// items are retried up to MaxRetries times.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	if removed, err := bp.store.Cleanup(time.Now().Add(-bp.cfg.MaxAge)); err != nil {
		bp.logger.Warn("buffer cleanup failed", zap.Error(err))
	} else if removed > 0 {
		bp.logger.Warn("discarded stale buffer items", zap.Int("count", removed))
	}

	items, err := bp.store.Peek(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := bp.processItem(ctx, item)
		if err == nil {
			if err := bp.store.Remove(item); err != nil {
				bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
			}
			continue
		}

		bp.logger.Error("failed to replay buffer item",
			zap.String("item_id", item.ID),
			zap.String("entity", item.Entity),
			zap.String("goal_id", item.GoalID),
			zap.Error(err))

		if item.Retries+1 >= bp.cfg.MaxRetries {
			bp.logger.Warn("dropping buffer item (max retries reached)", zap.String("item_id", item.ID))
			_ = bp.store.Remove(item)
			continue
		}
		if err := bp.store.Retry(item); err != nil {
			bp.logger.Error("failed to requeue buffer item", zap.Error(err))
		}
	}
	return nil
}

// BufferOperation persists a write that the caller could not complete.
func (bp *BufferProcessor) BufferOperation(_ context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return errors.New("buffer processor not configured")
	}
	return bp.store.Enqueue(item)
}

// Size returns the number of buffered items, 0 when unknown.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	switch item.Entity {
	case buffer.EntityNotification:
		if bp.notifications == nil {
			return errors.New("notification store not configured")
		}
		var n domain.Notification
		if err := json.Unmarshal(item.Data, &n); err != nil {
			return err
		}
		if item.Operation != buffer.OperationCreate {
			return fmt.Errorf("unsupported operation %s for %s", item.Operation, item.Entity)
		}
		return bp.notifications.Create(ctx, &n)

	case buffer.EntityActivityLog:
		if bp.activity == nil {
			return errors.New("activity store not configured")
		}
		var log domain.ActivityLog
		if err := json.Unmarshal(item.Data, &log); err != nil {
			return err
		}
		if item.Operation != buffer.OperationUpsert {
			return fmt.Errorf("unsupported operation %s for %s", item.Operation, item.Entity)
		}
		return bp.activity.Upsert(ctx, &log)

	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}
