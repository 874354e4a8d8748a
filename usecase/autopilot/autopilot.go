// Package autopilot implements the goal agent: plan generation, daily task
// generation, weekly reports, behaviour analysis and the dashboard writes
// that feed them.
package autopilot

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/usecase"
)

const (
	ActionGeneratePlan         = "generate_plan"
	ActionGenerateDailyTasks   = "generate_daily_tasks"
	ActionGenerateWeeklyReport = "generate_weekly_report"
	ActionAnalyzeBehavior      = "analyze_behavior"
)

// Repositories groups the stores the agent reads and writes.
type Repositories struct {
	Goals         repository.GoalRepository
	Tasks         repository.TaskRepository
	Activity      repository.ActivityLogRepository
	Notifications repository.NotificationRepository
	Reports       repository.ReportRepository
}

type UseCase struct {
	repos  Repositories
	llm    llm.Client
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

func New(repos Repositories, client llm.Client, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		repos:  repos,
		llm:    client,
		buffer: buffer,
		logger: logger.Named("autopilot"),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// Register binds the four agent actions to the dispatcher.
func (uc *UseCase) Register(d *usecase.Dispatcher) {
	d.Register(ActionGeneratePlan, func(ctx context.Context, userID string, payload json.RawMessage) (interface{}, error) {
		in, err := usecase.DecodePayload[PlanInput](payload)
		if err != nil {
			return nil, err
		}
		return uc.GeneratePlan(ctx, userID, in)
	})
	d.Register(ActionGenerateDailyTasks, func(ctx context.Context, userID string, payload json.RawMessage) (interface{}, error) {
		in, err := usecase.DecodePayload[GoalInput](payload)
		if err != nil {
			return nil, err
		}
		return uc.GenerateDailyTasks(ctx, userID, in.GoalID)
	})
	d.Register(ActionGenerateWeeklyReport, func(ctx context.Context, userID string, payload json.RawMessage) (interface{}, error) {
		in, err := usecase.DecodePayload[GoalInput](payload)
		if err != nil {
			return nil, err
		}
		return uc.GenerateWeeklyReport(ctx, userID, in.GoalID)
	})
	d.Register(ActionAnalyzeBehavior, func(ctx context.Context, userID string, payload json.RawMessage) (interface{}, error) {
		in, err := usecase.DecodePayload[GoalInput](payload)
		if err != nil {
			return nil, err
		}
		return uc.AnalyzeBehavior(ctx, userID, in.GoalID)
	})
}

// GoalInput is the payload of every goal-scoped action.
type GoalInput struct {
	GoalID string `json:"goalId"`
}

func (uc *UseCase) ownedGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	if goalID == "" {
		return nil, domain.ErrGoalNotFound
	}
	return uc.repos.Goals.GetOwned(ctx, goalID, userID)
}

// complete runs one JSON completion and decodes it into T. raw is the
// extracted object exactly as the model produced it.
func complete[T any](ctx context.Context, uc *UseCase, task llm.TaskType, system, user string, validator llm.SchemaValidator[T]) (T, json.RawMessage, error) {
	var zero T
	if uc.llm == nil {
		return zero, nil, usecase.WrapAIError(llm.ErrNotConfigured)
	}

	resp, err := uc.llm.Complete(ctx, llm.CompletionRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		uc.logger.Warn("llm call failed", zap.String("task", string(task)), zap.Error(err))
		return zero, nil, usecase.WrapAIError(err)
	}

	raw, err := llm.ExtractJSON[json.RawMessage](resp.Text, nil)
	if err != nil {
		uc.logger.Warn("model output rejected", zap.String("task", string(task)), zap.Error(err))
		return zero, nil, usecase.WrapAIError(err)
	}
	out, err := llm.ExtractJSON[T](string(raw), validator)
	if err != nil {
		uc.logger.Warn("model output rejected", zap.String("task", string(task)), zap.Error(err))
		return zero, nil, usecase.WrapAIError(err)
	}
	return out, raw, nil
}

// notify stores a notification, falling back to the buffer. Failures are
// logged and never fail the calling operation.
func (uc *UseCase) notify(ctx context.Context, n *domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.now()
	}
	err := uc.repos.Notifications.Create(ctx, n)
	if err == nil {
		return
	}
	if uc.buffer != nil {
		if bErr := uc.buffer.BufferNotification(ctx, usecase.OperationCreate, n); bErr == nil {
			uc.logger.Warn("notification buffered", zap.String("goal_id", n.GoalID), zap.Error(err))
			return
		}
	}
	uc.logger.Error("failed to store notification", zap.String("goal_id", n.GoalID), zap.Error(err))
}

// recordActivity upserts the day's activity log, falling back to the buffer.
func (uc *UseCase) recordActivity(ctx context.Context, log *domain.ActivityLog) error {
	err := uc.repos.Activity.Upsert(ctx, log)
	if err == nil {
		return nil
	}
	if uc.buffer != nil {
		if bErr := uc.buffer.BufferActivityLog(ctx, usecase.OperationUpsert, log); bErr == nil {
			uc.logger.Warn("activity log buffered", zap.String("goal_id", log.GoalID), zap.Error(err))
			return nil
		}
	}
	return err
}
