// Package wellbeing covers the self-care tools next to the coaches: mood
// check-ins, the reflection journal and habit tracking.
package wellbeing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/usecase"
)

const (
	defaultHistoryLimit = 7
	maxHistoryLimit     = 100
)

type Repositories struct {
	Moods   repository.MoodRepository
	Journal repository.JournalRepository
	Habits  repository.HabitRepository
}

type UseCase struct {
	repos  Repositories
	llm    llm.Client
	logger *zap.Logger
	now    func() time.Time
}

func New(repos Repositories, client llm.Client, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		repos:  repos,
		llm:    client,
		logger: logger.Named("wellbeing"),
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

// complete runs one JSON-mode completion and decodes the object into T.
func complete[T any](ctx context.Context, uc *UseCase, task llm.TaskType, system, user string, validator llm.SchemaValidator[T]) (T, error) {
	var zero T
	if uc.llm == nil {
		return zero, usecase.WrapAIError(llm.ErrNotConfigured)
	}
	resp, err := uc.llm.Complete(ctx, llm.CompletionRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   user,
		JSONObject:   true,
	})
	if err != nil {
		uc.logger.Warn("llm call failed", zap.String("task", string(task)), zap.Error(err))
		return zero, usecase.WrapAIError(err)
	}
	out, err := llm.ExtractJSON[T](resp.Text, validator)
	if err != nil {
		uc.logger.Warn("model output rejected", zap.String("task", string(task)), zap.Error(err))
		return zero, usecase.WrapAIError(err)
	}
	return out, nil
}

func historyLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}
