package repository

import (
	"context"
	"time"

	"github.com/fastygo/coachly/domain"
)

type TaskFilter struct {
	GoalID string
	UserID string
	// DueOn restricts to a single day; DueFrom to that day and later.
	DueOn   *time.Time
	DueFrom *time.Time
	Limit   int
	Offset  int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks newest first by creation time. A zero Limit returns every match.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	SetCompleted(ctx context.Context, task *domain.Task) error
}

type ActivityLogRepository interface {
	// Upsert writes the single row for (goal, log_date). Once set, streak_counted stays set.
	Upsert(ctx context.Context, log *domain.ActivityLog) error
	// GetForDay returns nil without error when the day has no log.
	GetForDay(ctx context.Context, goalID string, day time.Time) (*domain.ActivityLog, error)
	ListRecent(ctx context.Context, goalID string, limit int) ([]domain.ActivityLog, error)
}
