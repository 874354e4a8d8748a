package repository

import (
	"context"
	"time"

	"github.com/fastygo/coachly/domain"
)

type GoalFilter struct {
	UserID           string
	Status           domain.GoalStatus
	AutopilotEnabled *bool
	Limit            int
	Offset           int
}

type GoalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	// GetOwned returns domain.ErrGoalNotFound when the goal belongs to another user.
	GetOwned(ctx context.Context, id, userID string) (*domain.Goal, error)
	List(ctx context.Context, filter GoalFilter) ([]domain.Goal, error)
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	UpdateProgress(ctx context.Context, goal *domain.Goal) error
	Touch(ctx context.Context, id string, at time.Time) error
	SetDifficulty(ctx context.Context, id string, difficulty domain.Difficulty) error
	SetAutopilot(ctx context.Context, id string, enabled bool) error
	SetStatus(ctx context.Context, id string, status domain.GoalStatus) error
}
