package repository

import (
	"context"

	"github.com/fastygo/coachly/domain"
)

type MoodRepository interface {
	Create(ctx context.Context, entry *domain.MoodEntry) error
	// ListRecent returns the newest limit entries, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.MoodEntry, error)
}

type JournalRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.JournalEntry, error)
}

type HabitFilter struct {
	UserID     string
	CoachType  domain.CoachType
	ActiveOnly bool
	Limit      int
}

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	List(ctx context.Context, filter HabitFilter) ([]domain.Habit, error)
	Create(ctx context.Context, habit *domain.Habit) error
	// Update writes name, coach type, active flag, reminder, streak and last completion.
	Update(ctx context.Context, habit *domain.Habit) error
	Delete(ctx context.Context, id string) error
}
