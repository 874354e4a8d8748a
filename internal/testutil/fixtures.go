package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/coachly/domain"
)

type GoalOption func(*domain.Goal)

func WithLastActive(t time.Time) GoalOption {
	return func(g *domain.Goal) { g.LastActiveAt = &t }
}

func WithDeadline(t time.Time) GoalOption {
	return func(g *domain.Goal) { g.Deadline = &t }
}

func WithProgress(progress, streak int) GoalOption {
	return func(g *domain.Goal) {
		g.ProgressPercent = progress
		g.StreakCount = streak
	}
}

func WithDifficulty(d domain.Difficulty) GoalOption {
	return func(g *domain.Goal) { g.Difficulty = d }
}

func WithAutopilot(enabled bool) GoalOption {
	return func(g *domain.Goal) { g.AutopilotEnabled = enabled }
}

// NewTestGoal returns an active medium goal created at createdAt.
func NewTestGoal(userID string, createdAt time.Time, opts ...GoalOption) domain.Goal {
	g := domain.Goal{
		ID:               uuid.NewString(),
		UserID:           userID,
		Description:      "Run a 5k",
		DailyTimeMinutes: 20,
		Difficulty:       domain.DifficultyMedium,
		AutopilotEnabled: true,
		Status:           domain.GoalActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// NewTestTask returns a task for goal due on due.
func NewTestTask(goal domain.Goal, text string, due time.Time, completed bool) domain.Task {
	t := domain.Task{
		ID:        uuid.NewString(),
		GoalID:    goal.ID,
		UserID:    goal.UserID,
		Text:      text,
		Priority:  domain.PriorityMedium,
		DueDate:   domain.DateOf(due),
		CreatedAt: due,
	}
	if completed {
		t.SetCompleted(true, due)
	}
	return t
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// RecordingBuffer captures buffered writes.
type RecordingBuffer struct {
	mu            sync.Mutex
	Notifications []domain.Notification
	Activity      []domain.ActivityLog
	Err           error
}

func (b *RecordingBuffer) BufferNotification(_ context.Context, _ string, n *domain.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.Notifications = append(b.Notifications, *n)
	return nil
}

func (b *RecordingBuffer) BufferActivityLog(_ context.Context, _ string, log *domain.ActivityLog) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.Activity = append(b.Activity, *log)
	return nil
}
