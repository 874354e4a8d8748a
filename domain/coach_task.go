package domain

import "time"

// CoachTaskStatus is the state of a task suggested during coaching.
type CoachTaskStatus string

const (
	CoachTaskPending    CoachTaskStatus = "pending"
	CoachTaskInProgress CoachTaskStatus = "in_progress"
	CoachTaskCompleted  CoachTaskStatus = "completed"
	CoachTaskSkipped    CoachTaskStatus = "skipped"
)

func (s CoachTaskStatus) IsValid() bool {
	switch s {
	case CoachTaskPending, CoachTaskInProgress, CoachTaskCompleted, CoachTaskSkipped:
		return true
	default:
		return false
	}
}

// CoachTask represents a user-owned action item coming out of a coaching chat.
type CoachTask struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CoachType   CoachType       `json:"coach_type"`
	ChatID      string          `json:"chat_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      CoachTaskStatus `json:"status"`
	Priority    Priority        `json:"priority"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	AIGenerated bool            `json:"ai_generated"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *CoachTask) IsCompleted() bool {
	return t != nil && t.Status == CoachTaskCompleted
}

// Toggle switches between pending and completed.
func (t *CoachTask) Toggle(now time.Time) {
	if t.IsCompleted() {
		t.Status = CoachTaskPending
		t.CompletedAt = nil
		return
	}
	t.Status = CoachTaskCompleted
	t.CompletedAt = &now
}

// Timeframe is the horizon an extracted task is meant for.
type Timeframe string

const (
	TimeframeToday     Timeframe = "today"
	TimeframeThisWeek  Timeframe = "this_week"
	TimeframeThisMonth Timeframe = "this_month"
)

// DueDate converts a timeframe to a due date relative to now; this_month has none.
func (tf Timeframe) DueDate(now time.Time) *time.Time {
	switch tf {
	case TimeframeToday:
		return &now
	case TimeframeThisWeek:
		due := now.Add(7 * 24 * time.Hour)
		return &due
	default:
		return nil
	}
}
