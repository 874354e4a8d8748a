package domain

import (
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// NormalizePriority maps free-form input to a Priority, defaulting to medium.
func NormalizePriority(input string) Priority {
	p := Priority(strings.TrimSpace(strings.ToLower(input)))
	if !p.IsValid() {
		return PriorityMedium
	}
	return p
}

// Task is one dated autopilot task belonging to a goal.
type Task struct {
	ID               string     `json:"id"`
	GoalID           string     `json:"goal_id"`
	UserID           string     `json:"user_id"`
	Text             string     `json:"task_text"`
	Priority         Priority   `json:"priority"`
	DueDate          time.Time  `json:"due_date"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	AdjustmentFlag   bool       `json:"adjustment_flag"`
	AdjustmentReason string     `json:"adjustment_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SetCompleted flips the completion state and keeps CompletedAt consistent.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	t.Completed = completed
	if completed {
		t.CompletedAt = &at
		return
	}
	t.CompletedAt = nil
}

// CountCompleted returns how many of the tasks are done.
func CountCompleted(tasks []Task) int {
	n := 0
	for i := range tasks {
		if tasks[i].Completed {
			n++
		}
	}
	return n
}
