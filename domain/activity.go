package domain

import "time"

// ActivityLog summarizes one goal's task completion for one day.
// StreakCounted is set once the day has added to the goal's streak.
type ActivityLog struct {
	ID             string    `json:"id"`
	GoalID         string    `json:"goal_id"`
	UserID         string    `json:"user_id"`
	LogDate        time.Time `json:"log_date"`
	TasksCompleted int       `json:"tasks_completed"`
	TasksTotal     int       `json:"tasks_total"`
	CompletionRate float64   `json:"completion_rate"`
	StreakCounted  bool      `json:"streak_counted"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewActivityLog derives a day's log from its tasks. The rate is always recomputed.
func NewActivityLog(goal *Goal, day time.Time, tasks []Task) ActivityLog {
	completed := CountCompleted(tasks)
	return ActivityLog{
		GoalID:         goal.ID,
		UserID:         goal.UserID,
		LogDate:        DateOf(day),
		TasksCompleted: completed,
		TasksTotal:     len(tasks),
		CompletionRate: CompletionRate(completed, len(tasks)),
	}
}

// FullyComplete reports whether every task of the day was done.
func (l *ActivityLog) FullyComplete() bool {
	return l != nil && l.TasksTotal > 0 && l.TasksCompleted == l.TasksTotal
}

// AverageRate returns the mean completion rate across logs, 0 when empty.
func AverageRate(logs []ActivityLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	var sum float64
	for _, l := range logs {
		sum += l.CompletionRate
	}
	return sum / float64(len(logs))
}
