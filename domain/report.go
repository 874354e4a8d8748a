package domain

import "time"

// ProductivityInsights is the structured part of a weekly report.
type ProductivityInsights struct {
	Insights     []string `json:"insights"`
	Improvements []string `json:"improvements"`
}

// Report is the weekly performance summary of a goal.
type Report struct {
	ID               string               `json:"id"`
	GoalID           string               `json:"goal_id"`
	UserID           string               `json:"user_id"`
	WeekStart        time.Time            `json:"week_start"`
	Summary          string               `json:"summary"`
	PerformanceScore float64              `json:"performance_score"`
	CompletionRate   float64              `json:"completion_rate"`
	Insights         ProductivityInsights `json:"productivity_insights"`
	AIFeedback       string               `json:"ai_feedback,omitempty"`
	NextWeekStrategy string               `json:"next_week_strategy,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}
