package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Difficulty scales how demanding generated tasks are.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseDifficulty normalizes user or model input into a Difficulty.
func ParseDifficulty(input string) (Difficulty, error) {
	d := Difficulty(strings.TrimSpace(strings.ToLower(input)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid difficulty: %q", input)
	}
	return d, nil
}

// MotivationType is the onboarding answer to "what keeps you going".
type MotivationType string

const (
	MotivationAchievement    MotivationType = "achievement"
	MotivationGrowth         MotivationType = "growth"
	MotivationAccountability MotivationType = "accountability"
	MotivationCompetition    MotivationType = "competition"
)

func (m MotivationType) IsValid() bool {
	switch m {
	case MotivationAchievement, MotivationGrowth, MotivationAccountability, MotivationCompetition:
		return true
	default:
		return false
	}
}

// GoalStatus is the lifecycle state of a goal. Goals are never deleted.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalAbandoned:
		return true
	default:
		return false
	}
}

// Goal is an autopilot goal owned by a user.
type Goal struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Description      string          `json:"goal_description"`
	Deadline         *time.Time      `json:"deadline,omitempty"`
	DailyTimeMinutes int             `json:"daily_time_minutes"`
	Difficulty       Difficulty      `json:"difficulty"`
	Challenges       string          `json:"challenges,omitempty"`
	MotivationType   MotivationType  `json:"motivation_type,omitempty"`
	AutopilotEnabled bool            `json:"autopilot_enabled"`
	ProgressPercent  int             `json:"progress_percent"`
	StreakCount      int             `json:"streak_count"`
	Status           GoalStatus      `json:"status"`
	Milestones       json.RawMessage `json:"milestones,omitempty"`
	AIPlan           json.RawMessage `json:"ai_plan,omitempty"`
	LastActiveAt     *time.Time      `json:"last_active_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ActiveSince returns the last activity timestamp, or creation time if the goal was never active.
func (g *Goal) ActiveSince() time.Time {
	if g.LastActiveAt != nil && !g.LastActiveAt.IsZero() {
		return *g.LastActiveAt
	}
	return g.CreatedAt
}

// Covers reports whether a due date falls within the goal's lifetime:
// not before the day it was created and not after its deadline.
func (g *Goal) Covers(due time.Time) bool {
	due = DateOf(due)
	if !g.CreatedAt.IsZero() && due.Before(DateOf(g.CreatedAt)) {
		return false
	}
	if g.Deadline != nil && due.After(DateOf(*g.Deadline)) {
		return false
	}
	return true
}

// AddProgress bumps progress, capped at 100.
func (g *Goal) AddProgress(delta int) {
	g.ProgressPercent += delta
	if g.ProgressPercent > 100 {
		g.ProgressPercent = 100
	}
	if g.ProgressPercent < 0 {
		g.ProgressPercent = 0
	}
}
