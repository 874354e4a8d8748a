package autopilot

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
)

const activityWindow = 7

// RetentionTrigger names why a user may need a nudge. Empty means none and
// encodes as JSON null.
type RetentionTrigger string

const (
	TriggerNone           RetentionTrigger = ""
	TriggerInactive7Days  RetentionTrigger = "inactive_7_days"
	TriggerInactive3Days  RetentionTrigger = "inactive_3_days"
	TriggerLowCompletion  RetentionTrigger = "low_completion"
	lowCompletionCeiling                   = 40.0
)

func (t RetentionTrigger) MarshalJSON() ([]byte, error) {
	if t == TriggerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// RetentionTriggerFor evaluates the ladder in order: a week of inactivity,
// then three days, then a low average completion rate.
func RetentionTriggerFor(daysSinceActive int, avgRate float64) RetentionTrigger {
	switch {
	case daysSinceActive >= 7:
		return TriggerInactive7Days
	case daysSinceActive >= 3:
		return TriggerInactive3Days
	case avgRate < lowCompletionCeiling:
		return TriggerLowCompletion
	default:
		return TriggerNone
	}
}

// BehaviorAnalysis is the model's answer to analyze_behavior.
type BehaviorAnalysis struct {
	BehaviorAssessment  string   `json:"behavior_assessment"`
	RiskLevel           string   `json:"risk_level"`
	Recommendations     []string `json:"recommendations"`
	AdjustmentNeeded    bool     `json:"adjustment_needed"`
	NewDifficulty       *string  `json:"new_difficulty"`
	MotivationalMessage string   `json:"motivational_message"`
	RetentionAction     *string  `json:"retention_action"`
}

type BehaviorResult struct {
	BehaviorAnalysis
	RetentionTrigger RetentionTrigger `json:"retentionTrigger"`
	DaysSinceActive  int              `json:"daysSinceActive"`
}

// AnalyzeBehavior evaluates engagement for an owned goal, may write a
// retention notification and may change the goal's difficulty.
func (uc *UseCase) AnalyzeBehavior(ctx context.Context, userID, goalID string) (*BehaviorResult, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return uc.analyzeBehavior(ctx, goal)
}

func (uc *UseCase) analyzeBehavior(ctx context.Context, goal *domain.Goal) (*BehaviorResult, error) {
	days := domain.DaysBetween(goal.ActiveSince(), uc.now())

	logs, err := uc.repos.Activity.ListRecent(ctx, goal.ID, activityWindow)
	if err != nil {
		return nil, err
	}
	avgRate := domain.AverageRate(logs)
	trigger := RetentionTriggerFor(days, avgRate)

	analysis, _, err := complete[BehaviorAnalysis](ctx, uc, llm.TaskBehavior, behaviorSystemPrompt,
		behaviorUserPrompt(goal, days, avgRate, trigger), nil)
	if err != nil {
		return nil, err
	}

	if trigger != TriggerNone && strings.TrimSpace(analysis.MotivationalMessage) != "" {
		n := &domain.Notification{
			UserID:  goal.UserID,
			GoalID:  goal.ID,
			Type:    domain.NotificationReminder,
			Title:   "📝 Quick check-in",
			Message: analysis.MotivationalMessage,
		}
		if trigger == TriggerInactive7Days {
			n.Type = domain.NotificationUrgent
			n.Title = "💪 We miss you!"
		}
		uc.notify(ctx, n)
	}

	if analysis.AdjustmentNeeded && analysis.NewDifficulty != nil {
		if difficulty, err := domain.ParseDifficulty(*analysis.NewDifficulty); err == nil {
			if err := uc.repos.Goals.SetDifficulty(ctx, goal.ID, difficulty); err != nil {
				return nil, err
			}
			goal.Difficulty = difficulty
		} else {
			uc.logger.Warn("ignoring invalid difficulty from model",
				zap.String("goal_id", goal.ID), zap.String("new_difficulty", *analysis.NewDifficulty))
		}
	}

	uc.logger.Info("behavior analyzed",
		zap.String("goal_id", goal.ID),
		zap.Int("days_since_active", days),
		zap.Float64("avg_rate", avgRate),
		zap.String("trigger", string(trigger)))

	return &BehaviorResult{
		BehaviorAnalysis: analysis,
		RetentionTrigger: trigger,
		DaysSinceActive:  days,
	}, nil
}
