package autopilot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/repository"
)

const recentTaskWindow = 14

type DailyTask struct {
	TaskText string `json:"task_text"`
	Priority string `json:"priority"`
}

// DailyPlan is the model's answer to generate_daily_tasks.
type DailyPlan struct {
	Tasks            []DailyTask `json:"tasks"`
	AdjustmentReason *string     `json:"adjustment_reason"`
	Encouragement    string      `json:"encouragement"`
}

// Adjusted reports whether the model changed difficulty for today.
func (p DailyPlan) Adjusted() bool {
	return p.AdjustmentReason != nil && strings.TrimSpace(*p.AdjustmentReason) != ""
}

// GenerateDailyTasks creates today's tasks for an owned goal, adapting
// difficulty to the recent completion rate.
func (uc *UseCase) GenerateDailyTasks(ctx context.Context, userID, goalID string) (*DailyPlan, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return uc.generateDailyTasks(ctx, goal, true)
}

// generateDailyTasks marks the goal active only when touch is set; scheduled
// runs leave last_active_at to the user's own actions.
func (uc *UseCase) generateDailyTasks(ctx context.Context, goal *domain.Goal, touch bool) (*DailyPlan, error) {
	recent, err := uc.repos.Tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, Limit: recentTaskWindow})
	if err != nil {
		return nil, err
	}
	rate := domain.CompletionRate(domain.CountCompleted(recent), len(recent))

	plan, _, err := complete[DailyPlan](ctx, uc, llm.TaskDailyTasks, dailySystemPrompt, dailyUserPrompt(goal, rate, recent), nil)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	today := domain.DateOf(now)
	var reason string
	if plan.Adjusted() {
		reason = strings.TrimSpace(*plan.AdjustmentReason)
	}

	tasks := make([]domain.Task, 0, len(plan.Tasks))
	if goal.Covers(today) {
		for _, t := range plan.Tasks {
			text := strings.TrimSpace(t.TaskText)
			if text == "" {
				continue
			}
			tasks = append(tasks, domain.Task{
				GoalID:           goal.ID,
				UserID:           goal.UserID,
				Text:             text,
				Priority:         domain.NormalizePriority(t.Priority),
				DueDate:          today,
				AdjustmentFlag:   reason != "",
				AdjustmentReason: reason,
			})
		}
	}
	if len(tasks) > 0 {
		if _, err := uc.repos.Tasks.CreateBatch(ctx, tasks); err != nil {
			return nil, err
		}
	}

	if touch {
		if err := uc.repos.Goals.Touch(ctx, goal.ID, now); err != nil {
			return nil, err
		}
		goal.LastActiveAt = &now
	}

	uc.logger.Info("daily tasks generated",
		zap.String("goal_id", goal.ID),
		zap.Float64("recent_rate", rate),
		zap.Int("tasks", len(tasks)),
		zap.Bool("adjusted", reason != ""))

	return &plan, nil
}
