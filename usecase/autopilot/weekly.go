package autopilot

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/repository"
)

// WeeklyReport is the model's answer to generate_weekly_report.
type WeeklyReport struct {
	Summary          string   `json:"summary"`
	PerformanceScore float64  `json:"performance_score"`
	CompletionRate   float64  `json:"completion_rate"`
	Insights         []string `json:"insights"`
	Improvements     []string `json:"improvements"`
	NextWeekStrategy string   `json:"next_week_strategy"`
	AIFeedback       string   `json:"ai_feedback"`
}

// GenerateWeeklyReport summarizes the current week (from the most recent
// Sunday) and stores the model's report, replacing any earlier one for the week.
func (uc *UseCase) GenerateWeeklyReport(ctx context.Context, userID, goalID string) (*WeeklyReport, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	weekStart := domain.WeekStart(uc.now())
	tasks, err := uc.repos.Tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueFrom: &weekStart})
	if err != nil {
		return nil, err
	}

	completed := domain.CountCompleted(tasks)
	total := len(tasks)
	if total == 0 {
		total = 1
	}
	rate := domain.CompletionRate(completed, total)

	report, _, err := complete[WeeklyReport](ctx, uc, llm.TaskWeeklyReport, weeklySystemPrompt,
		weeklyUserPrompt(goal, tasks, completed, total, rate), nil)
	if err != nil {
		return nil, err
	}

	stored := &domain.Report{
		GoalID:           goal.ID,
		UserID:           goal.UserID,
		WeekStart:        weekStart,
		Summary:          report.Summary,
		PerformanceScore: report.PerformanceScore,
		CompletionRate:   report.CompletionRate,
		Insights: domain.ProductivityInsights{
			Insights:     report.Insights,
			Improvements: report.Improvements,
		},
		AIFeedback:       report.AIFeedback,
		NextWeekStrategy: report.NextWeekStrategy,
	}
	if err := uc.repos.Reports.Save(ctx, stored); err != nil {
		return nil, err
	}

	uc.logger.Info("weekly report generated",
		zap.String("goal_id", goal.ID),
		zap.Time("week_start", weekStart),
		zap.Float64("performance_score", report.PerformanceScore))

	return &report, nil
}
