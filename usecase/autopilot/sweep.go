package autopilot

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const sweepPageSize = 100

// SweepStats counts what one scheduled pass did.
type SweepStats struct {
	Goals     int
	Generated int
	Analyzed  int
	Failed    int
}

// Sweep runs the agent for every active goal with autopilot enabled:
// behaviour is analyzed, then today's tasks are generated when none exist.
// A failing goal is logged and skipped.
func (uc *UseCase) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats
	enabled := true

	for offset := 0; ; offset += sweepPageSize {
		goals, err := uc.repos.Goals.List(ctx, repository.GoalFilter{
			Status:           domain.GoalActive,
			AutopilotEnabled: &enabled,
			Limit:            sweepPageSize,
			Offset:           offset,
		})
		if err != nil {
			return stats, err
		}

		for i := range goals {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Goals++
			uc.sweepGoal(ctx, &goals[i], &stats)
		}

		if len(goals) < sweepPageSize {
			break
		}
	}

	uc.logger.Info("autopilot sweep finished",
		zap.Int("goals", stats.Goals),
		zap.Int("generated", stats.Generated),
		zap.Int("analyzed", stats.Analyzed),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

func (uc *UseCase) sweepGoal(ctx context.Context, goal *domain.Goal, stats *SweepStats) {
	if _, err := uc.analyzeBehavior(ctx, goal); err != nil {
		stats.Failed++
		uc.logger.Warn("sweep: behavior analysis failed", zap.String("goal_id", goal.ID), zap.Error(err))
		return
	}
	stats.Analyzed++

	today := domain.DateOf(uc.now())
	existing, err := uc.repos.Tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueOn: &today, Limit: 1})
	if err != nil {
		stats.Failed++
		uc.logger.Warn("sweep: list today's tasks failed", zap.String("goal_id", goal.ID), zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}
	if _, err := uc.generateDailyTasks(ctx, goal, false); err != nil {
		stats.Failed++
		uc.logger.Warn("sweep: daily generation failed", zap.String("goal_id", goal.ID), zap.Error(err))
		return
	}
	stats.Generated++
}
