package autopilot

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

// progressPerDay is spread across the tasks of a day.
const progressPerDay = 5.0

type ToggleResult struct {
	Task        *domain.Task        `json:"task"`
	Goal        *domain.Goal        `json:"goal"`
	ActivityLog *domain.ActivityLog `json:"activity_log"`
}

// ToggleTask flips a task's completion and recomputes the activity log of
// the task's due day. Completing a task adds round(5/total) progress; undoing
// it takes the same share back. The streak moves only when the last open task
// due today is completed, and at most once per goal and day.
func (uc *UseCase) ToggleTask(ctx context.Context, userID, taskID string) (*ToggleResult, error) {
	task, err := uc.repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	goal, err := uc.repos.Goals.GetOwned(ctx, task.GoalID, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	due := domain.DateOf(task.DueDate)
	dayTasks, err := uc.repos.Tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueOn: &due})
	if err != nil {
		return nil, err
	}

	previous, err := uc.repos.Activity.GetForDay(ctx, goal.ID, due)
	if err != nil {
		uc.logger.Warn("failed to load activity log, streak state unknown",
			zap.String("goal_id", goal.ID), zap.Error(err))
	}

	task.SetCompleted(!task.Completed, now)
	if err := uc.repos.Tasks.SetCompleted(ctx, task); err != nil {
		return nil, err
	}

	found := false
	for i := range dayTasks {
		if dayTasks[i].ID == task.ID {
			dayTasks[i] = *task
			found = true
		}
	}
	if !found {
		dayTasks = append(dayTasks, *task)
	}

	log := domain.NewActivityLog(goal, due, dayTasks)
	if previous != nil {
		log.StreakCounted = previous.StreakCounted
	}

	share := domain.RoundHalfUp(progressPerDay / float64(len(dayTasks)))
	if task.Completed {
		goal.AddProgress(share)
		goal.LastActiveAt = &now
		if due.Equal(domain.DateOf(now)) && log.FullyComplete() && !log.StreakCounted {
			goal.StreakCount++
			log.StreakCounted = true
		}
	} else {
		goal.AddProgress(-share)
	}

	if err := uc.recordActivity(ctx, &log); err != nil {
		return nil, err
	}
	if err := uc.repos.Goals.UpdateProgress(ctx, goal); err != nil {
		return nil, err
	}
	uc.logger.Debug("goal progress updated",
		zap.String("goal_id", goal.ID),
		zap.Bool("completed", task.Completed),
		zap.Int("progress", goal.ProgressPercent),
		zap.Int("streak", goal.StreakCount))

	return &ToggleResult{Task: task, Goal: goal, ActivityLog: &log}, nil
}
