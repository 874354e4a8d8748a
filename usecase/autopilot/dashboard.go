package autopilot

import (
	"context"
	"strings"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const (
	defaultActivityLimit     = 30
	defaultReportLimit       = 8
	defaultNotificationLimit = 5
)

// ActiveGoal returns the caller's newest active goal.
func (uc *UseCase) ActiveGoal(ctx context.Context, userID string) (*domain.Goal, error) {
	goals, err := uc.repos.Goals.List(ctx, repository.GoalFilter{
		UserID: userID,
		Status: domain.GoalActive,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, domain.ErrGoalNotFound
	}
	return &goals[0], nil
}

func (uc *UseCase) TodayTasks(ctx context.Context, userID, goalID string) ([]domain.Task, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	today := domain.DateOf(uc.now())
	tasks, err := uc.repos.Tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueOn: &today})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) Activity(ctx context.Context, userID, goalID string, limit int) ([]domain.ActivityLog, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	logs, err := uc.repos.Activity.ListRecent(ctx, goal.ID, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.ActivityLog{}
	}
	return logs, nil
}

func (uc *UseCase) Reports(ctx context.Context, userID, goalID string, limit int) ([]domain.Report, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultReportLimit
	}
	reports, err := uc.repos.Reports.ListByGoal(ctx, goal.ID, limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

func (uc *UseCase) SetAutopilot(ctx context.Context, userID, goalID string, enabled bool) (*domain.Goal, error) {
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Goals.SetAutopilot(ctx, goal.ID, enabled); err != nil {
		return nil, err
	}
	goal.AutopilotEnabled = enabled
	return goal, nil
}

// SetStatus moves a goal through its lifecycle. Goals are archived this way, never deleted.
func (uc *UseCase) SetStatus(ctx context.Context, userID, goalID, status string) (*domain.Goal, error) {
	next := domain.GoalStatus(strings.TrimSpace(strings.ToLower(status)))
	if !next.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "status must be active, completed or abandoned")
	}
	goal, err := uc.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Goals.SetStatus(ctx, goal.ID, next); err != nil {
		return nil, err
	}
	goal.Status = next
	return goal, nil
}

// Notifications returns the caller's unread notifications, newest first.
func (uc *UseCase) Notifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	items, err := uc.repos.Notifications.List(ctx, repository.NotificationFilter{
		UserID:     userID,
		UnreadOnly: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

func (uc *UseCase) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if id == "" {
		return domain.ErrNotificationNotFound
	}
	return uc.repos.Notifications.MarkRead(ctx, id, userID)
}
