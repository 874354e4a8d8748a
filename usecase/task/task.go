// Package task manages coach tasks: action items a user keeps per persona,
// typed in by hand or extracted from a chat.
package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

type UseCase struct {
	tasks  repository.CoachTaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.CoachTaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger.Named("coach_tasks"),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.CoachTaskFilter) ([]domain.CoachTask, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown status")
	}
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.CoachTask{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.CoachTask, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrCoachTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.CoachTask) (*domain.CoachTask, error) {
	if err := uc.normalize(task); err != nil {
		return nil, err
	}
	task.ID = ""
	task.CompletedAt = nil
	if task.Status == domain.CoachTaskCompleted {
		now := uc.now()
		task.CompletedAt = &now
	}
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		uc.logger.Error("failed to create coach task", zap.String("user_id", task.UserID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// UpdateTask replaces the editable fields of an owned task. completed_at
// follows the status.
func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.CoachTask) (*domain.CoachTask, error) {
	existing, err := uc.GetTask(ctx, task.UserID, task.ID)
	if err != nil {
		return nil, err
	}
	if task.CoachType == "" {
		task.CoachType = existing.CoachType
	}
	if err := uc.normalize(task); err != nil {
		return nil, err
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.Priority = task.Priority
	existing.DueDate = task.DueDate
	existing.CoachType = task.CoachType
	if existing.Status != task.Status {
		existing.Status = task.Status
		existing.CompletedAt = nil
		if task.Status == domain.CoachTaskCompleted {
			now := uc.now()
			existing.CompletedAt = &now
		}
	}

	if err := uc.tasks.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ToggleTask switches an owned task between pending and completed.
func (uc *UseCase) ToggleTask(ctx context.Context, userID, id string) (*domain.CoachTask, error) {
	task, err := uc.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	task.Toggle(uc.now())
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := uc.GetTask(ctx, userID, id); err != nil {
		return err
	}
	return uc.tasks.Delete(ctx, id)
}

func (uc *UseCase) normalize(task *domain.CoachTask) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	task.Description = strings.TrimSpace(task.Description)
	task.Priority = domain.NormalizePriority(string(task.Priority))
	if task.Status == "" {
		task.Status = domain.CoachTaskPending
	}
	if !task.Status.IsValid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown status")
	}
	if task.CoachType == "" {
		task.CoachType = domain.CoachFitness
	} else if !task.CoachType.IsValid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown coach_type")
	}
	return nil
}
