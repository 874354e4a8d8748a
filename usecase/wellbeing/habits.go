package wellbeing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const maxHabitNameLength = 120

// HabitInput carries the editable habit fields. Nil pointers leave a field
// unchanged on update.
type HabitInput struct {
	Name         *string `json:"habit_name"`
	CoachType    *string `json:"coach_type"`
	IsActive     *bool   `json:"is_active"`
	ReminderTime *string `json:"reminder_time"`
}

func (uc *UseCase) ListHabits(ctx context.Context, filter repository.HabitFilter) ([]domain.Habit, error) {
	if err := requireUser(filter.UserID); err != nil {
		return nil, err
	}
	if filter.CoachType != "" && !filter.CoachType.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown coach type")
	}
	habits, err := uc.repos.Habits.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	return habits, nil
}

func (uc *UseCase) CreateHabit(ctx context.Context, userID string, in HabitInput) (*domain.Habit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if in.Name == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "habit_name is required")
	}
	habit := &domain.Habit{UserID: userID, IsActive: true}
	if err := applyHabitInput(habit, in); err != nil {
		return nil, err
	}
	if err := uc.repos.Habits.Create(ctx, habit); err != nil {
		uc.logger.Error("failed to create habit", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return habit, nil
}

func (uc *UseCase) UpdateHabit(ctx context.Context, userID, id string, in HabitInput) (*domain.Habit, error) {
	habit, err := uc.ownedHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyHabitInput(habit, in); err != nil {
		return nil, err
	}
	if err := uc.repos.Habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// ToggleHabit completes the habit for today, or undoes today's completion.
func (uc *UseCase) ToggleHabit(ctx context.Context, userID, id string) (*domain.Habit, error) {
	habit, err := uc.ownedHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if habit.CompletedOn(now) {
		habit.Undo(now)
	} else {
		habit.Complete(now)
	}
	if err := uc.repos.Habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	uc.logger.Debug("habit toggled",
		zap.String("habit_id", habit.ID),
		zap.Bool("done_today", habit.CompletedOn(now)),
		zap.Int("streak", habit.StreakCount))
	return habit, nil
}

func (uc *UseCase) DeleteHabit(ctx context.Context, userID, id string) error {
	if _, err := uc.ownedHabit(ctx, userID, id); err != nil {
		return err
	}
	return uc.repos.Habits.Delete(ctx, id)
}

// ownedHabit hides other users' habits behind not found.
func (uc *UseCase) ownedHabit(ctx context.Context, userID, id string) (*domain.Habit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	habit, err := uc.repos.Habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func applyHabitInput(habit *domain.Habit, in HabitInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.NewError(domain.ErrCodeInvalid, "habit_name is required")
		}
		if len([]rune(name)) > maxHabitNameLength {
			return domain.NewError(domain.ErrCodeInvalid, "habit_name is too long")
		}
		habit.Name = name
	}
	if in.CoachType != nil {
		coach := domain.CoachType(strings.TrimSpace(*in.CoachType))
		if coach != "" && !coach.IsValid() {
			return domain.NewError(domain.ErrCodeInvalid, "unknown coach type")
		}
		habit.CoachType = coach
	}
	if in.IsActive != nil {
		habit.IsActive = *in.IsActive
	}
	if in.ReminderTime != nil {
		reminder := strings.TrimSpace(*in.ReminderTime)
		if !domain.ValidReminderTime(reminder) {
			return domain.NewError(domain.ErrCodeInvalid, "reminder_time must be HH:MM")
		}
		habit.ReminderTime = reminder
	}
	return nil
}
