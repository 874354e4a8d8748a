package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const habitColumns = `id, user_id, habit_name, coach_type, is_active, reminder_time, streak_count,
	last_completed_at, created_at, updated_at`

type habitRepository struct {
	pool *pgxpool.Pool
}

// NewHabitRepository returns a Postgres-backed HabitRepository.
func NewHabitRepository(pool *pgxpool.Pool) repository.HabitRepository {
	return &habitRepository{pool: pool}
}

func (r *habitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	return scanHabit(r.pool.QueryRow(ctx, query, id))
}

func (r *habitRepository) List(ctx context.Context, filter repository.HabitFilter) ([]domain.Habit, error) {
	query := `SELECT ` + habitColumns + `
	FROM habits
	WHERE user_id = $1
	  AND ($2 = '' OR coach_type = $2)
	  AND (NOT $3 OR is_active)
	ORDER BY created_at DESC
	LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.CoachType), filter.ActiveOnly, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []domain.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *habit)
	}
	return habits, rows.Err()
}

func (r *habitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if habit == nil || habit.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO habits (id, user_id, habit_name, coach_type, is_active, reminder_time, streak_count, last_completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Name,
		nullString(string(habit.CoachType)),
		habit.IsActive,
		nullString(habit.ReminderTime),
		habit.StreakCount,
		nullTimePtr(habit.LastCompletedAt),
	).Scan(&habit.CreatedAt, &habit.UpdatedAt)
}

func (r *habitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if habit == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE habits
	SET habit_name = $2,
		coach_type = $3,
		is_active = $4,
		reminder_time = $5,
		streak_count = $6,
		last_completed_at = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		habit.ID,
		habit.Name,
		nullString(string(habit.CoachType)),
		habit.IsActive,
		nullString(habit.ReminderTime),
		habit.StreakCount,
		nullTimePtr(habit.LastCompletedAt),
	).Scan(&habit.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrHabitNotFound
		}
		return err
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func scanHabit(row scanner) (*domain.Habit, error) {
	var habit domain.Habit
	var (
		coachType *string
		reminder  *string
	)
	if err := row.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&coachType,
		&habit.IsActive,
		&reminder,
		&habit.StreakCount,
		&habit.LastCompletedAt,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, err
	}
	habit.CoachType = domain.CoachType(derefString(coachType))
	habit.ReminderTime = derefString(reminder)
	return &habit, nil
}
