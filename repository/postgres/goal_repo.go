package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const goalColumns = `id, user_id, goal_description, deadline, daily_time_minutes, difficulty, challenges,
	motivation_type, autopilot_enabled, progress_percent, streak_count, status, milestones, ai_plan,
	last_active_at, created_at, updated_at`

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository returns a Postgres-backed GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) repository.GoalRepository {
	return &goalRepository{pool: pool}
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM autopilot_goals WHERE id = $1`
	return scanGoal(r.pool.QueryRow(ctx, query, id))
}

func (r *goalRepository) GetOwned(ctx context.Context, id, userID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM autopilot_goals WHERE id = $1 AND user_id = $2`
	return scanGoal(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *goalRepository) List(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + `
	FROM autopilot_goals
	WHERE ($1 = '' OR user_id::text = $1)
	  AND ($2 = '' OR status = $2)
	  AND ($3::boolean IS NULL OR autopilot_enabled = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	var enabled interface{}
	if filter.AutopilotEnabled != nil {
		enabled = *filter.AutopilotEnabled
	}

	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.Status), enabled, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}

	const query = `
	INSERT INTO autopilot_goals (id, user_id, goal_description, deadline, daily_time_minutes, difficulty,
		challenges, motivation_type, autopilot_enabled, progress_percent, streak_count, status,
		milestones, ai_plan, last_active_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Description,
		nullDatePtr(goal.Deadline),
		goal.DailyTimeMinutes,
		string(goal.Difficulty),
		nullString(goal.Challenges),
		nullString(string(goal.MotivationType)),
		goal.AutopilotEnabled,
		goal.ProgressPercent,
		goal.StreakCount,
		string(goal.Status),
		rawJSON(goal.Milestones),
		rawJSON(goal.AIPlan),
		nullTimePtr(goal.LastActiveAt),
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) UpdateProgress(ctx context.Context, goal *domain.Goal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}
	const query = `
	UPDATE autopilot_goals
	SET streak_count = $2,
		progress_percent = $3,
		last_active_at = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.StreakCount,
		goal.ProgressPercent,
		nullTimePtr(goal.LastActiveAt),
	).Scan(&goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGoalNotFound
		}
		return err
	}
	return nil
}

func (r *goalRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, `UPDATE autopilot_goals SET last_active_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
}

func (r *goalRepository) SetDifficulty(ctx context.Context, id string, difficulty domain.Difficulty) error {
	return r.exec(ctx, `UPDATE autopilot_goals SET difficulty = $2, updated_at = NOW() WHERE id = $1`, id, string(difficulty))
}

func (r *goalRepository) SetAutopilot(ctx context.Context, id string, enabled bool) error {
	return r.exec(ctx, `UPDATE autopilot_goals SET autopilot_enabled = $2, updated_at = NOW() WHERE id = $1`, id, enabled)
}

func (r *goalRepository) SetStatus(ctx context.Context, id string, status domain.GoalStatus) error {
	return r.exec(ctx, `UPDATE autopilot_goals SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
}

func (r *goalRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row scanner) (*domain.Goal, error) {
	var goal domain.Goal
	var (
		challenges *string
		motivation *string
		difficulty string
		status     string
		milestones []byte
		plan       []byte
	)

	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Description,
		&goal.Deadline,
		&goal.DailyTimeMinutes,
		&difficulty,
		&challenges,
		&motivation,
		&goal.AutopilotEnabled,
		&goal.ProgressPercent,
		&goal.StreakCount,
		&status,
		&milestones,
		&plan,
		&goal.LastActiveAt,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	goal.Deadline = calendarDatePtr(goal.Deadline)
	goal.Difficulty = domain.Difficulty(difficulty)
	goal.Status = domain.GoalStatus(status)
	goal.Challenges = derefString(challenges)
	goal.MotivationType = domain.MotivationType(derefString(motivation))
	goal.Milestones = copyJSON(milestones)
	goal.AIPlan = copyJSON(plan)
	return &goal, nil
}
