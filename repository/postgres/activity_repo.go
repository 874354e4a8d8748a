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

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository returns a Postgres-backed ActivityLogRepository.
func NewActivityLogRepository(pool *pgxpool.Pool) repository.ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Upsert(ctx context.Context, log *domain.ActivityLog) error {
	if log == nil || log.GoalID == "" {
		return domain.ErrInvalidPayload
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO autopilot_activity_logs (id, goal_id, user_id, log_date, tasks_completed, tasks_total,
		completion_rate, streak_counted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (goal_id, log_date) DO UPDATE
	SET tasks_completed = EXCLUDED.tasks_completed,
		tasks_total = EXCLUDED.tasks_total,
		completion_rate = EXCLUDED.completion_rate,
		streak_counted = autopilot_activity_logs.streak_counted OR EXCLUDED.streak_counted
	RETURNING id, streak_counted, created_at
	`
	return r.pool.QueryRow(ctx, query,
		log.ID,
		log.GoalID,
		log.UserID,
		domain.DateOf(log.LogDate),
		log.TasksCompleted,
		log.TasksTotal,
		log.CompletionRate,
		log.StreakCounted,
	).Scan(&log.ID, &log.StreakCounted, &log.CreatedAt)
}

func (r *activityLogRepository) GetForDay(ctx context.Context, goalID string, day time.Time) (*domain.ActivityLog, error) {
	const query = `
	SELECT id, goal_id, user_id, log_date, tasks_completed, tasks_total, completion_rate, streak_counted, created_at
	FROM autopilot_activity_logs
	WHERE goal_id = $1 AND log_date = $2
	`
	log, err := scanActivityLog(r.pool.QueryRow(ctx, query, goalID, domain.DateOf(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

func (r *activityLogRepository) ListRecent(ctx context.Context, goalID string, limit int) ([]domain.ActivityLog, error) {
	const query = `
	SELECT id, goal_id, user_id, log_date, tasks_completed, tasks_total, completion_rate, streak_counted, created_at
	FROM autopilot_activity_logs
	WHERE goal_id = $1
	ORDER BY log_date DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, goalID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		log, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

func scanActivityLog(row scanner) (*domain.ActivityLog, error) {
	var log domain.ActivityLog
	if err := row.Scan(
		&log.ID,
		&log.GoalID,
		&log.UserID,
		&log.LogDate,
		&log.TasksCompleted,
		&log.TasksTotal,
		&log.CompletionRate,
		&log.StreakCounted,
		&log.CreatedAt,
	); err != nil {
		return nil, err
	}
	log.LogDate = calendarDate(log.LogDate)
	return &log, nil
}
