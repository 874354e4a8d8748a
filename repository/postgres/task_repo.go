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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, goal_id, user_id, task_text, priority, due_date, completed, completed_at,
		adjustment_flag, adjustment_reason, created_at
	FROM autopilot_tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, goal_id, user_id, task_text, priority, due_date, completed, completed_at,
		adjustment_flag, adjustment_reason, created_at
	FROM autopilot_tasks
	WHERE ($1 = '' OR goal_id::text = $1)
	  AND ($2 = '' OR user_id::text = $2)
	  AND ($3::date IS NULL OR due_date = $3)
	  AND ($4::date IS NULL OR due_date >= $4)
	ORDER BY created_at DESC
	LIMIT $5::int OFFSET $6
	`
	var dueOn, dueFrom interface{}
	if filter.DueOn != nil {
		dueOn = domain.DateOf(*filter.DueOn)
	}
	if filter.DueFrom != nil {
		dueFrom = domain.DateOf(*filter.DueFrom)
	}

	// LIMIT NULL returns every row.
	var limit interface{}
	if filter.Limit > 0 {
		limit = clampLimit(filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, filter.GoalID, filter.UserID, dueOn, dueFrom, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	const query = `
	INSERT INTO autopilot_tasks (id, goal_id, user_id, task_text, priority, due_date, completed,
		adjustment_flag, adjustment_reason)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at
	`

	batch := &pgx.Batch{}
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		t := tasks[i]
		batch.Queue(query,
			t.ID,
			t.GoalID,
			t.UserID,
			t.Text,
			string(t.Priority),
			domain.DateOf(t.DueDate),
			t.Completed,
			t.AdjustmentFlag,
			nullString(t.AdjustmentReason),
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := range tasks {
		if err := results.QueryRow().Scan(&tasks[i].CreatedAt); err != nil {
			results.Close()
			return nil, err
		}
	}
	if err := results.Close(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) SetCompleted(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE autopilot_tasks
	SET completed = $2,
		completed_at = $3
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, task.ID, task.Completed, nullTimePtr(task.CompletedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var (
		priority string
		reason   *string
	)

	if err := row.Scan(
		&task.ID,
		&task.GoalID,
		&task.UserID,
		&task.Text,
		&priority,
		&task.DueDate,
		&task.Completed,
		&task.CompletedAt,
		&task.AdjustmentFlag,
		&reason,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = calendarDate(task.DueDate)
	task.Priority = domain.Priority(priority)
	task.AdjustmentReason = derefString(reason)
	return &task, nil
}
