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

type coachTaskRepository struct {
	pool *pgxpool.Pool
}

// NewCoachTaskRepository returns a Postgres-backed implementation of CoachTaskRepository.
func NewCoachTaskRepository(pool *pgxpool.Pool) repository.CoachTaskRepository {
	return &coachTaskRepository{pool: pool}
}

func (r *coachTaskRepository) GetByID(ctx context.Context, id string) (*domain.CoachTask, error) {
	const query = `
	SELECT id, user_id, coach_type, chat_id, title, description, status, priority, due_date,
		ai_generated, completed_at, created_at, updated_at
	FROM coach_tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanCoachTask(row)
}

func (r *coachTaskRepository) List(ctx context.Context, filter repository.CoachTaskFilter) ([]domain.CoachTask, error) {
	const query = `
	SELECT id, user_id, coach_type, chat_id, title, description, status, priority, due_date,
		ai_generated, completed_at, created_at, updated_at
	FROM coach_tasks
	WHERE user_id = $1
	  AND ($2 = '' OR coach_type = $2)
	  AND ($3 = '' OR status = $3)
	  AND (NOT $4 OR status NOT IN ('completed', 'skipped'))
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.CoachType),
		string(filter.Status),
		filter.OpenOnly,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.CoachTask
	for rows.Next() {
		task, err := scanCoachTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *coachTaskRepository) Create(ctx context.Context, task *domain.CoachTask) (*domain.CoachTask, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO coach_tasks (id, user_id, coach_type, chat_id, title, description, status, priority,
		due_date, ai_generated, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		string(task.CoachType),
		nullString(task.ChatID),
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTimePtr(task.DueDate),
		task.AIGenerated,
		nullTimePtr(task.CompletedAt),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *coachTaskRepository) Update(ctx context.Context, task *domain.CoachTask) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE coach_tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		completed_at = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTimePtr(task.DueDate),
		nullTimePtr(task.CompletedAt),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCoachTaskNotFound
		}
		return err
	}

	return nil
}

func (r *coachTaskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM coach_tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCoachTaskNotFound
	}
	return nil
}

func scanCoachTask(row scanner) (*domain.CoachTask, error) {
	var task domain.CoachTask
	var (
		coach       string
		chatID      *string
		description *string
		status      string
		priority    string
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&coach,
		&chatID,
		&task.Title,
		&description,
		&status,
		&priority,
		&task.DueDate,
		&task.AIGenerated,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCoachTaskNotFound
		}
		return nil, err
	}

	task.CoachType = domain.CoachType(coach)
	task.ChatID = derefString(chatID)
	task.Description = derefString(description)
	task.Status = domain.CoachTaskStatus(status)
	task.Priority = domain.Priority(priority)
	return &task, nil
}
