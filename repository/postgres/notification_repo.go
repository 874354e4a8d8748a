package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n == nil || n.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO autopilot_notifications (id, user_id, goal_id, type, title, message, read)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
	RETURNING created_at
	`
	row := r.pool.QueryRow(ctx, query, n.ID, n.UserID, nullString(n.GoalID), string(n.Type), n.Title, n.Message, n.Read)
	if err := row.Scan(&n.CreatedAt); err != nil && !isNoRows(err) {
		return err
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	const query = `
	SELECT id, user_id, goal_id, type, title, message, read, created_at
	FROM autopilot_notifications
	WHERE user_id = $1
	  AND (NOT $2 OR read = FALSE)
	ORDER BY created_at DESC
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.UnreadOnly, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n      domain.Notification
			goalID *string
			kind   string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &goalID, &kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.GoalID = derefString(goalID)
		n.Type = domain.NotificationType(kind)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `UPDATE autopilot_notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
