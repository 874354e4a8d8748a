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

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository returns a Postgres-backed ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) repository.ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) GetOwned(ctx context.Context, id, userID string) (*domain.Chat, error) {
	const query = `
	SELECT id, user_id, coach_type, title, created_at, updated_at
	FROM chats
	WHERE id = $1 AND user_id = $2
	`
	chat, err := scanChat(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (r *chatRepository) List(ctx context.Context, filter repository.ChatFilter) ([]domain.Chat, error) {
	const query = `
	SELECT id, user_id, coach_type, title, created_at, updated_at
	FROM chats
	WHERE user_id = $1
	  AND ($2 = '' OR coach_type = $2)
	ORDER BY updated_at DESC
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.CoachType), clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}

func (r *chatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	if chat == nil || chat.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO chats (id, user_id, coach_type, title)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, chat.ID, chat.UserID, string(chat.CoachType), chat.Title).
		Scan(&chat.CreatedAt, &chat.UpdatedAt)
}

func (r *chatRepository) Rename(ctx context.Context, id, title string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE chats SET title = $2, updated_at = NOW() WHERE id = $1`, id, title)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *chatRepository) AppendMessages(ctx context.Context, chatID string, messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `
	INSERT INTO messages (id, chat_id, role, content)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.NewString()
		}
		messages[i].ChatID = chatID
		if err := tx.QueryRow(ctx, insert, messages[i].ID, chatID, string(messages[i].Role), messages[i].Content).
			Scan(&messages[i].CreatedAt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE chats SET updated_at = NOW() WHERE id = $1`, chatID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *chatRepository) RecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	const query = `
	SELECT id, chat_id, role, content, created_at
	FROM (
		SELECT id, chat_id, role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	) recent
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, chatID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var (
			m    domain.Message
			role string
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanChat(row scanner) (*domain.Chat, error) {
	var (
		chat  domain.Chat
		coach string
	)
	if err := row.Scan(&chat.ID, &chat.UserID, &coach, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}
	chat.CoachType = domain.CoachType(coach)
	return &chat, nil
}
