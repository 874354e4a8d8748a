package repository

import (
	"context"

	"github.com/fastygo/coachly/domain"
)

type ChatFilter struct {
	UserID    string
	CoachType domain.CoachType
	Limit     int
}

type ChatRepository interface {
	GetOwned(ctx context.Context, id, userID string) (*domain.Chat, error)
	List(ctx context.Context, filter ChatFilter) ([]domain.Chat, error)
	Create(ctx context.Context, chat *domain.Chat) error
	Rename(ctx context.Context, id, title string) error
	// AppendMessages stores the messages and bumps the chat's updated_at.
	AppendMessages(ctx context.Context, chatID string, messages []domain.Message) error
	// RecentMessages returns the newest limit messages in chronological order.
	RecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
}

type CoachTaskFilter struct {
	UserID    string
	CoachType domain.CoachType
	Status    domain.CoachTaskStatus
	OpenOnly  bool
	Limit     int
	Offset    int
}

type CoachTaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CoachTask, error)
	List(ctx context.Context, filter CoachTaskFilter) ([]domain.CoachTask, error)
	Create(ctx context.Context, task *domain.CoachTask) (*domain.CoachTask, error)
	Update(ctx context.Context, task *domain.CoachTask) error
	Delete(ctx context.Context, id string) error
}
