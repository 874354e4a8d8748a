package repository

import (
	"context"
	"time"

	"github.com/fastygo/coachly/domain"
)

type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type ReportRepository interface {
	// Save replaces any report already stored for the same goal and week.
	Save(ctx context.Context, report *domain.Report) error
	GetForWeek(ctx context.Context, goalID string, weekStart time.Time) (*domain.Report, error)
	ListByGoal(ctx context.Context, goalID string, limit int) ([]domain.Report, error)
}
