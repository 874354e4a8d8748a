package usecase

import (
	"context"

	"github.com/fastygo/coachly/domain"
)

const (
	OperationCreate = "create"
	OperationUpsert = "upsert"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
// Writes handed to it are applied immediately when storage is reachable and
// replayed later otherwise.
type OperationBuffer interface {
	BufferNotification(ctx context.Context, operation string, n *domain.Notification) error
	BufferActivityLog(ctx context.Context, operation string, log *domain.ActivityLog) error
}
