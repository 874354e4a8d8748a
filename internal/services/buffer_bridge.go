package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/infrastructure/buffer"
	"github.com/fastygo/coachly/usecase"
)

// BufferBridge adapts the processor to the use-case OperationBuffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferNotification(ctx context.Context, operation string, n *domain.Notification) error {
	if b.processor == nil || n == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	priority := buffer.PriorityNormal
	if n.Type == domain.NotificationUrgent {
		priority = buffer.PriorityHigh
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    n.UserID,
		GoalID:    n.GoalID,
		Entity:    buffer.EntityNotification,
		Operation: operation,
		Data:      payload,
		Priority:  priority,
	})
}

func (b *BufferBridge) BufferActivityLog(ctx context.Context, operation string, log *domain.ActivityLog) error {
	if b.processor == nil || log == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    log.UserID,
		GoalID:    log.GoalID,
		Entity:    buffer.EntityActivityLog,
		Operation: operation,
		Data:      payload,
		Priority:  buffer.PriorityHigh,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
