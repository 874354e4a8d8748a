package repository

import (
	"context"

	"github.com/fastygo/coachly/domain"
)

// SessionRepository stores revoked bearer tokens until they expire.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
