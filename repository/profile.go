package repository

import (
	"context"

	"github.com/fastygo/coachly/domain"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	// Create inserts the profile unless one already exists for the id, then
	// returns the stored row.
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	UpdateEmail(ctx context.Context, id, email string) (*domain.Profile, error)
}
