package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const profileColumns = `id, email, subscription_status, trial_ends_at, stripe_customer_id, created_at, updated_at`

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if profile == nil || profile.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	// DO UPDATE with a no-op keeps RETURNING populated on conflict.
	query := `
	INSERT INTO profiles (id, email, subscription_status, trial_ends_at, stripe_customer_id)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET id = profiles.id
	RETURNING ` + profileColumns

	return scanProfile(r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		string(profile.SubscriptionStatus),
		profile.TrialEndsAt,
		nullString(profile.StripeCustomerID),
	))
}

func (r *profileRepository) UpdateEmail(ctx context.Context, id, email string) (*domain.Profile, error) {
	query := `
	UPDATE profiles
	SET email = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + profileColumns
	return scanProfile(r.pool.QueryRow(ctx, query, id, email))
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var profile domain.Profile
	var (
		status   string
		customer *string
	)
	if err := row.Scan(
		&profile.ID,
		&profile.Email,
		&status,
		&profile.TrialEndsAt,
		&customer,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	profile.SubscriptionStatus = domain.SubscriptionStatus(status)
	profile.StripeCustomerID = derefString(customer)
	return &profile, nil
}
