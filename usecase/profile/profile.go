// Package profile keeps the per-account profile row and its subscription state.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

type UseCase struct {
	profiles    repository.ProfileRepository
	trialPeriod time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func New(profiles repository.ProfileRepository, trialPeriod time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles:    profiles,
		trialPeriod: trialPeriod,
		logger:      logger.Named("profile"),
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// GetProfile returns the caller's profile, opening a trial on first access.
func (uc *UseCase) GetProfile(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	profile, err := uc.profiles.GetByID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	created, err := uc.profiles.Create(ctx, &domain.Profile{
		ID:                 user.ID,
		Email:              user.Email,
		SubscriptionStatus: domain.SubscriptionTrial,
		TrialEndsAt:        uc.now().Add(uc.trialPeriod),
	})
	if err != nil {
		uc.logger.Error("failed to open profile", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("profile opened", zap.String("user_id", user.ID), zap.Time("trial_ends_at", created.TrialEndsAt))
	return created, nil
}

// UpdateProfile changes the contact email.
func (uc *UseCase) UpdateProfile(ctx context.Context, user *domain.User, email string) (*domain.Profile, error) {
	email = strings.TrimSpace(email)
	if !domain.ValidEmail(email) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a valid email is required")
	}
	if _, err := uc.GetProfile(ctx, user); err != nil {
		return nil, err
	}
	return uc.profiles.UpdateEmail(ctx, user.ID, email)
}

type Subscription struct {
	Status      domain.SubscriptionStatus `json:"status"`
	TrialEndsAt time.Time                 `json:"trial_ends_at"`
	HasAccess   bool                      `json:"has_access"`
	DaysLeft    int                       `json:"days_left"`
}

// Subscription reports whether premium features are open to the caller.
// DaysLeft counts whole or partial trial days remaining.
func (uc *UseCase) Subscription(ctx context.Context, user *domain.User) (*Subscription, error) {
	profile, err := uc.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	sub := &Subscription{
		Status:      profile.SubscriptionStatus,
		TrialEndsAt: profile.TrialEndsAt,
		HasAccess:   profile.HasAccess(now),
	}
	if profile.SubscriptionStatus == domain.SubscriptionTrial && sub.HasAccess {
		left := profile.TrialEndsAt.Sub(now)
		sub.DaysLeft = int((left + 24*time.Hour - 1) / (24 * time.Hour))
	}
	return sub, nil
}
