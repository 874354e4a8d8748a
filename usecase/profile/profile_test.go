package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/testutil"
	"github.com/fastygo/coachly/usecase/profile"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newUseCase(store *testutil.Store) *profile.UseCase {
	return profile.New(store.Profiles(), 7*24*time.Hour, nil).WithClock(testutil.FixedClock(now))
}

func TestGetProfile_OpensTrialOnFirstAccess(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	user := &domain.User{ID: "u1", Email: "ada@example.com", Role: "authenticated"}

	got, err := uc.GetProfile(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionTrial, got.SubscriptionStatus)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, now.Add(7*24*time.Hour), got.TrialEndsAt)

	again, err := uc.GetProfile(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, got.TrialEndsAt, again.TrialEndsAt)
}

func TestGetProfile_RejectsAnonymous(t *testing.T) {
	uc := newUseCase(testutil.NewStore())

	_, err := uc.GetProfile(context.Background(), &domain.User{Role: "anon"})

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestUpdateProfile(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	user := &domain.User{ID: "u1", Email: "old@example.com", Role: "authenticated"}

	_, err := uc.UpdateProfile(context.Background(), user, "not-an-email")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	got, err := uc.UpdateProfile(context.Background(), user, " new@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	stored, err := store.Profiles().GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestSubscription(t *testing.T) {
	tests := []struct {
		name     string
		profile  domain.Profile
		access   bool
		daysLeft int
	}{
		{"trial running", domain.Profile{SubscriptionStatus: domain.SubscriptionTrial, TrialEndsAt: now.Add(36 * time.Hour)}, true, 2},
		{"trial ended", domain.Profile{SubscriptionStatus: domain.SubscriptionTrial, TrialEndsAt: now.Add(-time.Hour)}, false, 0},
		{"active", domain.Profile{SubscriptionStatus: domain.SubscriptionActive}, true, 0},
		{"canceled", domain.Profile{SubscriptionStatus: domain.SubscriptionCanceled, TrialEndsAt: now.Add(time.Hour)}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStore()
			p := tt.profile
			p.ID = "u1"
			_, err := store.Profiles().Create(context.Background(), &p)
			require.NoError(t, err)

			sub, err := newUseCase(store).Subscription(context.Background(), &domain.User{ID: "u1", Role: "authenticated"})
			require.NoError(t, err)
			assert.Equal(t, tt.access, sub.HasAccess)
			assert.Equal(t, tt.daysLeft, sub.DaysLeft)
			assert.Equal(t, tt.profile.SubscriptionStatus, sub.Status)
		})
	}
}
