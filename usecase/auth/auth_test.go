package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/testutil"
	"github.com/fastygo/coachly/usecase/auth"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	uc := auth.New(secret, testutil.NewStore().Sessions(), nil)
	exp := time.Now().Add(time.Hour).Unix()

	user, err := uc.Authenticate(context.Background(), sign(t, secret, jwt.MapClaims{
		"sub": "u1", "email": "a@b.c", "role": "authenticated", "exp": exp, "jti": "tok-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, "tok-1", user.TokenID)
	assert.Equal(t, exp, user.ExpiresAt.Unix())
}

func TestAuthenticate_LegacyUserIDClaim(t *testing.T) {
	uc := auth.New(secret, nil, nil)

	user, err := uc.Authenticate(context.Background(), sign(t, secret, jwt.MapClaims{"user_id": "u9"}))
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Len(t, user.TokenID, 32)
}

func TestAuthenticate_Rejects(t *testing.T) {
	uc := auth.New(secret, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", sign(t, "other", jwt.MapClaims{"sub": "u1"})},
		{"expired", sign(t, secret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"anon role", sign(t, secret, jwt.MapClaims{"sub": "u1", "role": "anon"})},
		{"no subject", sign(t, secret, jwt.MapClaims{"role": "authenticated"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Authenticate(ctx, tt.token)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "got %v", err)
		})
	}
}

func TestAuthenticate_NotConfigured(t *testing.T) {
	uc := auth.New("", nil, nil)

	_, err := uc.Authenticate(context.Background(), "anything")

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotConfigured))
	assert.False(t, uc.Configured())
}

func TestRevoke(t *testing.T) {
	uc := auth.New(secret, testutil.NewStore().Sessions(), nil)
	ctx := context.Background()
	token := sign(t, secret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})

	user, err := uc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, uc.Revoke(ctx, user))

	_, err = uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
