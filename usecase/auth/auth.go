// Package auth verifies bearer tokens issued by the managed auth service and
// keeps a revocation list for logged-out tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

var (
	ErrInvalidToken = domain.NewError(domain.ErrCodeUnauthorized, "Invalid token")
	ErrTokenRevoked = domain.NewError(domain.ErrCodeUnauthorized, "Token revoked")
)

type UseCase struct {
	secret   []byte
	sessions repository.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// New builds the verifier. sessions may be nil, which disables revocation.
func New(secret string, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		secret:   []byte(secret),
		sessions: sessions,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

func (uc *UseCase) Configured() bool {
	return len(uc.secret) > 0
}

// Authenticate verifies an HS256 token and returns the user it names.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if !uc.Configured() {
		return nil, domain.ErrAuthNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return uc.secret, nil
	})
	if err != nil || !parsed.Valid {
		uc.logger.Debug("rejecting bearer token", zap.Error(err))
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	user := &domain.User{
		ID:      stringClaim(claims, "sub"),
		Email:   stringClaim(claims, "email"),
		Role:    stringClaim(claims, "role"),
		TokenID: stringClaim(claims, "jti"),
	}
	if user.ID == "" {
		user.ID = stringClaim(claims, "user_id")
	}
	if user.Role == "" {
		user.Role = "authenticated"
	}
	if user.TokenID == "" {
		user.TokenID = fingerprint(token)
	}
	if exp, ok := claims["exp"].(float64); ok {
		user.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}

	if uc.sessions != nil {
		_, err := uc.sessions.Get(ctx, user.TokenID)
		switch {
		case err == nil:
			return nil, ErrTokenRevoked
		case errors.Is(err, domain.ErrSessionNotFound):
		default:
			uc.logger.Warn("revocation lookup failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// Revoke blocks the user's current token until it expires.
func (uc *UseCase) Revoke(ctx context.Context, user *domain.User) error {
	if user == nil || user.TokenID == "" {
		return domain.ErrUnauthorized
	}
	if uc.sessions == nil {
		return domain.NewError(domain.ErrCodeUnavailable, "logout is unavailable")
	}
	expires := user.ExpiresAt
	if expires.IsZero() {
		expires = uc.now().Add(24 * time.Hour)
	}
	session := &domain.Session{
		ID:        user.TokenID,
		UserID:    user.ID,
		RevokedAt: uc.now(),
		ExpiresAt: expires,
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		uc.logger.Error("failed to revoke token", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	uc.logger.Info("token revoked", zap.String("user_id", user.ID))
	return nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
