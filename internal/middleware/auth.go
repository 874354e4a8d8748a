package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/pkg/httpcontext"
)

const userKey = "auth_user"

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Configured() bool
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ErrorWriter renders an error response in the caller's wire format.
type ErrorWriter func(ctx *fasthttp.RequestCtx, err error)

// Auth holds the shared pieces of the required and optional auth wrappers.
type Auth struct {
	auth    Authenticator
	onError ErrorWriter
	timeout time.Duration
	logger  *zap.Logger
}

func NewAuth(auth Authenticator, onError ErrorWriter, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		auth:    auth,
		onError: onError,
		timeout: 5 * time.Second,
		logger:  logger.Named("auth"),
	}
}

// WithErrorWriter returns a copy that renders failures with w.
func (a *Auth) WithErrorWriter(w ErrorWriter) *Auth {
	clone := *a
	clone.onError = w
	return &clone
}

// Required rejects requests without a valid bearer token.
func (a *Auth) Required(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if a.auth == nil || !a.auth.Configured() {
			a.fail(ctx, domain.ErrAuthNotConfigured)
			return
		}
		token := BearerToken(ctx)
		if token == "" {
			a.fail(ctx, domain.ErrUnauthorized)
			return
		}

		user, err := a.authenticate(token)
		if err != nil {
			a.logger.Debug("rejected bearer token", zap.Error(err))
			a.fail(ctx, err)
			return
		}
		setUser(ctx, user)
		next(ctx)
	}
}

// Optional attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func (a *Auth) Optional(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		token := BearerToken(ctx)
		if token != "" && a.auth != nil && a.auth.Configured() {
			if user, err := a.authenticate(token); err == nil {
				setUser(ctx, user)
			} else {
				a.logger.Debug("ignoring invalid bearer token", zap.Error(err))
			}
		}
		next(ctx)
	}
}

func (a *Auth) authenticate(token string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return a.auth.Authenticate(ctx, token)
}

func (a *Auth) fail(ctx *fasthttp.RequestCtx, err error) {
	if a.onError != nil {
		a.onError(ctx, err)
		return
	}
	if domain.IsDomainError(err, domain.ErrCodeNotConfigured) {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
}

// UserFromRequest returns the user attached by Required or Optional, or nil.
func UserFromRequest(ctx *fasthttp.RequestCtx) *domain.User {
	user, _ := ctx.UserValue(userKey).(*domain.User)
	return user
}

func setUser(ctx *fasthttp.RequestCtx, user *domain.User) {
	ctx.SetUserValue(userKey, user)
	ctx.SetUserValue(string(httpcontext.KeyUserID), user.ID)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
