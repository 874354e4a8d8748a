package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/config"
	"github.com/fastygo/coachly/pkg/httpcontext"
)

type stubAuth struct {
	configured bool
	users      map[string]*domain.User
}

func (s stubAuth) Configured() bool { return s.configured }

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}

func recordingWriter(got *error) ErrorWriter {
	return func(ctx *fasthttp.RequestCtx, err error) {
		*got = err
		ctx.SetStatusCode(fasthttp.StatusTeapot)
	}
}

func request(header string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	if header != "" {
		ctx.Request.Header.Set("Authorization", header)
	}
	return &ctx
}

func TestRequired(t *testing.T) {
	user := &domain.User{ID: "u1", Role: "authenticated"}
	stub := stubAuth{configured: true, users: map[string]*domain.User{"good": user}}

	tests := []struct {
		name    string
		auth    Authenticator
		header  string
		wantErr error
	}{
		{"valid", stub, "Bearer good", nil},
		{"lowercase scheme", stub, "bearer good", nil},
		{"missing", stub, "", domain.ErrUnauthorized},
		{"invalid", stub, "Bearer bad", domain.ErrUnauthorized},
		{"not configured", stubAuth{}, "Bearer good", domain.ErrAuthNotConfigured},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got error
			called := false
			mw := NewAuth(tc.auth, recordingWriter(&got), nil)
			ctx := request(tc.header)

			mw.Required(func(ctx *fasthttp.RequestCtx) {
				called = true
				assert.Equal(t, user, UserFromRequest(ctx))
				assert.Equal(t, "u1", ctx.UserValue(string(httpcontext.KeyUserID)))
			})(ctx)

			if tc.wantErr == nil {
				assert.True(t, called)
				assert.NoError(t, got)
				return
			}
			assert.False(t, called)
			assert.ErrorIs(t, got, tc.wantErr)
		})
	}
}

func TestOptional(t *testing.T) {
	user := &domain.User{ID: "u1", Role: "authenticated"}
	mw := NewAuth(stubAuth{configured: true, users: map[string]*domain.User{"good": user}}, nil, nil)

	for header, want := range map[string]*domain.User{
		"Bearer good": user,
		"Bearer bad":  nil,
		"":            nil,
	} {
		ctx := request(header)
		called := false
		mw.Optional(func(ctx *fasthttp.RequestCtx) {
			called = true
			assert.Equal(t, want, UserFromRequest(ctx))
		})(ctx)
		assert.True(t, called, header)
	}
}

func TestWithErrorWriterKeepsOriginal(t *testing.T) {
	var first, second error
	mw := NewAuth(stubAuth{configured: true}, recordingWriter(&first), nil)
	alt := mw.WithErrorWriter(recordingWriter(&second))

	alt.Required(func(*fasthttp.RequestCtx) {})(request(""))
	assert.NoError(t, first)
	assert.ErrorIs(t, second, domain.ErrUnauthorized)
}

func TestCORS(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowHeaders: "authorization, content-type"})(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	var preflight fasthttp.RequestCtx
	preflight.Request.Header.SetMethod(fasthttp.MethodOptions)
	handler(&preflight)
	assert.Equal(t, fasthttp.StatusNoContent, preflight.Response.StatusCode())
	assert.Equal(t, "*", string(preflight.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "authorization, content-type", string(preflight.Response.Header.Peek("Access-Control-Allow-Headers")))

	var get fasthttp.RequestCtx
	get.Request.Header.SetMethod(fasthttp.MethodGet)
	handler(&get)
	assert.Equal(t, fasthttp.StatusOK, get.Response.StatusCode())
	assert.Equal(t, "*", string(get.Response.Header.Peek("Access-Control-Allow-Origin")))
}
