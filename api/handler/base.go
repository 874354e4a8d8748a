package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) streamContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.AttachStream(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	writeJSON(ctx, status, payload)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	h.logFailure(ctx, err)
	EnvelopeError(ctx, err)
}

// respondBare writes the payload without the envelope, the shape the
// function-compatible endpoints use.
func (h baseHandler) respondBare(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	writeJSON(ctx, status, payload)
}

func (h baseHandler) respondBareError(ctx *fasthttp.RequestCtx, err error) {
	h.logFailure(ctx, err)
	BareError(ctx, err)
}

func (h baseHandler) logFailure(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status < http.StatusInternalServerError {
		return
	}
	log := h.logger
	if id, ok := ctx.UserValue(string(httpcontext.KeyUserID)).(string); ok && id != "" {
		log = log.With(zap.String("user_id", id))
	}
	log.Error("request failed",
		zap.String("path", string(ctx.Path())),
		zap.String("code", code),
		zap.String("request_id", string(ctx.Response.Header.Peek("X-Request-ID"))),
		zap.Error(err))
}

// userID returns the authenticated caller, answering 401 when absent.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		EnvelopeError(ctx, domain.ErrUnauthorized)
		return ""
	}
	return user.ID
}

// pathID reads a route parameter, answering 400 when it is missing.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx, name string) string {
	id, _ := ctx.UserValue(name).(string)
	if id == "" {
		EnvelopeError(ctx, domain.NewError(domain.ErrCodeInvalid, "missing "+name))
	}
	return id
}

// decode unmarshals the request body into dst, answering 400 on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		EnvelopeError(ctx, domain.ErrInvalidPayload)
		return false
	}
	return true
}

// EnvelopeError writes err inside the standard response envelope.
func EnvelopeError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	writeJSON(ctx, status, transport.NewError(code, domain.ErrorMessage(err), nil))
}

// BareError writes err as {"error": message}.
func BareError(ctx *fasthttp.RequestCtx, err error) {
	status, _ := mapError(err)
	writeJSON(ctx, status, transport.ErrorBody{Error: domain.ErrorMessage(err)})
}

var (
	_ middleware.ErrorWriter = EnvelopeError
	_ middleware.ErrorWriter = BareError
)

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeRateLimited):
		return http.StatusTooManyRequests, string(domain.ErrCodeRateLimited)
	case domain.IsDomainError(err, domain.ErrCodePaymentRequired):
		return http.StatusPaymentRequired, string(domain.ErrCodePaymentRequired)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	case domain.IsDomainError(err, domain.ErrCodeNotConfigured):
		return http.StatusInternalServerError, string(domain.ErrCodeNotConfigured)
	case domain.IsDomainError(err, domain.ErrCodeInvalidModelOutput):
		return http.StatusInternalServerError, string(domain.ErrCodeInvalidModelOutput)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func queryInt(ctx *fasthttp.RequestCtx, key string, fallback int) int {
	if v, err := strconv.Atoi(string(ctx.QueryArgs().Peek(key))); err == nil {
		return v
	}
	return fallback
}
