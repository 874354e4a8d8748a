package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/coachly/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	// KeyUserID is the fasthttp user value the auth middleware fills in.
	KeyUserID Key = "user_id"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout       time.Duration
	streamTimeout time.Duration
}

// NewAdapter constructs a new Adapter. Streams get streamTimeout, which
// defaults to four times the request timeout.
func NewAdapter(timeout, streamTimeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if streamTimeout <= 0 {
		streamTimeout = 4 * timeout
	}
	return &Adapter{
		timeout:       timeout,
		streamTimeout: streamTimeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return a.attach(ctx, a.timeout)
}

// AttachStream is Attach with the longer stream deadline. The returned
// context outlives the handler, so callers cancel it when the body writer ends.
func (a *Adapter) AttachStream(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return a.attach(ctx, a.streamTimeout)
}

func (a *Adapter) attach(ctx *fasthttp.RequestCtx, timeout time.Duration) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	if ctx == nil {
		return stdCtx, cancel
	}
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if userID, ok := ctx.UserValue(string(KeyUserID)).(string); ok && userID != "" {
		stdCtx = appLogger.ContextWithUserID(stdCtx, userID)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
