package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/pkg/httpcontext"
	"github.com/fastygo/coachly/usecase"
	coachUC "github.com/fastygo/coachly/usecase/coach"
)

// FunctionHandler serves the endpoints under /functions/v1. They answer
// with bare JSON bodies rather than the envelope.
type FunctionHandler struct {
	baseHandler
	dispatcher *usecase.Dispatcher
	coach      *coachUC.UseCase
}

func NewFunctionHandler(dispatcher *usecase.Dispatcher, coach *coachUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FunctionHandler {
	return &FunctionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  dispatcher,
		coach:       coach,
	}
}

// @Summary Run an autopilot agent action
// @Tags functions
// @Router /functions/v1/autopilot-agent [post]
func (h *FunctionHandler) Autopilot(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		BareError(ctx, domain.ErrUnauthorized)
		return
	}

	var req transport.FunctionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBareError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.dispatcher.Execute(stdCtx, req.Action, user.ID, req.Payload)
	if err != nil {
		h.respondBareError(ctx, err)
		return
	}
	h.respondBare(ctx, http.StatusOK, result)
}

// @Summary Stream a coaching reply as server-sent events
// @Tags functions
// @Router /functions/v1/chat [post]
func (h *FunctionHandler) Chat(ctx *fasthttp.RequestCtx) {
	var req coachUC.ChatRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Messages == nil {
		BareError(ctx, coachUC.ErrMessagesRequired)
		return
	}

	var userID string
	if user := middleware.UserFromRequest(ctx); user != nil {
		userID = user.ID
	}

	streamCtx, cancel := h.streamContext(ctx)
	stream, err := h.coach.OpenChat(streamCtx, userID, req)
	if err != nil {
		cancel()
		h.respondBareError(ctx, err)
		return
	}

	ctx.SetStatusCode(http.StatusOK)
	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	logger := h.logger
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()

		if err := stream.Relay(streamCtx, w); err != nil {
			if errors.Is(err, llm.ErrClientGone) {
				logger.Debug("chat client disconnected")
				return
			}
			logger.Warn("chat stream ended with error", zap.Error(err))
		}
	})
}

// @Summary Extract actionable tasks from a chat
// @Tags functions
// @Router /functions/v1/extract-tasks [post]
func (h *FunctionHandler) ExtractTasks(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		BareError(ctx, domain.ErrUnauthorized)
		return
	}

	var req coachUC.ExtractRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBareError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.coach.ExtractTasks(stdCtx, user.ID, req)
	if err != nil {
		h.respondBareError(ctx, err)
		return
	}
	h.respondBare(ctx, http.StatusOK, result)
}
