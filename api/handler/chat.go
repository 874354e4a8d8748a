package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/pkg/httpcontext"
	coachUC "github.com/fastygo/coachly/usecase/coach"
)

// ChatHandler serves chat sessions and their stored messages.
type ChatHandler struct {
	baseHandler
	uc *coachUC.UseCase
}

func NewChatHandler(uc *coachUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List chats
// @Tags chats
// @Router /api/v1/chats [get]
func (h *ChatHandler) ListChats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	chats, err := h.uc.ListChats(stdCtx, userID, string(ctx.QueryArgs().Peek("coach_type")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, chats)
}

// @Summary Create chat
// @Tags chats
// @Router /api/v1/chats [post]
func (h *ChatHandler) CreateChat(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChatCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	chat, err := h.uc.CreateChat(stdCtx, userID, req.CoachType, req.Title)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, chat)
}

// @Summary Rename chat
// @Tags chats
// @Router /api/v1/chats/{id} [patch]
func (h *ChatHandler) RenameChat(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx, "id")
	if id == "" {
		return
	}

	var req transport.ChatRenameRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	chat, err := h.uc.RenameChat(stdCtx, userID, id, req.Title)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, chat)
}

// @Summary Chat history
// @Tags chats
// @Router /api/v1/chats/{id}/messages [get]
func (h *ChatHandler) Messages(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx, "id")
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.uc.Messages(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}

// @Summary Append messages to a chat
// @Tags chats
// @Router /api/v1/chats/{id}/messages [post]
func (h *ChatHandler) SaveMessages(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx, "id")
	if id == "" {
		return
	}

	var req transport.MessagesRequest
	if !h.decode(ctx, &req) {
		return
	}
	messages := make([]domain.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, domain.Message{Role: domain.Role(m.Role), Content: m.Content})
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.uc.SaveMessages(stdCtx, userID, id, messages)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, saved)
}
