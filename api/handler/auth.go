package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/pkg/httpcontext"
	authUC "github.com/fastygo/coachly/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Current user
// @Tags auth
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, middleware.UserFromRequest(ctx))
}

// @Summary Revoke the presented bearer token
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Revoke(stdCtx, middleware.UserFromRequest(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"revoked": true})
}
