package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/pkg/httpcontext"
	profileUC "github.com/fastygo/coachly/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get the caller's profile
// @Tags profile
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	user := h.user(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.GetProfile(stdCtx, user)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Update the caller's profile
// @Tags profile
// @Router /api/v1/profile [patch]
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	user := h.user(ctx)
	if user == nil {
		return
	}

	var req transport.ProfileUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.UpdateProfile(stdCtx, user, req.Email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Get the caller's subscription state
// @Tags profile
// @Router /api/v1/profile/subscription [get]
func (h *ProfileHandler) Subscription(ctx *fasthttp.RequestCtx) {
	user := h.user(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sub, err := h.uc.Subscription(stdCtx, user)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, sub)
}

func (h *ProfileHandler) user(ctx *fasthttp.RequestCtx) *domain.User {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		EnvelopeError(ctx, domain.ErrUnauthorized)
	}
	return user
}
