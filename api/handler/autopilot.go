package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/pkg/httpcontext"
	autopilotUC "github.com/fastygo/coachly/usecase/autopilot"
)

// AutopilotHandler serves the dashboard reads and the progress mutations.
type AutopilotHandler struct {
	baseHandler
	uc *autopilotUC.UseCase
}

func NewAutopilotHandler(uc *autopilotUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AutopilotHandler {
	return &AutopilotHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Active goal
// @Tags autopilot
// @Router /api/v1/autopilot/goal [get]
func (h *AutopilotHandler) ActiveGoal(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.ActiveGoal(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Tasks due today
// @Tags autopilot
// @Router /api/v1/autopilot/goals/{id}/tasks/today [get]
func (h *AutopilotHandler) TodayTasks(ctx *fasthttp.RequestCtx) {
	userID, goalID, ok := h.goalRoute(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.TodayTasks(stdCtx, userID, goalID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Recent activity logs
// @Tags autopilot
// @Router /api/v1/autopilot/goals/{id}/activity [get]
func (h *AutopilotHandler) Activity(ctx *fasthttp.RequestCtx) {
	userID, goalID, ok := h.goalRoute(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	logs, err := h.uc.Activity(stdCtx, userID, goalID, queryInt(ctx, "limit", 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, logs)
}

// @Summary Weekly reports
// @Tags autopilot
// @Router /api/v1/autopilot/goals/{id}/reports [get]
func (h *AutopilotHandler) Reports(ctx *fasthttp.RequestCtx) {
	userID, goalID, ok := h.goalRoute(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reports, err := h.uc.Reports(stdCtx, userID, goalID, queryInt(ctx, "limit", 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reports)
}

// @Summary Enable or pause autopilot for a goal
// @Tags autopilot
// @Router /api/v1/autopilot/goals/{id}/autopilot [patch]
func (h *AutopilotHandler) SetAutopilot(ctx *fasthttp.RequestCtx) {
	userID, goalID, ok := h.goalRoute(ctx)
	if !ok {
		return
	}

	var req transport.AutopilotToggleRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.Enabled == nil {
		h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "enabled is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.SetAutopilot(stdCtx, userID, goalID, *req.Enabled)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Change goal status
// @Tags autopilot
// @Router /api/v1/autopilot/goals/{id}/status [patch]
func (h *AutopilotHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	userID, goalID, ok := h.goalRoute(ctx)
	if !ok {
		return
	}

	var req transport.GoalStatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.SetStatus(stdCtx, userID, goalID, req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Toggle a daily task
// @Tags autopilot
// @Router /api/v1/autopilot/tasks/{id}/toggle [post]
func (h *AutopilotHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	taskID := h.pathID(ctx, "id")
	if taskID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.ToggleTask(stdCtx, userID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Unread notifications
// @Tags autopilot
// @Router /api/v1/autopilot/notifications [get]
func (h *AutopilotHandler) Notifications(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notifications, err := h.uc.Notifications(stdCtx, userID, queryInt(ctx, "limit", 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notifications)
}

// @Summary Mark a notification read
// @Tags autopilot
// @Router /api/v1/autopilot/notifications/{id}/read [post]
func (h *AutopilotHandler) MarkNotificationRead(ctx *fasthttp.RequestCtx) {
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

	if err := h.uc.MarkNotificationRead(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"read": true})
}

func (h *AutopilotHandler) goalRoute(ctx *fasthttp.RequestCtx) (string, string, bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return "", "", false
	}
	goalID := h.pathID(ctx, "id")
	if goalID == "" {
		return "", "", false
	}
	return userID, goalID, true
}
