package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/api/transport"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/pkg/httpcontext"
	"github.com/fastygo/coachly/repository"
	taskUC "github.com/fastygo/coachly/usecase/task"
)

// TaskHandler serves the coach task CRUD endpoints.
type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List coach tasks
// @Tags coach-tasks
// @Router /api/v1/coach-tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.CoachTaskFilter{
		UserID:    userID,
		CoachType: domain.CoachType(strings.ToLower(string(ctx.QueryArgs().Peek("coach_type")))),
		Status:    domain.CoachTaskStatus(ctx.QueryArgs().Peek("status")),
		Limit:     queryInt(ctx, "limit", 50),
		Offset:    queryInt(ctx, "offset", 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create coach task
// @Tags coach-tasks
// @Router /api/v1/coach-tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	task, ok := h.parseTask(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update coach task
// @Tags coach-tasks
// @Router /api/v1/coach-tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx, "id")
	if id == "" {
		return
	}

	task, ok := h.parseTask(ctx, userID)
	if !ok {
		return
	}
	task.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Toggle coach task completion
// @Tags coach-tasks
// @Router /api/v1/coach-tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
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

	task, err := h.uc.ToggleTask(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete coach task
// @Tags coach-tasks
// @Router /api/v1/coach-tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
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

	if err := h.uc.DeleteTask(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx, userID string) (*domain.CoachTask, bool) {
	var req transport.CoachTaskRequest
	if !h.decode(ctx, &req) {
		return nil, false
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			parsed, err = domain.ParseDate(req.DueDate)
		}
		if err != nil {
			h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "due_date must be YYYY-MM-DD or RFC3339"))
			return nil, false
		}
		due = &parsed
	}

	return &domain.CoachTask{
		UserID:      userID,
		CoachType:   domain.CoachType(strings.ToLower(strings.TrimSpace(req.CoachType))),
		ChatID:      req.ChatID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.CoachTaskStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		DueDate:     due,
	}, true
}
