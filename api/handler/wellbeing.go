package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/pkg/httpcontext"
	"github.com/fastygo/coachly/repository"
	wellbeingUC "github.com/fastygo/coachly/usecase/wellbeing"
)

// WellbeingHandler serves mood check-ins, the journal and habits. The two
// analyzers live under /functions/v1 and answer with bare bodies.
type WellbeingHandler struct {
	baseHandler
	uc *wellbeingUC.UseCase
}

func NewWellbeingHandler(uc *wellbeingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WellbeingHandler {
	return &WellbeingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Analyze a mood check-in
// @Tags functions
// @Router /functions/v1/analyze-mood [post]
func (h *WellbeingHandler) AnalyzeMood(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		BareError(ctx, domain.ErrUnauthorized)
		return
	}

	var req wellbeingUC.MoodRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBareError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.AnalyzeMood(stdCtx, user.ID, req)
	if err != nil {
		h.respondBareError(ctx, err)
		return
	}
	h.respondBare(ctx, http.StatusOK, result)
}

// @Summary Analyze a journal entry
// @Tags functions
// @Router /functions/v1/analyze-journal [post]
func (h *WellbeingHandler) AnalyzeJournal(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFromRequest(ctx)
	if user == nil {
		BareError(ctx, domain.ErrUnauthorized)
		return
	}

	var req wellbeingUC.JournalRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBareError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.AnalyzeJournal(stdCtx, user.ID, req)
	if err != nil {
		h.respondBareError(ctx, err)
		return
	}
	h.respondBare(ctx, http.StatusOK, result)
}

// @Summary List recent mood check-ins
// @Tags wellbeing
// @Router /api/v1/mood [get]
func (h *WellbeingHandler) MoodHistory(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.MoodHistory(stdCtx, userID, queryInt(ctx, "limit", 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary List recent journal entries
// @Tags wellbeing
// @Router /api/v1/journal [get]
func (h *WellbeingHandler) JournalEntries(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.JournalEntries(stdCtx, userID, queryInt(ctx, "limit", 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary List habits
// @Tags wellbeing
// @Router /api/v1/habits [get]
func (h *WellbeingHandler) ListHabits(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.HabitFilter{
		UserID:     userID,
		CoachType:  domain.CoachType(strings.ToLower(string(ctx.QueryArgs().Peek("coach_type")))),
		ActiveOnly: ctx.QueryArgs().GetBool("active"),
		Limit:      queryInt(ctx, "limit", 100),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	habits, err := h.uc.ListHabits(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, habits)
}

// @Summary Create a habit
// @Tags wellbeing
// @Router /api/v1/habits [post]
func (h *WellbeingHandler) CreateHabit(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var in wellbeingUC.HabitInput
	if !h.decode(ctx, &in) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	habit, err := h.uc.CreateHabit(stdCtx, userID, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, habit)
}

// @Summary Update a habit
// @Tags wellbeing
// @Router /api/v1/habits/{id} [patch]
func (h *WellbeingHandler) UpdateHabit(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx, "id")
	if id == "" {
		return
	}

	var in wellbeingUC.HabitInput
	if !h.decode(ctx, &in) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	habit, err := h.uc.UpdateHabit(stdCtx, userID, id, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, habit)
}

// @Summary Toggle today's habit completion
// @Tags wellbeing
// @Router /api/v1/habits/{id}/toggle [post]
func (h *WellbeingHandler) ToggleHabit(ctx *fasthttp.RequestCtx) {
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

	habit, err := h.uc.ToggleHabit(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, habit)
}

// @Summary Delete a habit
// @Tags wellbeing
// @Router /api/v1/habits/{id} [delete]
func (h *WellbeingHandler) DeleteHabit(ctx *fasthttp.RequestCtx) {
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

	if err := h.uc.DeleteHabit(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
