package autopilot_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/internal/testutil"
	"github.com/fastygo/coachly/usecase"
	"github.com/fastygo/coachly/usecase/autopilot"
)

const userID = "user-1"

// 2025-01-01 is a Wednesday; its week starts on Sunday 2024-12-29.
var today = time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	store  *testutil.Store
	llm    *testutil.FakeLLM
	buffer *testutil.RecordingBuffer
	uc     *autopilot.UseCase
	d      *usecase.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := testutil.NewStore()
	store.Now = testutil.FixedClock(today)
	fake := testutil.NewFakeLLM()
	buffer := &testutil.RecordingBuffer{}

	uc := autopilot.New(autopilot.Repositories{
		Goals:         store.Goals(),
		Tasks:         store.Tasks(),
		Activity:      store.Activity(),
		Notifications: store.Notifications(),
		Reports:       store.Reports(),
	}, fake, buffer, nil).WithClock(testutil.FixedClock(today))

	d := usecase.NewDispatcher()
	uc.Register(d)
	return &harness{store: store, llm: fake, buffer: buffer, uc: uc, d: d}
}

func (h *harness) seedGoal(opts ...testutil.GoalOption) domain.Goal {
	g := testutil.NewTestGoal(userID, today.AddDate(0, 0, -14), opts...)
	h.store.PutGoal(g)
	return g
}

const planJSON = "```json\n" + `{
  "milestones": [{"title": "Base", "description": "Build a base", "target_date": "2025-02-01", "tasks": ["jog"], "metrics": ["km"]}],
  "daily_schedule": {"morning": ["stretch"], "afternoon": [], "evening": ["walk"]},
  "first_week_tasks": [
    {"task_text": "Walk 15 minutes", "priority": "high", "day": 1},
    {"task_text": "Jog 1 km", "priority": "Medium", "day": 3},
    {"task_text": "Rest and stretch", "priority": "whenever", "day": 7}
  ],
  "motivational_note": "Every step counts.",
  "estimated_completion": "2025-03-01",
  "difficulty_assessment": "Achievable"
}` + "\n```"

func TestExpandFirstWeek(t *testing.T) {
	goal := &domain.Goal{ID: "g1", UserID: userID, CreatedAt: today}
	planned := []autopilot.PlannedTask{
		{TaskText: "first", Priority: "high", Day: 1},
		{TaskText: "last", Day: 7},
	}

	tasks := autopilot.ExpandFirstWeek(goal, planned, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, tasks, 2)
	assert.Equal(t, "2025-01-01", tasks[0].DueDate.Format(domain.DateLayout))
	assert.Equal(t, "2025-01-07", tasks[1].DueDate.Format(domain.DateLayout))
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)
}

func TestExpandFirstWeek_DropsTasksPastDeadline(t *testing.T) {
	deadline := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	goal := &domain.Goal{ID: "g1", UserID: userID, CreatedAt: today, Deadline: &deadline}
	planned := []autopilot.PlannedTask{{TaskText: "a", Day: 1}, {TaskText: "b", Day: 3}, {TaskText: "c", Day: 4}}

	tasks := autopilot.ExpandFirstWeek(goal, planned, today)

	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[1].Text)
}

func TestValidatePlan(t *testing.T) {
	assert.NoError(t, autopilot.ValidatePlan(autopilot.Plan{FirstWeekTasks: []autopilot.PlannedTask{{TaskText: "x", Day: 7}}}))
	assert.Error(t, autopilot.ValidatePlan(autopilot.Plan{FirstWeekTasks: []autopilot.PlannedTask{{TaskText: "x", Day: 8}}}))
	assert.Error(t, autopilot.ValidatePlan(autopilot.Plan{FirstWeekTasks: []autopilot.PlannedTask{{TaskText: " ", Day: 1}}}))
}

func TestGeneratePlan_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.llm.Respond(llm.TaskPlan, planJSON)

	out, err := h.d.Execute(context.Background(), autopilot.ActionGeneratePlan, userID,
		json.RawMessage(`{"goalDescription":"Run a 5k","dailyTime":20,"difficulty":"easy"}`))
	require.NoError(t, err)

	result, ok := out.(*autopilot.PlanResult)
	require.True(t, ok)
	assert.Equal(t, domain.DifficultyEasy, result.Goal.Difficulty)
	assert.Equal(t, 20, result.Goal.DailyTimeMinutes)
	assert.True(t, result.Goal.AutopilotEnabled)
	assert.JSONEq(t, `[{"title": "Base", "description": "Build a base", "target_date": "2025-02-01", "tasks": ["jog"], "metrics": ["km"]}]`,
		string(result.Goal.Milestones))
	assert.Len(t, result.Plan.Milestones, 1)

	goals := h.store.AllGoals()
	require.Len(t, goals, 1)
	assert.Equal(t, domain.DifficultyEasy, goals[0].Difficulty)

	tasks := h.store.AllTasks()
	require.NotEmpty(t, tasks)
	limit := domain.DateOf(today).AddDate(0, 0, 7)
	for _, task := range tasks {
		assert.Equal(t, goals[0].ID, task.GoalID)
		assert.False(t, task.DueDate.Before(domain.DateOf(today)))
		assert.True(t, task.DueDate.Before(limit))
	}
	assert.Equal(t, domain.PriorityMedium, tasks[2].Priority)

	notes := h.store.AllNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationWelcome, notes[0].Type)
	assert.Equal(t, "🚀 Autopilot Activated!", notes[0].Title)
	assert.Equal(t, `Your plan for "Run a 5k" is ready. Every step counts.`, notes[0].Message)

	req, ok := h.llm.LastRequest(llm.TaskPlan)
	require.True(t, ok)
	assert.Contains(t, req.UserPrompt, "Goal: Run a 5k")
	assert.Contains(t, req.UserPrompt, "Deadline: Flexible")
	assert.Contains(t, req.UserPrompt, "Daily available time: 20 minutes")
}

func TestGeneratePlan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing description", `{"dailyTime":20}`},
		{"zero daily time", `{"goalDescription":"x","dailyTime":0}`},
		{"bad difficulty", `{"goalDescription":"x","dailyTime":10,"difficulty":"insane"}`},
		{"bad deadline", `{"goalDescription":"x","dailyTime":10,"deadline":"soon"}`},
		{"bad motivation", `{"goalDescription":"x","dailyTime":10,"motivationType":"money"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.d.Execute(context.Background(), autopilot.ActionGeneratePlan, userID, json.RawMessage(tt.payload))
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
			assert.Zero(t, h.llm.Calls(llm.TaskPlan))
		})
	}
}

func TestGeneratePlan_UpstreamErrors(t *testing.T) {
	tests := []struct {
		err     error
		code    domain.ErrorCode
		message string
	}{
		{llm.ErrRateLimited, domain.ErrCodeRateLimited, "Rate limits exceeded. Please try again later."},
		{llm.ErrCreditsExhausted, domain.ErrCodePaymentRequired, "AI credits exhausted. Please add credits."},
		{llm.ErrUpstream, domain.ErrCodeInternal, "AI request failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			h := newHarness(t)
			h.llm.Fail(llm.TaskPlan, tt.err)

			_, err := h.uc.GeneratePlan(context.Background(), userID, autopilot.PlanInput{GoalDescription: "Run a 5k", DailyTime: 20})
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.code))
			assert.Equal(t, tt.message, domain.ErrorMessage(err))
			assert.Equal(t, 1, h.llm.Calls(llm.TaskPlan))
			assert.Empty(t, h.store.AllGoals())
		})
	}
}

func TestGeneratePlan_InvalidModelOutput(t *testing.T) {
	h := newHarness(t)
	h.llm.Respond(llm.TaskPlan, "I cannot help with that.")

	_, err := h.uc.GeneratePlan(context.Background(), userID, autopilot.PlanInput{GoalDescription: "Run a 5k", DailyTime: 20})

	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidModelOutput))
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
	assert.Empty(t, h.store.AllGoals())
}

func TestGeneratePlan_NotificationFallsBackToBuffer(t *testing.T) {
	h := newHarness(t)
	h.llm.Respond(llm.TaskPlan, planJSON)
	h.store.FailNotifications = true

	_, err := h.uc.GeneratePlan(context.Background(), userID, autopilot.PlanInput{GoalDescription: "Run a 5k", DailyTime: 20})

	require.NoError(t, err)
	require.Len(t, h.buffer.Notifications, 1)
	assert.Equal(t, domain.NotificationWelcome, h.buffer.Notifications[0].Type)
}
