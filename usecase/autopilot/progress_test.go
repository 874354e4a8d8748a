package autopilot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/internal/testutil"
)

func TestToggleTask_CompletingDayBumpsStreakAndProgress(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(testutil.WithProgress(10, 4))
	done := testutil.NewTestTask(goal, "done", today, true)
	open := testutil.NewTestTask(goal, "open", today, false)
	h.store.PutTasks(done, open)

	result, err := h.uc.ToggleTask(context.Background(), userID, open.ID)
	require.NoError(t, err)

	assert.True(t, result.Task.Completed)
	require.NotNil(t, result.Task.CompletedAt)
	assert.Equal(t, 5, result.Goal.StreakCount)
	// round(5/2) rounds half up to 3.
	assert.Equal(t, 13, result.Goal.ProgressPercent)
	assert.Equal(t, 2, result.ActivityLog.TasksCompleted)
	assert.Equal(t, 2, result.ActivityLog.TasksTotal)
	assert.Equal(t, 100.0, result.ActivityLog.CompletionRate)

	stored, _ := h.store.Goals().GetByID(context.Background(), goal.ID)
	assert.Equal(t, 5, stored.StreakCount)
	assert.Equal(t, 13, stored.ProgressPercent)
	require.NotNil(t, stored.LastActiveAt)

	log, err := h.store.Activity().GetForDay(context.Background(), goal.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 100.0, log.CompletionRate)
}

func TestToggleTask_PartialDayKeepsStreak(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(testutil.WithProgress(0, 2))
	a := testutil.NewTestTask(goal, "a", today, false)
	b := testutil.NewTestTask(goal, "b", today, false)
	c := testutil.NewTestTask(goal, "c", today, false)
	h.store.PutTasks(a, b, c)

	result, err := h.uc.ToggleTask(context.Background(), userID, a.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Goal.StreakCount)
	assert.Equal(t, 2, result.Goal.ProgressPercent)
	assert.InDelta(t, 33.33, result.ActivityLog.CompletionRate, 0.01)
}

func TestToggleTask_UncompleteTakesProgressBack(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(testutil.WithProgress(50, 1))
	a := testutil.NewTestTask(goal, "a", today, true)
	b := testutil.NewTestTask(goal, "b", today, true)
	h.store.PutTasks(a, b)

	result, err := h.uc.ToggleTask(context.Background(), userID, a.ID)
	require.NoError(t, err)

	assert.False(t, result.Task.Completed)
	assert.Nil(t, result.Task.CompletedAt)
	assert.Equal(t, 50.0, result.ActivityLog.CompletionRate)

	stored, _ := h.store.Goals().GetByID(context.Background(), goal.ID)
	assert.Equal(t, 47, stored.ProgressPercent)
	assert.Equal(t, 1, stored.StreakCount)
}

func TestToggleTask_FutureTaskLeavesStreak(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(testutil.WithProgress(10, 3))
	open := testutil.NewTestTask(goal, "today", today, false)
	later := testutil.NewTestTask(goal, "later", today.AddDate(0, 0, 4), false)
	h.store.PutTasks(open, later)

	result, err := h.uc.ToggleTask(context.Background(), userID, later.ID)
	require.NoError(t, err)

	assert.True(t, result.Task.Completed)
	assert.Equal(t, 3, result.Goal.StreakCount)
	assert.Equal(t, 15, result.Goal.ProgressPercent)
	assert.True(t, result.ActivityLog.FullyComplete())
	assert.False(t, result.ActivityLog.StreakCounted)
	assert.Equal(t, domain.DateOf(later.DueDate), result.ActivityLog.LogDate)

	stillOpen, err := h.store.Tasks().GetByID(context.Background(), open.ID)
	require.NoError(t, err)
	assert.False(t, stillOpen.Completed)

	todayLog, err := h.store.Activity().GetForDay(context.Background(), goal.ID, today)
	require.NoError(t, err)
	assert.Nil(t, todayLog)
}

func TestToggleTask_RetoggleCountsDayOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.seedGoal(testutil.WithProgress(10, 2))
	only := testutil.NewTestTask(goal, "only", today, false)
	h.store.PutTasks(only)

	for i := 0; i < 3; i++ {
		done, err := h.uc.ToggleTask(ctx, userID, only.ID)
		require.NoError(t, err)
		require.True(t, done.Task.Completed)
		assert.Equal(t, 3, done.Goal.StreakCount)
		assert.Equal(t, 15, done.Goal.ProgressPercent)

		undone, err := h.uc.ToggleTask(ctx, userID, only.ID)
		require.NoError(t, err)
		require.False(t, undone.Task.Completed)
		assert.Equal(t, 3, undone.Goal.StreakCount)
		assert.Equal(t, 10, undone.Goal.ProgressPercent)
		assert.True(t, undone.ActivityLog.StreakCounted)
	}

	stored, _ := h.store.Goals().GetByID(ctx, goal.ID)
	assert.Equal(t, 3, stored.StreakCount)
	assert.Equal(t, 10, stored.ProgressPercent)

	log, err := h.store.Activity().GetForDay(ctx, goal.ID, today)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.StreakCounted)
}

func TestToggleTask_ProgressCappedAt100(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(testutil.WithProgress(99, 0))
	only := testutil.NewTestTask(goal, "only", today, false)
	h.store.PutTasks(only)

	result, err := h.uc.ToggleTask(context.Background(), userID, only.ID)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Goal.ProgressPercent)
	assert.Equal(t, 1, result.Goal.StreakCount)
}

func TestToggleTask_OtherUsersTask(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal()
	task := testutil.NewTestTask(goal, "mine", today, false)
	h.store.PutTasks(task)

	_, err := h.uc.ToggleTask(context.Background(), "intruder", task.ID)

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestToggleTask_ActivityBufferedWhenStoreFails(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal()
	task := testutil.NewTestTask(goal, "x", today, false)
	h.store.PutTasks(task)
	h.store.FailActivity = true

	_, err := h.uc.ToggleTask(context.Background(), userID, task.ID)
	require.NoError(t, err)

	require.Len(t, h.buffer.Activity, 1)
	assert.Equal(t, 100.0, h.buffer.Activity[0].CompletionRate)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.seedGoal()

	active, err := h.uc.ActiveGoal(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, active.ID)

	_, err = h.uc.ActiveGoal(ctx, "nobody")
	assert.Equal(t, "Goal not found", domain.ErrorMessage(err))

	updated, err := h.uc.SetAutopilot(ctx, userID, goal.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.AutopilotEnabled)

	_, err = h.uc.SetStatus(ctx, userID, goal.ID, "deleted")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	updated, err = h.uc.SetStatus(ctx, userID, goal.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, updated.Status)

	_, err = h.uc.ActiveGoal(ctx, userID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	logs, err := h.uc.Activity(ctx, userID, goal.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestNotifications(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Notifications().Create(ctx, &domain.Notification{UserID: userID, Type: domain.NotificationReminder, Title: "a"}))
	require.NoError(t, h.store.Notifications().Create(ctx, &domain.Notification{UserID: userID, Type: domain.NotificationReminder, Title: "b"}))

	items, err := h.uc.Notifications(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Title)

	require.NoError(t, h.uc.MarkNotificationRead(ctx, userID, items[0].ID))
	assert.Error(t, h.uc.MarkNotificationRead(ctx, "intruder", items[1].ID))

	items, err = h.uc.Notifications(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)
}

func TestSweep(t *testing.T) {
	h := newHarness(t)
	idle := h.seedGoal(testutil.WithLastActive(today.AddDate(0, 0, -8)))
	planned := h.seedGoal(testutil.WithLastActive(today))
	h.store.PutTasks(testutil.NewTestTask(planned, "already there", today, false))
	paused := h.seedGoal(testutil.WithAutopilot(false))

	h.llm.Respond(llm.TaskBehavior, behaviorJSON)
	h.llm.Respond(llm.TaskDailyTasks, `{"tasks":[{"task_text":"Walk","priority":"low"}],"adjustment_reason":null,"encouragement":"Go"}`)

	stats, err := h.uc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Goals)
	assert.Equal(t, 2, stats.Analyzed)
	assert.Equal(t, 1, stats.Generated)
	assert.Zero(t, stats.Failed)

	idleToday, _ := h.uc.TodayTasks(context.Background(), userID, idle.ID)
	assert.Len(t, idleToday, 1)
	pausedToday, _ := h.uc.TodayTasks(context.Background(), userID, paused.ID)
	assert.Empty(t, pausedToday)

	stored, _ := h.store.Goals().GetByID(context.Background(), idle.ID)
	assert.Equal(t, idle.LastActiveAt.Unix(), stored.LastActiveAt.Unix())

	urgent := 0
	for _, n := range h.store.AllNotifications() {
		if n.Type == domain.NotificationUrgent {
			urgent++
		}
	}
	assert.Equal(t, 1, urgent)
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	h := newHarness(t)
	h.seedGoal()
	h.seedGoal()
	h.llm.Fail(llm.TaskBehavior, llm.ErrRateLimited)

	stats, err := h.uc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Goals)
	assert.Equal(t, 2, stats.Failed)
}
