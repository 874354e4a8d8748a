package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	pgInfra "github.com/fastygo/coachly/internal/infrastructure/postgres"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/repository/postgres"
)

// newPool migrates and connects to DATABASE_URL, skipping when it is unset.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	require.NoError(t, pgInfra.Migrate(dsn, "coachly", nil))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedGoal(t *testing.T, pool *pgxpool.Pool, userID string) *domain.Goal {
	t.Helper()
	goal, err := postgres.NewGoalRepository(pool).Create(context.Background(), &domain.Goal{
		UserID:           userID,
		Description:      "Run a 5k",
		DailyTimeMinutes: 20,
		Difficulty:       domain.DifficultyEasy,
		AutopilotEnabled: true,
		Status:           domain.GoalActive,
	})
	require.NoError(t, err)
	return goal
}

func TestReportRoundTrip(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	goal := seedGoal(t, pool, userID)
	reports := postgres.NewReportRepository(pool)
	weekStart := time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)

	report := &domain.Report{
		GoalID:           goal.ID,
		UserID:           userID,
		WeekStart:        weekStart,
		Summary:          "Solid week",
		PerformanceScore: 72.5,
		CompletionRate:   33.33,
		Insights: domain.ProductivityInsights{
			Insights:     []string{"Mornings work best"},
			Improvements: []string{"Sleep earlier"},
		},
		AIFeedback:       "Keep going",
		NextWeekStrategy: "Add one run",
	}
	require.NoError(t, reports.Save(ctx, report))

	loaded, err := reports.GetForWeek(ctx, goal.ID, weekStart)
	require.NoError(t, err)
	assert.Equal(t, 72.5, loaded.PerformanceScore)
	assert.Equal(t, 33.33, loaded.CompletionRate)
	assert.Equal(t, []string{"Mornings work best"}, loaded.Insights.Insights)
	assert.Equal(t, "Keep going", loaded.AIFeedback)

	// same week replaces the earlier report
	report.ID = ""
	report.PerformanceScore = 80
	require.NoError(t, reports.Save(ctx, report))
	list, err := reports.ListByGoal(ctx, goal.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 80.0, list[0].PerformanceScore)
}

func TestTaskAndActivityStores(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	goal := seedGoal(t, pool, userID)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tasks := postgres.NewTaskRepository(pool)
	created, err := tasks.CreateBatch(ctx, []domain.Task{
		{GoalID: goal.ID, UserID: userID, Text: "Walk", Priority: domain.PriorityHigh, DueDate: day},
		{GoalID: goal.ID, UserID: userID, Text: "Stretch", Priority: domain.PriorityLow, DueDate: day.AddDate(0, 0, 1)},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	due, err := tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueOn: &day})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Walk", due[0].Text)

	activity := postgres.NewActivityLogRepository(pool)
	log := &domain.ActivityLog{GoalID: goal.ID, UserID: userID, LogDate: day, TasksCompleted: 1, TasksTotal: 2, CompletionRate: 50}
	require.NoError(t, activity.Upsert(ctx, log))
	log.TasksCompleted = 2
	log.CompletionRate = 100
	require.NoError(t, activity.Upsert(ctx, log))

	recent, err := activity.ListRecent(ctx, goal.ID, 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 100.0, recent[0].CompletionRate)
}

func TestGoalDeadlineIsACalendarDay(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	goals := postgres.NewGoalRepository(pool)
	deadline := domain.DateOf(time.Now().UTC()).AddDate(0, 0, 7)

	goal, err := goals.Create(ctx, &domain.Goal{
		UserID:           "it-" + uuid.NewString(),
		Description:      "Read a book",
		Deadline:         &deadline,
		DailyTimeMinutes: 15,
		Difficulty:       domain.DifficultyMedium,
		Status:           domain.GoalActive,
	})
	require.NoError(t, err)

	loaded, err := goals.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Deadline)
	assert.Equal(t, deadline, *loaded.Deadline)
	assert.True(t, loaded.Covers(deadline.Add(18*time.Hour)))
	assert.False(t, loaded.Covers(deadline.AddDate(0, 0, 1)))
}

func TestStreakCountedSticksAcrossUpserts(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	goal := seedGoal(t, pool, userID)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	activity := postgres.NewActivityLogRepository(pool)

	missing, err := activity.GetForDay(ctx, goal.ID, day)
	require.NoError(t, err)
	assert.Nil(t, missing)

	log := &domain.ActivityLog{GoalID: goal.ID, UserID: userID, LogDate: day, TasksCompleted: 1, TasksTotal: 1, CompletionRate: 100, StreakCounted: true}
	require.NoError(t, activity.Upsert(ctx, log))

	undone := &domain.ActivityLog{GoalID: goal.ID, UserID: userID, LogDate: day, TasksTotal: 1}
	require.NoError(t, activity.Upsert(ctx, undone))
	assert.True(t, undone.StreakCounted)

	stored, err := activity.GetForDay(ctx, goal.ID, day)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 0, stored.TasksCompleted)
	assert.True(t, stored.StreakCounted)
	assert.Equal(t, day, stored.LogDate)
}

func TestTaskListWithoutLimitReturnsEveryRow(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	goal := seedGoal(t, pool, userID)
	weekStart := time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)

	batch := make([]domain.Task, 0, 130)
	for i := 0; i < 130; i++ {
		batch = append(batch, domain.Task{
			GoalID:   goal.ID,
			UserID:   userID,
			Text:     "Task",
			Priority: domain.PriorityMedium,
			DueDate:  weekStart.AddDate(0, 0, i%7),
		})
	}
	tasks := postgres.NewTaskRepository(pool)
	_, err := tasks.CreateBatch(ctx, batch)
	require.NoError(t, err)

	all, err := tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, DueFrom: &weekStart})
	require.NoError(t, err)
	assert.Len(t, all, 130)

	page, err := tasks.List(ctx, repository.TaskFilter{GoalID: goal.ID, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page, 100)
}

func TestReportWithCorruptInsightsFails(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	goal := seedGoal(t, pool, userID)
	reports := postgres.NewReportRepository(pool)
	weekStart := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, reports.Save(ctx, &domain.Report{GoalID: goal.ID, UserID: userID, WeekStart: weekStart, Summary: "ok"}))
	_, err := pool.Exec(ctx, `UPDATE autopilot_reports SET productivity_insights = '"not an object"' WHERE goal_id = $1`, goal.ID)
	require.NoError(t, err)

	_, err = reports.GetForWeek(ctx, goal.ID, weekStart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "productivity_insights")
}

func TestProfileCreateKeepsExistingRow(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	profiles := postgres.NewProfileRepository(pool)
	id := "it-" + uuid.NewString()
	trialEnds := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)

	first, err := profiles.Create(ctx, &domain.Profile{ID: id, Email: "a@example.com", SubscriptionStatus: domain.SubscriptionTrial, TrialEndsAt: trialEnds})
	require.NoError(t, err)
	second, err := profiles.Create(ctx, &domain.Profile{ID: id, Email: "b@example.com", SubscriptionStatus: domain.SubscriptionTrial, TrialEndsAt: trialEnds.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", second.Email)
	assert.True(t, first.TrialEndsAt.Equal(second.TrialEndsAt))

	updated, err := profiles.UpdateEmail(ctx, id, "c@example.com")
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", updated.Email)

	_, err = profiles.GetByID(ctx, "it-missing-"+uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestMoodAndJournalNewestFirst(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	moods := postgres.NewMoodRepository(pool)
	journal := postgres.NewJournalRepository(pool)

	for score := 1; score <= 3; score++ {
		require.NoError(t, moods.Create(ctx, &domain.MoodEntry{UserID: userID, MoodText: "day", DetectedMood: "ok", MoodScore: score, Emotions: []string{"calm"}}))
		time.Sleep(5 * time.Millisecond)
	}
	recent, err := moods.ListRecent(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].MoodScore)
	assert.Equal(t, []string{"calm"}, recent[0].Emotions)
	assert.Equal(t, []string{}, recent[0].Suggestions)

	positivity := 6
	require.NoError(t, journal.Create(ctx, &domain.JournalEntry{UserID: userID, Content: "notes", Themes: []string{"work"}, PositivityIndex: &positivity}))
	entries, err := journal.ListRecent(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].PositivityIndex)
	assert.Equal(t, 6, *entries[0].PositivityIndex)
	assert.Equal(t, []string{"work"}, entries[0].Themes)
}

func TestHabitStore(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	habits := postgres.NewHabitRepository(pool)

	habit := &domain.Habit{UserID: userID, Name: "Meditate", CoachType: domain.CoachMindfulness, IsActive: true}
	require.NoError(t, habits.Create(ctx, habit))
	require.NoError(t, habits.Create(ctx, &domain.Habit{UserID: userID, Name: "No coach", IsActive: false}))

	now := time.Now().UTC()
	require.True(t, habit.Complete(now))
	require.NoError(t, habits.Update(ctx, habit))

	loaded, err := habits.GetByID(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.StreakCount)
	assert.True(t, loaded.CompletedOn(now))

	mindful, err := habits.List(ctx, repository.HabitFilter{UserID: userID, CoachType: domain.CoachMindfulness})
	require.NoError(t, err)
	assert.Len(t, mindful, 1)
	active, err := habits.List(ctx, repository.HabitFilter{UserID: userID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := habits.List(ctx, repository.HabitFilter{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, habits.Delete(ctx, habit.ID))
	assert.ErrorIs(t, habits.Delete(ctx, habit.ID), domain.ErrHabitNotFound)
}
