package wellbeing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/internal/testutil"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/usecase/wellbeing"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *testutil.Store
	llm   *testutil.FakeLLM
	clock time.Time
	uc    *wellbeing.UseCase
}

func newFixture() *fixture {
	f := &fixture{store: testutil.NewStore(), llm: testutil.NewFakeLLM(), clock: now}
	f.store.Now = testutil.FixedClock(now)
	f.uc = wellbeing.New(wellbeing.Repositories{
		Moods:   f.store.Moods(),
		Journal: f.store.Journal(),
		Habits:  f.store.Habits(),
	}, f.llm, nil).WithClock(func() time.Time { return f.clock })
	return f
}

func strPtr(s string) *string { return &s }

func TestAnalyzeMood_StoresEntry(t *testing.T) {
	f := newFixture()
	f.llm.Respond(llm.TaskMood, "```json\n"+`{"detectedMood":" anxious ","moodScore":4,"emotions":["worry"," ","tension"],"suggestions":["Take a short walk"],}`+"\n```")

	got, err := f.uc.AnalyzeMood(context.Background(), "u1", wellbeing.MoodRequest{MoodText: "  Deadlines everywhere  "})
	require.NoError(t, err)
	assert.Equal(t, "anxious", got.DetectedMood)
	assert.Equal(t, 4, got.MoodScore)
	assert.Equal(t, []string{"worry", "tension"}, got.Emotions)
	assert.NotEmpty(t, got.EntryID)

	req, ok := f.llm.LastRequest(llm.TaskMood)
	require.True(t, ok)
	assert.True(t, req.JSONObject)
	assert.Equal(t, "Deadlines everywhere", req.UserPrompt)

	history, err := f.uc.MoodHistory(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 4, history[0].MoodScore)
	assert.Equal(t, "Deadlines everywhere", history[0].MoodText)
}

func TestAnalyzeMood_RejectsScoreOutOfRange(t *testing.T) {
	f := newFixture()
	f.llm.Respond(llm.TaskMood, `{"detectedMood":"great","moodScore":11,"emotions":[],"suggestions":[]}`)

	_, err := f.uc.AnalyzeMood(context.Background(), "u1", wellbeing.MoodRequest{MoodText: "fine"})

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidModelOutput))
	history, err := f.uc.MoodHistory(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAnalyzeMood_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AnalyzeMood(context.Background(), "u1", wellbeing.MoodRequest{MoodText: "   "})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.AnalyzeMood(context.Background(), "", wellbeing.MoodRequest{MoodText: "ok"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	assert.Zero(t, f.llm.Calls(llm.TaskMood))
}

func TestAnalyzeMood_UpstreamRateLimited(t *testing.T) {
	f := newFixture()
	f.llm.Fail(llm.TaskMood, llm.ErrRateLimited)

	_, err := f.uc.AnalyzeMood(context.Background(), "u1", wellbeing.MoodRequest{MoodText: "tired"})

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRateLimited))
}

func TestMoodHistory_NewestFirstAndLimited(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for score := 1; score <= 9; score++ {
		require.NoError(t, f.store.Moods().Create(ctx, &domain.MoodEntry{UserID: "u1", MoodScore: score}))
	}
	require.NoError(t, f.store.Moods().Create(ctx, &domain.MoodEntry{UserID: "u2", MoodScore: 10}))

	week, err := f.uc.MoodHistory(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, 9, week[0].MoodScore)
	assert.Equal(t, 3, week[6].MoodScore)

	two, err := f.uc.MoodHistory(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestAnalyzeJournal(t *testing.T) {
	f := newFixture()
	f.llm.Respond(llm.TaskJournal, `Here you go: {"themes":["work","family"],"patterns":["overcommitting"],"improvements":["block focus time"],"positivityIndex":6,"analysis":"A busy but hopeful week."}`)

	got, err := f.uc.AnalyzeJournal(context.Background(), "u1", wellbeing.JournalRequest{Content: "This week I..."})
	require.NoError(t, err)
	assert.Equal(t, 6, got.PositivityIndex)
	assert.Equal(t, []string{"work", "family"}, got.Themes)

	entries, err := f.uc.JournalEntries(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].PositivityIndex)
	assert.Equal(t, 6, *entries[0].PositivityIndex)
	assert.Equal(t, "A busy but hopeful week.", entries[0].AIAnalysis)
}

func TestAnalyzeJournal_RejectsMissingAnalysis(t *testing.T) {
	f := newFixture()
	f.llm.Respond(llm.TaskJournal, `{"themes":[],"patterns":[],"improvements":[],"positivityIndex":5,"analysis":""}`)

	_, err := f.uc.AnalyzeJournal(context.Background(), "u1", wellbeing.JournalRequest{Content: "meh"})

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidModelOutput))
}

func TestHabits_CreateUpdateDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.CreateHabit(ctx, "u1", wellbeing.HabitInput{Name: strPtr("  ")})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	_, err = f.uc.CreateHabit(ctx, "u1", wellbeing.HabitInput{Name: strPtr("Stretch"), ReminderTime: strPtr("25:00")})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	habit, err := f.uc.CreateHabit(ctx, "u1", wellbeing.HabitInput{Name: strPtr("Stretch"), CoachType: strPtr("fitness"), ReminderTime: strPtr("07:30")})
	require.NoError(t, err)
	assert.True(t, habit.IsActive)
	assert.Equal(t, domain.CoachFitness, habit.CoachType)

	_, err = f.uc.CreateHabit(ctx, "u1", wellbeing.HabitInput{Name: strPtr("Budget review"), CoachType: strPtr("finance")})
	require.NoError(t, err)

	fitness, err := f.uc.ListHabits(ctx, repository.HabitFilter{UserID: "u1", CoachType: domain.CoachFitness})
	require.NoError(t, err)
	require.Len(t, fitness, 1)
	assert.Equal(t, "Stretch", fitness[0].Name)

	inactive := false
	updated, err := f.uc.UpdateHabit(ctx, "u1", habit.ID, wellbeing.HabitInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Stretch", updated.Name)
	assert.Equal(t, "07:30", updated.ReminderTime)

	active, err := f.uc.ListHabits(ctx, repository.HabitFilter{UserID: "u1", ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.uc.UpdateHabit(ctx, "u2", habit.ID, wellbeing.HabitInput{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	assert.ErrorIs(t, f.uc.DeleteHabit(ctx, "u2", habit.ID), domain.ErrHabitNotFound)

	require.NoError(t, f.uc.DeleteHabit(ctx, "u1", habit.ID))
	_, err = f.store.Habits().GetByID(ctx, habit.ID)
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
}

func TestToggleHabit_StreakAcrossDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	habit, err := f.uc.CreateHabit(ctx, "u1", wellbeing.HabitInput{Name: strPtr("Meditate")})
	require.NoError(t, err)

	got, err := f.uc.ToggleHabit(ctx, "u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StreakCount)

	f.clock = now.AddDate(0, 0, 1)
	got, err = f.uc.ToggleHabit(ctx, "u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StreakCount)

	got, err = f.uc.ToggleHabit(ctx, "u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StreakCount)
	require.NotNil(t, got.LastCompletedAt)
	assert.Equal(t, domain.DateOf(now), *got.LastCompletedAt)
	assert.False(t, got.CompletedOn(f.clock))

	f.clock = now.AddDate(0, 0, 3)
	got, err = f.uc.ToggleHabit(ctx, "u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StreakCount)
}
