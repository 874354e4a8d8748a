package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/testutil"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/usecase/task"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newUseCase() (*task.UseCase, *testutil.Store) {
	store := testutil.NewStore()
	store.Now = testutil.FixedClock(now)
	return task.New(store.CoachTasks(), nil).WithClock(testutil.FixedClock(now)), store
}

func TestCreateTask_Defaults(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.CreateTask(context.Background(), &domain.CoachTask{UserID: "u1", Title: "  Stretch  ", Priority: "whatever"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Stretch", created.Title)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, domain.CoachTaskPending, created.Status)
	assert.Equal(t, domain.CoachFitness, created.CoachType)
	assert.Nil(t, created.CompletedAt)
}

func TestCreateTask_Validation(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CreateTask(context.Background(), &domain.CoachTask{UserID: "u1", Title: " "})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.CreateTask(context.Background(), &domain.CoachTask{UserID: "u1", Title: "x", Status: "done"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.CreateTask(context.Background(), &domain.CoachTask{UserID: "u1", Title: "x", CoachType: "wizard"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestToggleTask(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, &domain.CoachTask{UserID: "u1", Title: "Budget", CoachType: domain.CoachFinance})
	require.NoError(t, err)

	toggled, err := uc.ToggleTask(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CoachTaskCompleted, toggled.Status)
	require.NotNil(t, toggled.CompletedAt)
	assert.True(t, toggled.CompletedAt.Equal(now))

	toggled, err = uc.ToggleTask(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CoachTaskPending, toggled.Status)
	assert.Nil(t, toggled.CompletedAt)

	_, err = uc.ToggleTask(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, domain.ErrCoachTaskNotFound)
}

func TestUpdateTask_KeepsCoachTypeAndTracksCompletion(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, &domain.CoachTask{UserID: "u1", Title: "Meditate", CoachType: domain.CoachMindfulness})
	require.NoError(t, err)

	updated, err := uc.UpdateTask(ctx, &domain.CoachTask{ID: created.ID, UserID: "u1", Title: "Meditate 10 min", Status: domain.CoachTaskCompleted, Priority: domain.PriorityHigh})
	require.NoError(t, err)

	assert.Equal(t, domain.CoachMindfulness, updated.CoachType)
	assert.Equal(t, "Meditate 10 min", updated.Title)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.CompletedAt)

	_, err = uc.UpdateTask(ctx, &domain.CoachTask{ID: created.ID, UserID: "u2", Title: "hijack"})
	assert.ErrorIs(t, err, domain.ErrCoachTaskNotFound)
}

func TestListAndDelete(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	a, _ := uc.CreateTask(ctx, &domain.CoachTask{UserID: "u1", Title: "a", CoachType: domain.CoachCareer})
	_, _ = uc.CreateTask(ctx, &domain.CoachTask{UserID: "u1", Title: "b", CoachType: domain.CoachFitness})
	_, _ = uc.CreateTask(ctx, &domain.CoachTask{UserID: "u2", Title: "c", CoachType: domain.CoachCareer})

	tasks, err := uc.ListTasks(ctx, repository.CoachTaskFilter{UserID: "u1", CoachType: domain.CoachCareer})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Title)

	_, err = uc.ListTasks(ctx, repository.CoachTaskFilter{UserID: "u1", Status: "bogus"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	assert.ErrorIs(t, uc.DeleteTask(ctx, "u2", a.ID), domain.ErrCoachTaskNotFound)
	require.NoError(t, uc.DeleteTask(ctx, "u1", a.ID))

	tasks, err = uc.ListTasks(ctx, repository.CoachTaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
