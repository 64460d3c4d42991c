package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etugal/internal/models"
)

func newTaskFixture(t *testing.T) (TaskService, *fakeTaskRepo, *fakeUserRepo, *fakeNotifier) {
	t.Helper()
	users := newFakeUserRepo()
	tasks := newFakeTaskRepo()
	notify := &fakeNotifier{}
	trust := NewTrustService(users, &fakeEmailService{})
	return NewTaskService(tasks, users, trust, notify), tasks, users, notify
}

func TestCreateTaskStartsPendingUnassigned(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{
		Title:       "Fix the fence",
		Description: "Back yard",
		CategoryID:  1,
		// performer must be ignored even if a client smuggles one in
		PerformerID: &provider.ID,
		Status:      models.StatusCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.PerformerID)
	assert.False(t, task.IsDonePerform)
	assert.Equal(t, provider.ID, task.ProviderID)
}

func TestCreateTaskSuspendedProviderRejected(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{IsSuspended: true})

	_, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "x"})
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestAssignPerformerMovesToInProgress(t *testing.T) {
	svc, _, users, notify := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	performer := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)

	updated, err := svc.AssignPerformer(context.Background(), task.ID, performer.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, updated.Status)
	require.NotNil(t, updated.PerformerID)
	assert.Equal(t, performer.ID, *updated.PerformerID)
	assert.Len(t, notify.pushes, 1)
}

func TestAssignPerformerUnknownProfile(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)

	_, err = svc.AssignPerformer(context.Background(), task.ID, 9999)
	assert.ErrorIs(t, err, ErrPerformerNotFound)
}

func TestPatchStatusRejectsUnknownValue(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)

	_, err = svc.PatchStatus(context.Background(), task.ID, "DONE")
	require.ErrorIs(t, err, ErrInvalidStatus)
	// the message enumerates every accepted value
	assert.Contains(t, err.Error(), "PENDING")
	assert.Contains(t, err.Error(), "REJECTED")
}

func TestPatchStatusCompletedRequiresDonePerform(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	performer := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)
	_, err = svc.AssignPerformer(context.Background(), task.ID, performer.ID)
	require.NoError(t, err)

	_, err = svc.PatchStatus(context.Background(), task.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrTaskNotDone)

	_, err = svc.MarkDonePerform(context.Background(), task.ID, performer.ID, true)
	require.NoError(t, err)

	updated, err := svc.PatchStatus(context.Background(), task.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestMarkDonePerformRequiresAssignment(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)

	_, err = svc.MarkDonePerform(context.Background(), task.ID, provider.ID, true)
	assert.ErrorIs(t, err, ErrNoPerformerAssigned)
}

func TestMarkDonePerformOnlyByAssignedPerformer(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	performer := users.addProfile(&models.UserProfile{})
	stranger := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)
	_, err = svc.AssignPerformer(context.Background(), task.ID, performer.ID)
	require.NoError(t, err)

	_, err = svc.MarkDonePerform(context.Background(), task.ID, stranger.ID, true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMarkDonePerformNotifiesProviderOnce(t *testing.T) {
	svc, _, users, notify := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	performer := users.addProfile(&models.UserProfile{})

	task, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Paint"})
	require.NoError(t, err)
	_, err = svc.AssignPerformer(context.Background(), task.ID, performer.ID)
	require.NoError(t, err)
	notify.pushes = nil

	_, err = svc.MarkDonePerform(context.Background(), task.ID, performer.ID, true)
	require.NoError(t, err)
	assert.Len(t, notify.pushes, 1)

	// re-flagging an already-done task must not push again
	_, err = svc.MarkDonePerform(context.Background(), task.ID, performer.ID, true)
	require.NoError(t, err)
	assert.Len(t, notify.pushes, 1)
}

func TestListOpenExcludesOwnAndAssignedTasks(t *testing.T) {
	svc, _, users, _ := newTaskFixture(t)
	provider := users.addProfile(&models.UserProfile{})
	other := users.addProfile(&models.UserProfile{})
	performer := users.addProfile(&models.UserProfile{})

	mine, err := svc.Create(context.Background(), provider.ID, &models.Task{Title: "Mine"})
	require.NoError(t, err)
	open, err := svc.Create(context.Background(), other.ID, &models.Task{Title: "Open"})
	require.NoError(t, err)
	assigned, err := svc.Create(context.Background(), other.ID, &models.Task{Title: "Taken"})
	require.NoError(t, err)
	_, err = svc.AssignPerformer(context.Background(), assigned.ID, performer.ID)
	require.NoError(t, err)

	feed, err := svc.ListOpen(context.Background(), provider.ID, nil, "")
	require.NoError(t, err)

	require.Len(t, feed, 1)
	assert.Equal(t, open.ID, feed[0].ID)
	assert.NotEqual(t, mine.ID, feed[0].ID)
}
