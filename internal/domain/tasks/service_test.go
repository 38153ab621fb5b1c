package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Task
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Task{}}
}

func (r *testRepo) Create(ctx context.Context, t Task) error {
	if _, ok := r.byID[t.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]Task, error) {
	out := []Task{}
	for _, id := range r.order {
		t, ok := r.byID[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.PetName != "" && t.PetName != f.PetName {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, t Task) error {
	if _, ok := r.byID[t.ID]; !ok {
		return ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testReminders struct {
	scheduled []schedule.Reminder
	completed []schedule.Correlation
	err       error
}

func (r *testReminders) Schedule(ctx context.Context, rem schedule.Reminder) error {
	r.scheduled = append(r.scheduled, rem)
	return r.err
}

func (r *testReminders) CompleteMatching(ctx context.Context, c schedule.Correlation) (int, error) {
	r.completed = append(r.completed, c)
	return 1, r.err
}

// -------------------------
// Helpers
// -------------------------

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository, rem schedule.Reminders, log logger.Logger) *Service {
	svc := NewService(repo, schedule.Deps{
		Location:  time.UTC,
		Anomalies: schedule.NewAnomalyLog(log),
		Reminders: rem,
		Log:       log,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateSchedulesReminderOnlyWhenAsked(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem, nil)

	quiet, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Walk", PetName: "Milo", TaskDate: "2024-05-02T08:00:00.000Z",
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPending, quiet.Status)
	assert.Empty(t, rem.scheduled)

	loud, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Pill", PetName: "Milo", TaskDate: "2024-05-02", Reminder: true,
	})
	require.NoError(t, err)
	require.Len(t, rem.scheduled, 1)
	assert.Equal(t, loud.ID, rem.scheduled[0].SourceID)
	assert.Equal(t, schedule.ReminderTask, rem.scheduled[0].Kind)
	assert.Equal(t, "2024-05-02", rem.scheduled[0].Due.String())
}

func TestService_CreateValidatesInput(t *testing.T) {
	svc := newTestService(newTestRepo(), nil, nil)

	_, err := svc.Create(context.Background(), "", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-02"})
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)

	_, err = svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", TaskDate: "2024-05-02"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "mañana"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CompleteIsIdempotentAndFollowsUp(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem, nil)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-04-20"})
	require.NoError(t, err)

	// Missed también se puede completar
	assert.Equal(t, schedule.BucketMissed, svc.Bucket(task))

	done, err := svc.Complete(context.Background(), "o1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, done.Status)
	assert.Equal(t, schedule.StatusCompleted, repo.byID[task.ID].Status)

	again, err := svc.Complete(context.Background(), "o1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, again.Status)

	require.Len(t, rem.completed, 2)
	assert.Equal(t, task.ID, rem.completed[0].SourceID)
	assert.Equal(t, "Milo", rem.completed[0].Subject)
}

func TestService_CompleteSurvivesNotificationFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))
	repo := newTestRepo()
	rem := &testReminders{err: errors.New("notifications down")}
	svc := newTestService(repo, rem, log)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-01"})
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), "o1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, done.Status)
	assert.Equal(t, 1, logs.FilterMessage("correlated notification not completed").Len())
}

func TestService_CompleteOtherOwnerOrMissingIsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil, nil)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-01"})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "o2", task.ID)
	assert.ErrorIs(t, err, schedule.ErrRecordNotFound)

	_, err = svc.Complete(context.Background(), "o1", "nope")
	assert.ErrorIs(t, err, schedule.ErrRecordNotFound)

	_, err = svc.Complete(context.Background(), "", task.ID)
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)

	assert.Equal(t, schedule.StatusPending, repo.byID[task.ID].Status)
}

func TestService_UpdateRejectsReopening(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil, nil)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-01"})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), "o1", task.ID)
	require.NoError(t, err)

	pending := schedule.StatusPending
	_, err = svc.Update(context.Background(), "o1", task.ID, UpdateInput{Status: &pending})
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)

	missed := schedule.Status("Missed")
	_, err = svc.Update(context.Background(), "o1", task.ID, UpdateInput{Status: &missed})
	assert.ErrorIs(t, err, schedule.ErrInvalidStatus)
}

func TestService_UpdateToCompletedFollowsUp(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem, nil)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-01"})
	require.NoError(t, err)

	completed := schedule.StatusCompleted
	title := "Long walk"
	got, err := svc.Update(context.Background(), "o1", task.ID, UpdateInput{Status: &completed, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Long walk", got.Title)
	assert.Len(t, rem.completed, 1)
}

func TestService_UpdateCorrelatesWithPreEditRecord(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem, nil)

	task, err := svc.Create(context.Background(), "o1", CreateInput{Title: "Walk", PetName: "Milo", TaskDate: "2024-05-01", Reminder: true})
	require.NoError(t, err)

	// mascota y fecha cambian en el mismo PATCH que completa
	completed := schedule.StatusCompleted
	pet, date := "Luna", "2024-05-03"
	got, err := svc.Update(context.Background(), "o1", task.ID, UpdateInput{Status: &completed, PetName: &pet, TaskDate: &date})
	require.NoError(t, err)
	assert.Equal(t, "Luna", got.PetName)

	require.Len(t, rem.completed, 1)
	assert.Equal(t, "Milo", rem.completed[0].Subject)
	assert.Equal(t, "2024-05-01", rem.completed[0].Due.String())
	assert.Equal(t, task.ID, rem.completed[0].SourceID)
}

func TestService_BoardAndToday(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil, nil)

	seed := []Task{
		{ID: "today", OwnerID: "o1", PetName: "Milo", TaskDate: "2024-05-01T18:00:00.000Z", Status: schedule.StatusPending},
		{ID: "late", OwnerID: "o1", PetName: "Milo", TaskDate: "2024-04-30", Status: schedule.StatusPending},
		{ID: "done", OwnerID: "o1", PetName: "Milo", TaskDate: "2024-04-29", Status: schedule.StatusCompleted},
		{ID: "broken", OwnerID: "o1", PetName: "Milo", TaskDate: "31/02/2024", Status: schedule.StatusPending},
		{ID: "foreign", OwnerID: "o2", PetName: "Luna", TaskDate: "2024-05-01", Status: schedule.StatusPending},
	}
	for _, task := range seed {
		require.NoError(t, repo.Create(context.Background(), task))
	}

	board, err := svc.Board(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "broken"}, taskIDs(board.Pending))
	assert.Equal(t, []string{"late"}, taskIDs(board.Missed))
	assert.Equal(t, []string{"done"}, taskIDs(board.Completed))

	today, err := svc.Today(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, taskIDs(today))
}

func taskIDs(items []Task) []string {
	out := make([]string, 0, len(items))
	for _, t := range items {
		out = append(out, t.ID)
	}
	return out
}
