package grooming

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/schedule"
)

type testRepo struct {
	byID      map[string]Appointment
	order     []string
	updateErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	r.byID[a.ID] = a
	r.order = append(r.order, a.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]Appointment, error) {
	out := []Appointment{}
	for _, id := range r.order {
		a, ok := r.byID[id]
		if !ok || a.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
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
}

func (r *testReminders) Schedule(ctx context.Context, rem schedule.Reminder) error {
	r.scheduled = append(r.scheduled, rem)
	return nil
}

func (r *testReminders) CompleteMatching(ctx context.Context, c schedule.Correlation) (int, error) {
	r.completed = append(r.completed, c)
	return 1, nil
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository, rem schedule.Reminders) *Service {
	svc := NewService(repo, schedule.Deps{Location: time.UTC, Reminders: rem})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_CreateAlwaysSchedulesReminder(t *testing.T) {
	rem := &testReminders{}
	svc := newTestService(newTestRepo(), rem)

	a, err := svc.Create(context.Background(), "o1", CreateInput{
		PetName:      "Milo",
		GroomingType: "Bath",
		GroomingDate: time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rem.scheduled, 1)
	assert.Equal(t, schedule.ReminderGrooming, rem.scheduled[0].Kind)
	assert.Equal(t, a.ID, rem.scheduled[0].SourceID)
	assert.Equal(t, "2024-05-03", rem.scheduled[0].Due.String())

	_, err = svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", GroomingType: "Bath"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CompleteCorrelatesByPetTypeAndDay(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem)

	a, err := svc.Create(context.Background(), "o1", CreateInput{
		PetName: "Milo", GroomingType: "Nails", GroomingDate: time.Date(2024, 4, 28, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.BucketMissed, svc.Bucket(a))

	done, err := svc.Complete(context.Background(), "o1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, done.Status)

	require.Len(t, rem.completed, 1)
	c := rem.completed[0]
	assert.Equal(t, "Milo", c.Subject)
	assert.Equal(t, schedule.ReminderGrooming, c.Kind)
	assert.Equal(t, "2024-04-28", c.Due.String())
}

func TestService_CompletePrimaryWriteFailureIsReturned(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem)

	a, err := svc.Create(context.Background(), "o1", CreateInput{
		PetName: "Milo", GroomingType: "Bath", GroomingDate: fixedNow,
	})
	require.NoError(t, err)

	repo.updateErr = errors.New("store down")
	_, err = svc.Complete(context.Background(), "o1", a.ID)
	assert.Error(t, err)
	assert.Empty(t, rem.completed)
}

func TestService_UpdateDateAndNoReopen(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	a, err := svc.Create(context.Background(), "o1", CreateInput{
		PetName: "Milo", GroomingType: "Bath", GroomingDate: fixedNow,
	})
	require.NoError(t, err)

	later := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	got, err := svc.Update(context.Background(), "o1", a.ID, UpdateInput{GroomingDate: &later})
	require.NoError(t, err)
	assert.Equal(t, later, got.GroomingDate)

	_, err = svc.Complete(context.Background(), "o1", a.ID)
	require.NoError(t, err)
	pending := schedule.StatusPending
	_, err = svc.Update(context.Background(), "o1", a.ID, UpdateInput{Status: &pending})
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)

	_, err = svc.GetByID(context.Background(), "o2", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ZeroDateIsAbsentNotMissed(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)
	require.NoError(t, repo.Create(context.Background(), Appointment{ID: "legacy", OwnerID: "o1", PetName: "Milo", Status: schedule.StatusPending}))

	board, err := svc.Board(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, board.Pending, 1)
	assert.Empty(t, board.Missed)
}
