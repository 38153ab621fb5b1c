package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/schedule"
)

type testRepo struct {
	byID  map[string]Issue
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Issue{}}
}

func (r *testRepo) Create(ctx context.Context, i Issue) error {
	r.byID[i.ID] = i
	r.order = append(r.order, i.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Issue, error) {
	i, ok := r.byID[id]
	if !ok {
		return Issue{}, ErrNotFound
	}
	return i, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]Issue, error) {
	out := []Issue{}
	for _, id := range r.order {
		i, ok := r.byID[id]
		if !ok || i.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, i Issue) error {
	if _, ok := r.byID[i.ID]; !ok {
		return ErrNotFound
	}
	r.byID[i.ID] = i
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
	return 0, nil
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository, rem schedule.Reminders) *Service {
	svc := NewService(repo, schedule.Deps{Location: time.UTC, Reminders: rem})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_CreateSchedulesOnlyWithVetVisit(t *testing.T) {
	rem := &testReminders{}
	svc := newTestService(newTestRepo(), rem)

	noVisit, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Itch", Severity: SeverityMild})
	require.NoError(t, err)
	assert.Nil(t, noVisit.VetVisitDate)
	assert.Empty(t, rem.scheduled)
	// sin fecha nunca es Missed
	assert.Equal(t, schedule.BucketPending, svc.Bucket(noVisit))

	visit := time.Date(2024, 5, 4, 11, 0, 0, 0, time.UTC)
	withVisit, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Limp", Severity: SeveritySevere, VetVisitDate: &visit})
	require.NoError(t, err)
	require.Len(t, rem.scheduled, 1)
	assert.Equal(t, schedule.ReminderVetVisit, rem.scheduled[0].Kind)
	assert.Equal(t, withVisit.ID, rem.scheduled[0].SourceID)
}

func TestService_CreateRejectsUnknownSeverity(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	_, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Itch", Severity: "Mortal"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateClearsVisitAndCompletes(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem)

	visit := time.Date(2024, 4, 20, 11, 0, 0, 0, time.UTC)
	i, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Limp", Severity: SeverityModerate, VetVisitDate: &visit})
	require.NoError(t, err)
	assert.Equal(t, schedule.BucketMissed, svc.Bucket(i))

	got, err := svc.Update(context.Background(), "o1", i.ID, UpdateInput{ClearVetVisit: true})
	require.NoError(t, err)
	assert.Nil(t, got.VetVisitDate)
	assert.Equal(t, schedule.BucketPending, svc.Bucket(got))
	// quitar la visita retira su recordatorio sin agendar otro
	require.Len(t, rem.completed, 1)
	assert.Equal(t, "2024-04-20", rem.completed[0].Due.String())
	assert.Len(t, rem.scheduled, 1)

	completed := schedule.StatusCompleted
	got, err = svc.Update(context.Background(), "o1", i.ID, UpdateInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, got.Status)
	require.Len(t, rem.completed, 2)
	assert.Equal(t, schedule.ReminderVetVisit, rem.completed[1].Kind)
}

func TestService_UpdateMovingVisitReschedulesReminder(t *testing.T) {
	repo := newTestRepo()
	rem := &testReminders{}
	svc := newTestService(repo, rem)

	visit := time.Date(2024, 5, 4, 11, 0, 0, 0, time.UTC)
	i, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Limp", Severity: SeverityMild, VetVisitDate: &visit})
	require.NoError(t, err)
	require.Len(t, rem.scheduled, 1)

	// misma fecha: nada que tocar
	title := "Limp (left leg)"
	_, err = svc.Update(context.Background(), "o1", i.ID, UpdateInput{Title: &title, VetVisitDate: &visit})
	require.NoError(t, err)
	assert.Empty(t, rem.completed)
	assert.Len(t, rem.scheduled, 1)

	moved := time.Date(2024, 5, 9, 9, 0, 0, 0, time.UTC)
	_, err = svc.Update(context.Background(), "o1", i.ID, UpdateInput{VetVisitDate: &moved})
	require.NoError(t, err)

	require.Len(t, rem.completed, 1)
	assert.Equal(t, "2024-05-04", rem.completed[0].Due.String())
	require.Len(t, rem.scheduled, 2)
	assert.Equal(t, "2024-05-09", rem.scheduled[1].Due.String())
	assert.Equal(t, i.ID, rem.scheduled[1].SourceID)

	// sin visita previa, agregar una agenda sin retirar nada
	other, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Luna", Title: "Cough", Severity: SeverityMild})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "o1", other.ID, UpdateInput{VetVisitDate: &moved})
	require.NoError(t, err)
	assert.Len(t, rem.completed, 1)
	assert.Len(t, rem.scheduled, 3)
}

func TestService_DeleteIsOwnerScoped(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	i, err := svc.Create(context.Background(), "o1", CreateInput{PetName: "Milo", Title: "Itch", Severity: SeverityMild})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), "o2", i.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), "o1", i.ID))
	_, err = svc.GetByID(context.Background(), "o1", i.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
