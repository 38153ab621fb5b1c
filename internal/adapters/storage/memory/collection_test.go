package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/notifications"
	"pet-care-planner/internal/domain/pets"
	"pet-care-planner/internal/domain/profiles"
	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/domain/tasks"
)

func TestTaskRepo_NotFoundIsDomainSentinel(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, schedule.ErrRecordNotFound)

	err = repo.Update(ctx, tasks.Task{ID: "missing"})
	assert.ErrorIs(t, err, schedule.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), schedule.ErrRecordNotFound)
}

func TestTaskRepo_ListKeepsInsertionOrderAndFilters(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, tasks.Task{ID: "b", OwnerID: "o1", PetName: "Milo", Status: schedule.StatusPending}))
	require.NoError(t, repo.Create(ctx, tasks.Task{ID: "a", OwnerID: "o1", PetName: "Luna", Status: schedule.StatusCompleted}))
	require.NoError(t, repo.Create(ctx, tasks.Task{ID: "c", OwnerID: "o2", PetName: "Milo", Status: schedule.StatusPending}))
	require.NoError(t, repo.Create(ctx, tasks.Task{ID: "d", OwnerID: "o1", PetName: "Milo", Status: schedule.StatusPending}))

	assert.Error(t, repo.Create(ctx, tasks.Task{ID: "a"}))
	assert.Error(t, repo.Create(ctx, tasks.Task{ID: " "}))

	all, err := repo.ListByOwner(ctx, "o1", tasks.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "d"}, taskIDs(all))

	pending, err := repo.ListByOwner(ctx, "o1", tasks.ListFilter{Status: schedule.StatusPending, PetName: "Milo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, taskIDs(pending))

	require.NoError(t, repo.Delete(ctx, "b"))
	all, err = repo.ListByOwner(ctx, "o1", tasks.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d"}, taskIDs(all))
}

func TestNotificationRepo_Filters(t *testing.T) {
	repo := NewNotificationRepo()
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n1", OwnerID: "o1", Type: schedule.ReminderTask, Status: schedule.StatusPending, CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n2", OwnerID: "o1", Type: schedule.ReminderGrooming, Status: schedule.StatusPending, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, notifications.Notification{ID: "n3", OwnerID: "o1", Type: schedule.ReminderTask, Status: schedule.StatusPending, IsRead: true, CreatedAt: t0.Add(2 * time.Hour)}))

	got, err := repo.ListByOwner(ctx, "o1", notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "n3", got[0].ID)

	got, err = repo.ListByOwner(ctx, "o1", notifications.ListFilter{
		Types:      []schedule.ReminderKind{schedule.ReminderTask},
		UnreadOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)

	got, err = repo.ListByOwner(ctx, "o1", notifications.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func taskIDs(items []tasks.Task) []string {
	out := make([]string, 0, len(items))
	for _, t := range items {
		out = append(out, t.ID)
	}
	return out
}

func TestProfileRepo_UpsertByOwner(t *testing.T) {
	repo := NewProfileRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, profiles.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, profiles.Profile{OwnerUserID: "u1", Username: "Ana"}))
	require.NoError(t, repo.Upsert(ctx, profiles.Profile{OwnerUserID: "u2", Username: "Bruno", Email: "bruno@example.com"}))
	require.NoError(t, repo.Upsert(ctx, profiles.Profile{OwnerUserID: "u1", Username: "Ana P"}))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana P", got.Username)

	all, err := repo.List(ctx, profiles.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u1", all[0].OwnerUserID)

	some, err := repo.List(ctx, profiles.ListFilter{Query: "EXAMPLE"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "u2", some[0].OwnerUserID)

	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), profiles.ErrNotFound)
}

func TestPetRepo_ListByOwnerOldestFirstStable(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p1", OwnerUserID: "o1", Name: "Milo", CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p2", OwnerUserID: "o1", Name: "Luna", CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p3", OwnerUserID: "o1", Name: "Toby", CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p4", OwnerUserID: "o2", Name: "Kira", CreatedAt: t0}))

	got, err := repo.ListByOwner(ctx, "o1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	// empates conservan el orden de alta
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids)
}
