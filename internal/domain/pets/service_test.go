package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/schedule"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Pet
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := []Pet{}
	for _, id := range r.order {
		if p, ok := r.byID[id]; ok && p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestService() *Service {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateNormalizes(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), "o1", CreateInput{Name: " Milo ", Species: "Dog", WeightKg: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "Milo", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, SexUnknown, p.Sex)

	_, err = svc.Create(context.Background(), "", CreateInput{Name: "Milo", Species: "dog"})
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)

	_, err = svc.Create(context.Background(), "o1", CreateInput{Name: "Luna", Species: "cat", Sex: "robot"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_NameUniquePerOwner(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "o1", CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "o1", CreateInput{Name: "milo", Species: "cat"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	// otro owner puede repetir el nombre
	_, err = svc.Create(context.Background(), "o2", CreateInput{Name: "Milo", Species: "dog"})
	assert.NoError(t, err)
}

func TestService_UpdateProfilePatch(t *testing.T) {
	svc := newTestService()

	bd := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(context.Background(), "o1", CreateInput{Name: "Milo", Species: "dog", Breed: "mixed", BirthDate: &bd})
	require.NoError(t, err)
	luna, err := svc.Create(context.Background(), "o1", CreateInput{Name: "Luna", Species: "cat"})
	require.NoError(t, err)

	color := "brown"
	got, err := svc.UpdateProfile(context.Background(), p.ID, "o1", UpdateProfileInput{
		Color:     &color,
		BirthDate: patchBirthDate{Present: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "brown", got.Color)
	assert.Equal(t, "mixed", got.Breed)
	assert.Nil(t, got.BirthDate)

	// renombrar a sí mismo (cambio de mayúsculas) está permitido
	upper := "MILO"
	_, err = svc.UpdateProfile(context.Background(), p.ID, "o1", UpdateProfileInput{Name: &upper})
	assert.NoError(t, err)

	taken := "luna"
	_, err = svc.UpdateProfile(context.Background(), p.ID, "o1", UpdateProfileInput{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.UpdateProfile(context.Background(), luna.ID, "o2", UpdateProfileInput{Color: &color})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteIsOwnerScoped(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), "o1", CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), "o2", p.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), "o1", p.ID))

	items, err := svc.ListByOwner(context.Background(), "o1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
