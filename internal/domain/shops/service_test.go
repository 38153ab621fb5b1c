package shops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/ports/auth"
)

type mapRepo struct{ byID map[string]Shop }

func (r *mapRepo) Create(_ context.Context, sh Shop) error {
	r.byID[sh.ID] = sh
	return nil
}

func (r *mapRepo) GetByID(_ context.Context, id string) (Shop, error) {
	sh, ok := r.byID[id]
	if !ok {
		return Shop{}, ErrNotFound
	}
	return sh, nil
}

func (r *mapRepo) List(context.Context, ListFilter) ([]Shop, error) { return nil, nil }

func (r *mapRepo) Update(_ context.Context, sh Shop) error {
	r.byID[sh.ID] = sh
	return nil
}

func (r *mapRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestService_OnlyAdminWritesDirectory(t *testing.T) {
	svc := NewService(&mapRepo{byID: map[string]Shop{}})
	ctx := context.Background()
	admin := auth.Claims{UserID: "admin-1", Roles: []string{auth.RoleAdmin}}
	user := auth.Claims{UserID: "u1"}

	_, err := svc.Create(ctx, auth.Claims{}, Input{Name: "Paws"})
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)
	_, err = svc.Create(ctx, user, Input{Name: "Paws"})
	assert.ErrorIs(t, err, schedule.ErrForbidden)

	sh, err := svc.Create(ctx, admin, Input{Name: " Paws ", Coordinate: coord(-12.05, -77.04), Services: []string{"bath", " "}})
	require.NoError(t, err)
	assert.Equal(t, "Paws", sh.Name)
	assert.Equal(t, []string{"bath"}, sh.Services)

	_, err = svc.Create(ctx, admin, Input{Name: "Broken", Coordinate: coord(95, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, user, sh.ID, Input{Name: "Mine now"})
	assert.ErrorIs(t, err, schedule.ErrForbidden)

	got, err := svc.Update(ctx, admin, sh.ID, Input{Name: "Paws & Co"})
	require.NoError(t, err)
	assert.Equal(t, "Paws & Co", got.Name)
	assert.Nil(t, got.Coordinate)

	assert.ErrorIs(t, svc.Delete(ctx, user, sh.ID), schedule.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, sh.ID))
	_, err = svc.GetByID(ctx, sh.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
