package profiles

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/ports/auth"
)

type testRepo struct{ byOwner map[string]Profile }

func newTestRepo() *testRepo { return &testRepo{byOwner: map[string]Profile{}} }

func (r *testRepo) Get(_ context.Context, ownerUserID string) (Profile, error) {
	p, ok := r.byOwner[ownerUserID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Upsert(_ context.Context, p Profile) error {
	r.byOwner[p.OwnerUserID] = p
	return nil
}

func (r *testRepo) List(_ context.Context, filter ListFilter) ([]Profile, error) {
	out := []Profile{}
	for _, p := range r.byOwner {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Username+" "+p.Email), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int { return strings.Compare(a.OwnerUserID, b.OwnerUserID) })
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, ownerUserID string) error {
	if _, ok := r.byOwner[ownerUserID]; !ok {
		return ErrNotFound
	}
	delete(r.byOwner, ownerUserID)
	return nil
}

func TestService_SaveCreatesThenReplaces(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	caller := auth.Claims{UserID: "u1", Email: "ana@example.com"}

	p, created, err := svc.Save(ctx, caller, Input{Username: " Ana ", Age: 30, PhoneNumber: "+51 999-888-777"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ana", p.Username)
	assert.Equal(t, "ana@example.com", p.Email)

	svc.now = func() time.Time { return t0.Add(time.Hour) }
	p, created, err = svc.Save(ctx, auth.Claims{UserID: "u1"}, Input{Username: "Ana P", Address: "Av. Lima 123"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, t0, p.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), p.UpdatedAt)
	// sin email en la sesión se conserva el guardado
	assert.Equal(t, "ana@example.com", p.Email)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Av. Lima 123", got.Address)
}

func TestService_SaveValidates(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	caller := auth.Claims{UserID: "u1"}

	_, _, err := svc.Save(ctx, auth.Claims{}, Input{Username: "x"})
	assert.ErrorIs(t, err, schedule.ErrNotAuthenticated)

	for name, in := range map[string]Input{
		"no username": {Username: " "},
		"negative":    {Username: "x", Age: -1},
		"phone":       {Username: "x", PhoneNumber: "call me"},
		"short phone": {Username: "x", PhoneNumber: "123"},
	} {
		_, _, err := svc.Save(ctx, caller, in)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestService_ListAllIsAdminOnly(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	for _, c := range []auth.Claims{
		{UserID: "u1", Email: "ana@example.com"},
		{UserID: "u2", Email: "bruno@example.com"},
	} {
		_, _, err := svc.Save(ctx, c, Input{Username: strings.Split(c.Email, "@")[0]})
		require.NoError(t, err)
	}

	_, err := svc.ListAll(ctx, auth.Claims{UserID: "u1"}, ListFilter{})
	assert.ErrorIs(t, err, schedule.ErrForbidden)

	admin := auth.Claims{UserID: "admin-1", Roles: []string{auth.RoleAdmin}}
	all, err := svc.ListAll(ctx, admin, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := svc.ListAll(ctx, admin, ListFilter{Query: "BRUNO"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "u2", some[0].OwnerUserID)
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "u1"), ErrNotFound)
	_, _, err := svc.Save(ctx, auth.Claims{UserID: "u1"}, Input{Username: "Ana"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u1"))

	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
