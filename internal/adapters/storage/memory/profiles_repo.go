package memory

import (
	"context"
	"errors"

	"pet-care-planner/internal/domain/profiles"
)

// profileRepo usa el owner id como clave del documento.
type profileRepo struct {
	items *collection[profiles.Profile]
}

func NewProfileRepo() profiles.Repository {
	return &profileRepo{items: newCollection[profiles.Profile](profiles.ErrNotFound)}
}

func (r *profileRepo) Get(ctx context.Context, ownerUserID string) (profiles.Profile, error) {
	return r.items.get(ownerUserID)
}

func (r *profileRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	err := r.items.update(p.OwnerUserID, p)
	if errors.Is(err, profiles.ErrNotFound) {
		return r.items.create(p.OwnerUserID, p)
	}
	return err
}

func (r *profileRepo) List(ctx context.Context, filter profiles.ListFilter) ([]profiles.Profile, error) {
	out := r.items.list(func(p profiles.Profile) bool {
		return filter.Query == "" || containsFold(p.Username+" "+p.Email, filter.Query)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *profileRepo) Delete(ctx context.Context, ownerUserID string) error {
	return r.items.delete(ownerUserID)
}
