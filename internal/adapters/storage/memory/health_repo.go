package memory

import (
	"context"

	"pet-care-planner/internal/domain/health"
)

type healthRepo struct {
	items *collection[health.Issue]
}

func NewHealthRepo() health.Repository {
	return &healthRepo{items: newCollection[health.Issue](health.ErrNotFound)}
}

func (r *healthRepo) Create(ctx context.Context, i health.Issue) error {
	return r.items.create(i.ID, i)
}

func (r *healthRepo) GetByID(ctx context.Context, id string) (health.Issue, error) {
	return r.items.get(id)
}

func (r *healthRepo) ListByOwner(ctx context.Context, ownerID string, f health.ListFilter) ([]health.Issue, error) {
	return r.items.list(func(i health.Issue) bool {
		if i.OwnerID != ownerID {
			return false
		}
		if f.Status != "" && i.Status != f.Status {
			return false
		}
		return f.PetName == "" || i.PetName == f.PetName
	}), nil
}

func (r *healthRepo) Update(ctx context.Context, i health.Issue) error {
	return r.items.update(i.ID, i)
}

func (r *healthRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
