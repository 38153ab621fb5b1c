package memory

import (
	"context"
	"slices"

	"pet-care-planner/internal/domain/pets"
)

type petRepo struct {
	items *collection[pets.Pet]
}

func NewPetRepo() pets.Repository {
	return &petRepo{items: newCollection[pets.Pet](pets.ErrNotFound)}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	return r.items.create(p.ID, p)
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	return r.items.update(p.ID, p)
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	return r.items.get(id)
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	out := r.items.list(func(p pets.Pet) bool { return p.OwnerUserID == ownerUserID })

	// Orden estable por created_at asc (solo para consistencia en dev)
	slices.SortStableFunc(out, func(a, b pets.Pet) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
