package memory

import (
	"context"

	"pet-care-planner/internal/domain/grooming"
)

type groomingRepo struct {
	items *collection[grooming.Appointment]
}

func NewGroomingRepo() grooming.Repository {
	return &groomingRepo{items: newCollection[grooming.Appointment](grooming.ErrNotFound)}
}

func (r *groomingRepo) Create(ctx context.Context, a grooming.Appointment) error {
	return r.items.create(a.ID, a)
}

func (r *groomingRepo) GetByID(ctx context.Context, id string) (grooming.Appointment, error) {
	return r.items.get(id)
}

func (r *groomingRepo) ListByOwner(ctx context.Context, ownerID string, f grooming.ListFilter) ([]grooming.Appointment, error) {
	return r.items.list(func(a grooming.Appointment) bool {
		if a.OwnerID != ownerID {
			return false
		}
		if f.Status != "" && a.Status != f.Status {
			return false
		}
		return f.PetName == "" || a.PetName == f.PetName
	}), nil
}

func (r *groomingRepo) Update(ctx context.Context, a grooming.Appointment) error {
	return r.items.update(a.ID, a)
}

func (r *groomingRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
