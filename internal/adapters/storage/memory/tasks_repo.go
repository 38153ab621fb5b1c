package memory

import (
	"context"

	"pet-care-planner/internal/domain/tasks"
)

type taskRepo struct {
	items *collection[tasks.Task]
}

func NewTaskRepo() tasks.Repository {
	return &taskRepo{items: newCollection[tasks.Task](tasks.ErrNotFound)}
}

func (r *taskRepo) Create(ctx context.Context, t tasks.Task) error {
	return r.items.create(t.ID, t)
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	return r.items.get(id)
}

func (r *taskRepo) ListByOwner(ctx context.Context, ownerID string, f tasks.ListFilter) ([]tasks.Task, error) {
	return r.items.list(func(t tasks.Task) bool {
		if t.OwnerID != ownerID {
			return false
		}
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		return f.PetName == "" || t.PetName == f.PetName
	}), nil
}

func (r *taskRepo) Update(ctx context.Context, t tasks.Task) error {
	return r.items.update(t.ID, t)
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
