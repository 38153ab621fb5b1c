package tasks

import (
	"context"

	"pet-care-planner/internal/domain/schedule"
)

// Repository devuelve ErrNotFound cuando el id no existe.
type Repository interface {
	Create(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status  schedule.Status // "" = todos
	PetName string
}
