package health

import (
	"context"

	"pet-care-planner/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, i Issue) error
	GetByID(ctx context.Context, id string) (Issue, error)
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Issue, error)
	Update(ctx context.Context, i Issue) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status  schedule.Status
	PetName string
}
