package grooming

import (
	"context"

	"pet-care-planner/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Appointment, error)
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status  schedule.Status
	PetName string
}
