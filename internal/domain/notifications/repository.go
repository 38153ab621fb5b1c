package notifications

import (
	"context"

	"pet-care-planner/internal/domain/schedule"
)

// Repository devuelve ErrNotFound cuando el id no existe.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Notification, error)
	Update(ctx context.Context, n Notification) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status     schedule.Status // "" = todos
	Types      []schedule.ReminderKind
	UnreadOnly bool
	Limit      int
}
