package memory

import (
	"context"
	"slices"

	"pet-care-planner/internal/domain/notifications"
)

type notificationRepo struct {
	items *collection[notifications.Notification]
}

func NewNotificationRepo() notifications.Repository {
	return &notificationRepo{items: newCollection[notifications.Notification](notifications.ErrNotFound)}
}

func (r *notificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	return r.items.create(n.ID, n)
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	return r.items.get(id)
}

func (r *notificationRepo) ListByOwner(ctx context.Context, ownerID string, f notifications.ListFilter) ([]notifications.Notification, error) {
	out := r.items.list(func(n notifications.Notification) bool {
		if n.OwnerID != ownerID {
			return false
		}
		if f.Status != "" && n.Status != f.Status {
			return false
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, n.Type) {
			return false
		}
		return !f.UnreadOnly || !n.IsRead
	})

	// más nuevas primero
	slices.SortStableFunc(out, func(a, b notifications.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *notificationRepo) Update(ctx context.Context, n notifications.Notification) error {
	return r.items.update(n.ID, n)
}

func (r *notificationRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
