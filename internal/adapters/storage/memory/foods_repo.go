package memory

import (
	"context"
	"strings"

	"pet-care-planner/internal/domain/foods"
)

type foodRepo struct {
	items *collection[foods.Food]
}

func NewFoodRepo() foods.Repository {
	return &foodRepo{items: newCollection[foods.Food](foods.ErrNotFound)}
}

func (r *foodRepo) Create(ctx context.Context, f foods.Food) error {
	return r.items.create(f.ID, f)
}

func (r *foodRepo) GetByID(ctx context.Context, id string) (foods.Food, error) {
	return r.items.get(id)
}

func (r *foodRepo) List(ctx context.Context, filter foods.ListFilter) ([]foods.Food, error) {
	q := strings.TrimSpace(filter.Query)
	out := r.items.list(func(f foods.Food) bool {
		if filter.SafeOnly && !f.IsSafe {
			return false
		}
		if filter.Species != "" && !strings.EqualFold(f.Species, filter.Species) {
			return false
		}
		return q == "" || containsFold(f.Name+" "+f.Category+" "+f.Description, q)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *foodRepo) Update(ctx context.Context, f foods.Food) error {
	return r.items.update(f.ID, f)
}

func (r *foodRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
