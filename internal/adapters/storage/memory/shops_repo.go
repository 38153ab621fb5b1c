package memory

import (
	"context"
	"strings"

	"pet-care-planner/internal/domain/shops"
)

type shopRepo struct {
	items *collection[shops.Shop]
}

func NewShopRepo() shops.Repository {
	return &shopRepo{items: newCollection[shops.Shop](shops.ErrNotFound)}
}

func (r *shopRepo) Create(ctx context.Context, s shops.Shop) error {
	return r.items.create(s.ID, s)
}

func (r *shopRepo) GetByID(ctx context.Context, id string) (shops.Shop, error) {
	return r.items.get(id)
}

func (r *shopRepo) List(ctx context.Context, filter shops.ListFilter) ([]shops.Shop, error) {
	q := strings.TrimSpace(filter.Query)
	out := r.items.list(func(s shops.Shop) bool {
		return q == "" || containsFold(s.Name+" "+s.Address, q)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *shopRepo) Update(ctx context.Context, s shops.Shop) error {
	return r.items.update(s.ID, s)
}

func (r *shopRepo) Delete(ctx context.Context, id string) error {
	return r.items.delete(id)
}
