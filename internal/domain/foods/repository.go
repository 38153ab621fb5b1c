package foods

import "context"

type Repository interface {
	Create(ctx context.Context, f Food) error
	GetByID(ctx context.Context, id string) (Food, error)
	List(ctx context.Context, filter ListFilter) ([]Food, error)
	Update(ctx context.Context, f Food) error
	Delete(ctx context.Context, id string) error
}

// ListFilter: campos vacíos no filtran. Query busca en nombre/categoría/descripción.
type ListFilter struct {
	Query    string
	Species  string
	SafeOnly bool
	Limit    int
}
