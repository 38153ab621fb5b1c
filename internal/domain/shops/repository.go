package shops

import "context"

type Repository interface {
	Create(ctx context.Context, s Shop) error
	GetByID(ctx context.Context, id string) (Shop, error)
	List(ctx context.Context, filter ListFilter) ([]Shop, error)
	Update(ctx context.Context, s Shop) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Query string // nombre o dirección
	Limit int    // 0 = sin límite
}
