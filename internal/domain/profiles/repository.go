package profiles

import "context"

type Repository interface {
	Get(ctx context.Context, ownerUserID string) (Profile, error)
	// Upsert crea o reemplaza el perfil del owner.
	Upsert(ctx context.Context, p Profile) error
	List(ctx context.Context, filter ListFilter) ([]Profile, error)
	Delete(ctx context.Context, ownerUserID string) error
}

// ListFilter: Query busca en username/email; Limit 0 = sin límite.
type ListFilter struct {
	Query string
	Limit int
}
