package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/foods"
)

type FoodsRepo struct {
	db *sql.DB
}

func NewFoodsRepo(db *sql.DB) *FoodsRepo {
	return &FoodsRepo{db: db}
}

const foodColumns = `
	id, created_by,
	name, category, species, is_safe,
	recipe, alternative, description,
	created_at, updated_at`

func (r *FoodsRepo) Create(ctx context.Context, f foods.Food) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO foods (`+foodColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		f.ID,
		f.CreatedBy,
		f.Name,
		f.Category,
		f.Species,
		f.IsSafe,
		f.Recipe,
		f.Alternative,
		f.Description,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return err
}

func (r *FoodsRepo) GetByID(ctx context.Context, id string) (foods.Food, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return foods.Food{}, foods.ErrNotFound
	}
	f, err := scanFood(r.db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return foods.Food{}, foods.ErrNotFound
	}
	return f, err
}

func (r *FoodsRepo) List(ctx context.Context, filter foods.ListFilter) ([]foods.Food, error) {
	w := newWhere("")
	if filter.SafeOnly {
		w.clauses = append(w.clauses, "is_safe = TRUE")
	}
	if s := strings.TrimSpace(filter.Species); s != "" {
		w.add("LOWER(species) = LOWER($%d)", s)
	}
	// q: búsqueda simple en nombre + categoría + descripción
	w.addILike([]string{"name", "category", "description"}, filter.Query)

	q := `SELECT ` + foodColumns + ` FROM foods` + w.String() + ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		q += w.limit(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]foods.Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FoodsRepo) Update(ctx context.Context, f foods.Food) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE foods
		SET
			name = $2,
			category = $3,
			species = $4,
			is_safe = $5,
			recipe = $6,
			alternative = $7,
			description = $8,
			updated_at = $9
		WHERE id = $1
	`,
		f.ID,
		f.Name,
		f.Category,
		f.Species,
		f.IsSafe,
		f.Recipe,
		f.Alternative,
		f.Description,
		f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, foods.ErrNotFound)
}

func (r *FoodsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, foods.ErrNotFound)
}

func scanFood(s rowScanner) (foods.Food, error) {
	var f foods.Food
	if err := s.Scan(
		&f.ID,
		&f.CreatedBy,
		&f.Name,
		&f.Category,
		&f.Species,
		&f.IsSafe,
		&f.Recipe,
		&f.Alternative,
		&f.Description,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return foods.Food{}, err
	}
	return f, nil
}
