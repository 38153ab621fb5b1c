package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pet-care-planner/internal/domain/shops"
	"pet-care-planner/internal/ports/location"
)

type ShopsRepo struct {
	db *sql.DB
}

func NewShopsRepo(db *sql.DB) *ShopsRepo {
	return &ShopsRepo{db: db}
}

const shopColumns = `
	id, created_by,
	name, contact_number, address,
	lat, lon,
	opening_hours, pricing_range, services,
	created_at, updated_at`

func (r *ShopsRepo) Create(ctx context.Context, s shops.Shop) error {
	services, err := marshalServices(s.Services)
	if err != nil {
		return err
	}
	lat, lon := toNullCoordinate(s.Coordinate)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shops (`+shopColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		s.ID,
		s.CreatedBy,
		s.Name,
		s.ContactNumber,
		s.Address,
		lat,
		lon,
		s.OpeningHours,
		s.PricingRange,
		services,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *ShopsRepo) GetByID(ctx context.Context, id string) (shops.Shop, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shops.Shop{}, shops.ErrNotFound
	}
	s, err := scanShop(r.db.QueryRowContext(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return shops.Shop{}, shops.ErrNotFound
	}
	return s, err
}

func (r *ShopsRepo) List(ctx context.Context, filter shops.ListFilter) ([]shops.Shop, error) {
	w := newWhere("")
	w.addILike([]string{"name", "address"}, filter.Query)

	q := `SELECT ` + shopColumns + ` FROM shops` + w.String() + ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		q += w.limit(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shops.Shop, 0)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ShopsRepo) Update(ctx context.Context, s shops.Shop) error {
	services, err := marshalServices(s.Services)
	if err != nil {
		return err
	}
	lat, lon := toNullCoordinate(s.Coordinate)

	res, err := r.db.ExecContext(ctx, `
		UPDATE shops
		SET
			name = $2,
			contact_number = $3,
			address = $4,
			lat = $5,
			lon = $6,
			opening_hours = $7,
			pricing_range = $8,
			services = $9,
			updated_at = $10
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.ContactNumber,
		s.Address,
		lat,
		lon,
		s.OpeningHours,
		s.PricingRange,
		services,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, shops.ErrNotFound)
}

func (r *ShopsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, shops.ErrNotFound)
}

func scanShop(s rowScanner) (shops.Shop, error) {
	var sh shops.Shop
	var lat, lon sql.NullFloat64
	var services []byte
	if err := s.Scan(
		&sh.ID,
		&sh.CreatedBy,
		&sh.Name,
		&sh.ContactNumber,
		&sh.Address,
		&lat,
		&lon,
		&sh.OpeningHours,
		&sh.PricingRange,
		&services,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	); err != nil {
		return shops.Shop{}, err
	}
	sh.Coordinate = fromNullCoordinate(lat, lon)

	sh.Services = []string{}
	if len(services) > 0 {
		if err := json.Unmarshal(services, &sh.Services); err != nil {
			return shops.Shop{}, fmt.Errorf("decode shop services: %w", err)
		}
	}
	return sh, nil
}

func marshalServices(services []string) (string, error) {
	if services == nil {
		services = []string{}
	}
	b, err := json.Marshal(services)
	if err != nil {
		return "", fmt.Errorf("encode shop services: %w", err)
	}
	return string(b), nil
}

// lat/lon van juntos: o los dos o ninguno.
func toNullCoordinate(c *location.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lon, Valid: true}
}

func fromNullCoordinate(lat, lon sql.NullFloat64) *location.Coordinate {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &location.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
}
