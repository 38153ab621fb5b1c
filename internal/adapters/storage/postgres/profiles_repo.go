package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `
	owner_user_id, email,
	username, age, address, phone_number,
	created_at, updated_at`

func (r *ProfilesRepo) Get(ctx context.Context, ownerUserID string) (profiles.Profile, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE owner_user_id = $1`, ownerUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, err
}

// Upsert conserva created_at de la fila existente.
func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (owner_user_id) DO UPDATE
		SET
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			age = EXCLUDED.age,
			address = EXCLUDED.address,
			phone_number = EXCLUDED.phone_number,
			updated_at = EXCLUDED.updated_at
	`,
		p.OwnerUserID,
		p.Email,
		p.Username,
		p.Age,
		p.Address,
		p.PhoneNumber,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) List(ctx context.Context, filter profiles.ListFilter) ([]profiles.Profile, error) {
	w := newWhere("")
	w.addILike([]string{"username", "email"}, filter.Query)

	q := `SELECT ` + profileColumns + ` FROM profiles` + w.String() + ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		q += w.limit(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfilesRepo) Delete(ctx context.Context, ownerUserID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE owner_user_id = $1`, ownerUserID)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, profiles.ErrNotFound)
}

func scanProfile(s rowScanner) (profiles.Profile, error) {
	var p profiles.Profile
	if err := s.Scan(
		&p.OwnerUserID,
		&p.Email,
		&p.Username,
		&p.Age,
		&p.Address,
		&p.PhoneNumber,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return profiles.Profile{}, err
	}
	return p, nil
}
