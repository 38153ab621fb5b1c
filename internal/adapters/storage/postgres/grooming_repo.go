package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/grooming"
	"pet-care-planner/internal/domain/schedule"
)

type GroomingRepo struct {
	db *sql.DB
}

func NewGroomingRepo(db *sql.DB) *GroomingRepo {
	return &GroomingRepo{db: db}
}

const groomingColumns = `
	id, owner_id,
	pet_name, grooming_type, shop_name, notes,
	grooming_date, status,
	created_at, updated_at`

func (r *GroomingRepo) Create(ctx context.Context, a grooming.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grooming_appointments (`+groomingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.OwnerID,
		a.PetName,
		a.GroomingType,
		a.ShopName,
		a.Notes,
		a.GroomingDate,
		string(a.Status),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *GroomingRepo) GetByID(ctx context.Context, id string) (grooming.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return grooming.Appointment{}, grooming.ErrNotFound
	}
	a, err := scanAppointment(r.db.QueryRowContext(ctx,
		`SELECT `+groomingColumns+` FROM grooming_appointments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return grooming.Appointment{}, grooming.ErrNotFound
	}
	return a, err
}

func (r *GroomingRepo) ListByOwner(ctx context.Context, ownerID string, filter grooming.ListFilter) ([]grooming.Appointment, error) {
	w := newWhere("owner_id = $1", ownerID)
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	if filter.PetName != "" {
		w.add("pet_name = $%d", filter.PetName)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groomingColumns+` FROM grooming_appointments`+w.String()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]grooming.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *GroomingRepo) Update(ctx context.Context, a grooming.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE grooming_appointments
		SET
			pet_name = $2,
			grooming_type = $3,
			shop_name = $4,
			notes = $5,
			grooming_date = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		a.ID,
		a.PetName,
		a.GroomingType,
		a.ShopName,
		a.Notes,
		a.GroomingDate,
		string(a.Status),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, grooming.ErrNotFound)
}

func (r *GroomingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grooming_appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, grooming.ErrNotFound)
}

func scanAppointment(s rowScanner) (grooming.Appointment, error) {
	var a grooming.Appointment
	var status string
	if err := s.Scan(
		&a.ID,
		&a.OwnerID,
		&a.PetName,
		&a.GroomingType,
		&a.ShopName,
		&a.Notes,
		&a.GroomingDate,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return grooming.Appointment{}, err
	}
	a.Status = schedule.Status(status)
	return a, nil
}
