package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/health"
	"pet-care-planner/internal/domain/schedule"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

const healthColumns = `
	id, owner_id,
	pet_name, title, description, severity,
	treatment, vet_contact, ongoing_treatment,
	vet_visit_date, status,
	created_at, updated_at`

func (r *HealthRepo) Create(ctx context.Context, i health.Issue) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_issues (`+healthColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		i.ID,
		i.OwnerID,
		i.PetName,
		i.Title,
		i.Description,
		string(i.Severity),
		i.Treatment,
		i.VetContact,
		i.OngoingTreatment,
		toNullTime(i.VetVisitDate),
		string(i.Status),
		i.CreatedAt,
		i.UpdatedAt,
	)
	return err
}

func (r *HealthRepo) GetByID(ctx context.Context, id string) (health.Issue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return health.Issue{}, health.ErrNotFound
	}
	i, err := scanIssue(r.db.QueryRowContext(ctx, `SELECT `+healthColumns+` FROM health_issues WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return health.Issue{}, health.ErrNotFound
	}
	return i, err
}

func (r *HealthRepo) ListByOwner(ctx context.Context, ownerID string, filter health.ListFilter) ([]health.Issue, error) {
	w := newWhere("owner_id = $1", ownerID)
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	if filter.PetName != "" {
		w.add("pet_name = $%d", filter.PetName)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+healthColumns+` FROM health_issues`+w.String()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Issue, 0)
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *HealthRepo) Update(ctx context.Context, i health.Issue) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE health_issues
		SET
			pet_name = $2,
			title = $3,
			description = $4,
			severity = $5,
			treatment = $6,
			vet_contact = $7,
			ongoing_treatment = $8,
			vet_visit_date = $9,
			status = $10,
			updated_at = $11
		WHERE id = $1
	`,
		i.ID,
		i.PetName,
		i.Title,
		i.Description,
		string(i.Severity),
		i.Treatment,
		i.VetContact,
		i.OngoingTreatment,
		toNullTime(i.VetVisitDate),
		string(i.Status),
		i.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, health.ErrNotFound)
}

func (r *HealthRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_issues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, health.ErrNotFound)
}

func scanIssue(s rowScanner) (health.Issue, error) {
	var i health.Issue
	var severity, status string
	var visit sql.NullTime
	if err := s.Scan(
		&i.ID,
		&i.OwnerID,
		&i.PetName,
		&i.Title,
		&i.Description,
		&severity,
		&i.Treatment,
		&i.VetContact,
		&i.OngoingTreatment,
		&visit,
		&status,
		&i.CreatedAt,
		&i.UpdatedAt,
	); err != nil {
		return health.Issue{}, err
	}
	i.Severity = health.Severity(severity)
	i.Status = schedule.Status(status)
	i.VetVisitDate = fromNullTime(visit)
	return i, nil
}
