package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/domain/tasks"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

const taskColumns = `
	id, owner_id,
	title, description, pet_name, type,
	task_date, reminder, status,
	created_at, updated_at`

func (r *TasksRepo) Create(ctx context.Context, t tasks.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		t.PetName,
		t.Type,
		t.TaskDate,
		t.Reminder,
		string(t.Status),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tasks.Task{}, tasks.ErrNotFound
	}
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, err
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID string, filter tasks.ListFilter) ([]tasks.Task, error) {
	w := newWhere("owner_id = $1", ownerID)
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	if filter.PetName != "" {
		w.add("pet_name = $%d", filter.PetName)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`+w.String()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tasks.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TasksRepo) Update(ctx context.Context, t tasks.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET
			title = $2,
			description = $3,
			pet_name = $4,
			type = $5,
			task_date = $6,
			reminder = $7,
			status = $8,
			updated_at = $9
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Description,
		t.PetName,
		t.Type,
		t.TaskDate,
		t.Reminder,
		string(t.Status),
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, tasks.ErrNotFound)
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, tasks.ErrNotFound)
}

func scanTask(s rowScanner) (tasks.Task, error) {
	var t tasks.Task
	var status string
	if err := s.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.PetName,
		&t.Type,
		&t.TaskDate,
		&t.Reminder,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return tasks.Task{}, err
	}
	t.Status = schedule.Status(status)
	return t, nil
}
