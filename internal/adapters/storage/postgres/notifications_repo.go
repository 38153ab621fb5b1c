package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-planner/internal/domain/notifications"
	"pet-care-planner/internal/domain/schedule"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

const notificationColumns = `
	id, owner_id,
	source_id, pet_name, type, message,
	due_date, is_read, status,
	created_at, updated_at`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		n.ID,
		n.OwnerID,
		n.SourceID,
		n.PetName,
		string(n.Type),
		n.Message,
		n.DueDate,
		n.IsRead,
		string(n.Status),
		n.CreatedAt,
		n.UpdatedAt,
	)
	return err
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notifications.Notification{}, notifications.ErrNotFound
	}
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return notifications.Notification{}, notifications.ErrNotFound
	}
	return n, err
}

func (r *NotificationsRepo) ListByOwner(ctx context.Context, ownerID string, filter notifications.ListFilter) ([]notifications.Notification, error) {
	w := newWhere("owner_id = $1", ownerID)
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	if len(filter.Types) > 0 {
		kinds := make([]string, 0, len(filter.Types))
		for _, k := range filter.Types {
			kinds = append(kinds, string(k))
		}
		w.addIn("type", kinds)
	}
	if filter.UnreadOnly {
		w.clauses = append(w.clauses, "is_read = FALSE")
	}

	q := `SELECT ` + notificationColumns + ` FROM notifications` + w.String() + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		q += w.limit(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) Update(ctx context.Context, n notifications.Notification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET
			source_id = $2,
			pet_name = $3,
			type = $4,
			message = $5,
			due_date = $6,
			is_read = $7,
			status = $8,
			updated_at = $9
		WHERE id = $1
	`,
		n.ID,
		n.SourceID,
		n.PetName,
		string(n.Type),
		n.Message,
		n.DueDate,
		n.IsRead,
		string(n.Status),
		n.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, notifications.ErrNotFound)
}

func (r *NotificationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res, notifications.ErrNotFound)
}

func scanNotification(s rowScanner) (notifications.Notification, error) {
	var n notifications.Notification
	var kind, status string
	if err := s.Scan(
		&n.ID,
		&n.OwnerID,
		&n.SourceID,
		&n.PetName,
		&kind,
		&n.Message,
		&n.DueDate,
		&n.IsRead,
		&status,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return notifications.Notification{}, err
	}
	n.Type = schedule.ReminderKind(kind)
	n.Status = schedule.Status(status)
	return n, nil
}
