package schedule

import (
	"context"
	"fmt"

	"pet-care-planner/internal/platform/logger"
)

// ReminderKind es el tipo de recordatorio que liga una notificación a su origen.
type ReminderKind string

const (
	ReminderTask     ReminderKind = "Task Reminder"
	ReminderGrooming ReminderKind = "Grooming Reminder"
	ReminderVetVisit ReminderKind = "Vet Visit Reminder"
)

func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderTask, ReminderGrooming, ReminderVetVisit:
		return true
	default:
		return false
	}
}

// Reminder es lo que un tipo agendado pide crear al darse de alta.
type Reminder struct {
	OwnerID  string
	SourceID string
	Subject  string // nombre de la mascota
	Kind     ReminderKind
	Due      Due
	Message  string
}

// Correlation identifica las notificaciones ligadas a un registro.
// Si ambos lados tienen SourceID, ese id decide solo. Si no, se compara
// subject + kind, y el día cuando ambos lo tienen.
type Correlation struct {
	OwnerID  string
	SourceID string
	Subject  string
	Kind     ReminderKind
	Due      Due
}

func (c Correlation) Matches(ownerID, sourceID, subject string, kind ReminderKind, due Due) bool {
	if c.OwnerID != ownerID || c.Kind != kind {
		return false
	}
	if c.SourceID != "" && sourceID != "" {
		return c.SourceID == sourceID
	}
	if c.Subject != subject {
		return false
	}
	if c.Due.Set && due.Set && c.Due.Date != due.Date {
		return false
	}
	return true
}

// Reminders es el colaborador de notificaciones (lo implementa notifications.Service).
type Reminders interface {
	Schedule(ctx context.Context, r Reminder) error
	CompleteMatching(ctx context.Context, c Correlation) (int, error)
}

// CheckTransition valida un cambio de status pedido por el owner.
// Solo existe Pending -> Completed; Completed -> Completed es no-op.
func CheckTransition(from, to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == StatusCompleted && to != StatusCompleted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// FollowUp ejecuta las escrituras secundarias de un tipo agendado.
// Son best-effort: un fallo se loguea y nunca revierte la escritura principal.
type FollowUp struct {
	Reminders Reminders
	Log       logger.Logger
}

func (f FollowUp) logger() logger.Logger {
	if f.Log == nil {
		return logger.NewNop()
	}
	return f.Log
}

// Completed marca Completed las notificaciones Pending correlacionadas.
func (f FollowUp) Completed(ctx context.Context, c Correlation) {
	if f.Reminders == nil {
		return
	}
	n, err := f.Reminders.CompleteMatching(ctx, c)
	if err != nil {
		f.logger().Warn("correlated notification not completed", map[string]any{
			"owner_id":  c.OwnerID,
			"source_id": c.SourceID,
			"subject":   c.Subject,
			"kind":      string(c.Kind),
			"err":       fmt.Errorf("%w: %v", ErrCorrelatedWrite, err),
		})
		return
	}
	f.logger().Debug("correlated notifications completed", map[string]any{
		"source_id": c.SourceID,
		"count":     n,
	})
}

// Scheduled crea el recordatorio de un registro recién creado.
func (f FollowUp) Scheduled(ctx context.Context, r Reminder) {
	if f.Reminders == nil {
		return
	}
	if err := f.Reminders.Schedule(ctx, r); err != nil {
		f.logger().Warn("reminder not scheduled", map[string]any{
			"owner_id":  r.OwnerID,
			"source_id": r.SourceID,
			"kind":      string(r.Kind),
			"err":       err,
		})
	}
}
