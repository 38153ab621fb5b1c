package notifications

import (
	"time"

	"pet-care-planner/internal/domain/schedule"
)

// Notification es un recordatorio visible para el owner.
type Notification struct {
	ID      string
	OwnerID string

	// SourceID es el id del registro que la originó (task, grooming, health).
	// Puede venir vacío en datos viejos.
	SourceID string
	PetName  string
	Type     schedule.ReminderKind
	Message  string

	DueDate string // YYYY-MM-DD, "" sin fecha

	IsRead bool
	Status schedule.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n Notification) ScheduleKey() string             { return "notifications/" + n.ID }
func (n Notification) ScheduleStatus() schedule.Status { return n.Status }
func (n Notification) ScheduleDue() any                { return n.DueDate }
