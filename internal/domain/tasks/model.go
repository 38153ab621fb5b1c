package tasks

import (
	"time"

	"pet-care-planner/internal/domain/schedule"
)

// Task es una tarea de cuidado (paseo, comida, medicación...) de una mascota.
type Task struct {
	ID      string
	OwnerID string

	Title       string
	Description string
	PetName     string
	Type        string

	// TaskDate se guarda tal como lo mandó el cliente (ISO).
	TaskDate string
	Reminder bool

	Status schedule.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Task) ScheduleKey() string             { return "tasks/" + t.ID }
func (t Task) ScheduleStatus() schedule.Status { return t.Status }
func (t Task) ScheduleDue() any                { return t.TaskDate }
