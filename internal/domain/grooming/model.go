package grooming

import (
	"time"

	"pet-care-planner/internal/domain/schedule"
)

// Appointment es un turno de grooming (baño, corte, uñas...).
type Appointment struct {
	ID      string
	OwnerID string

	PetName      string
	GroomingType string
	ShopName     string
	Notes        string

	GroomingDate time.Time

	Status schedule.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Appointment) ScheduleKey() string             { return "grooming/" + a.ID }
func (a Appointment) ScheduleStatus() schedule.Status { return a.Status }
func (a Appointment) ScheduleDue() any                { return a.GroomingDate }
