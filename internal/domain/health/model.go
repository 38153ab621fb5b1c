package health

import (
	"time"

	"pet-care-planner/internal/domain/schedule"
)

// Severity del problema de salud.
// @Enum Mild, Moderate, Severe
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// Issue es un problema de salud con visita al veterinario opcional.
type Issue struct {
	ID      string
	OwnerID string

	PetName          string
	Title            string
	Description      string
	Severity         Severity
	Treatment        string
	VetContact       string
	OngoingTreatment bool

	VetVisitDate *time.Time // nil = sin visita agendada

	Status schedule.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Issue) ScheduleKey() string             { return "health/" + i.ID }
func (i Issue) ScheduleStatus() schedule.Status { return i.Status }
func (i Issue) ScheduleDue() any                { return i.VetVisitDate }
