package overview

import (
	"fmt"
	"strings"

	"pet-care-planner/internal/domain/schedule"
)

type Kind string

const (
	KindTask     Kind = "task"
	KindGrooming Kind = "grooming"
	KindVetVisit Kind = "vet_visit"
)

// Item es un registro agendado de cualquier tipo, visto desde la agenda.
type Item struct {
	Kind    Kind
	Key     string // mismo key que usa el servicio del tipo
	ID      string
	PetName string
	Title   string
	Status  schedule.Status

	// Due es la fecha cruda del store.
	Due any
}

func (i Item) ScheduleKey() string             { return i.Key }
func (i Item) ScheduleStatus() schedule.Status { return i.Status }
func (i Item) ScheduleDue() any                { return i.Due }

// View es la pantalla pedida: hoy o uno de los buckets.
type View string

const (
	ViewToday     View = "today"
	ViewPending   View = "pending"
	ViewMissed    View = "missed"
	ViewCompleted View = "completed"
)

func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewToday, ViewPending, ViewMissed, ViewCompleted:
		return v, nil
	default:
		return "", fmt.Errorf("%w: view %q", ErrInvalidView, s)
	}
}
