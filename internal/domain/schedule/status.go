package schedule

import (
	"fmt"
	"strings"
)

// Status es el estado persistido de un registro agendado.
// Missed no es un Status: se deriva al leer (ver Bucket).
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"

	// statusMissedLegacy aparece en datos viejos que persistieron "Missed".
	// Se lee como Pending; nunca se escribe.
	statusMissedLegacy Status = "Missed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus valida un status de entrada. Vacío = Pending.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending, nil
	}
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Bucket es la clasificación de visualización.
type Bucket string

const (
	BucketPending   Bucket = "Pending"
	BucketCompleted Bucket = "Completed"
	BucketMissed    Bucket = "Missed"
)

// ParseBucket acepta el nombre del bucket sin importar mayúsculas.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return BucketPending, nil
	case "completed":
		return BucketCompleted, nil
	case "missed":
		return BucketMissed, nil
	default:
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidStatus, s)
	}
}

// Record es lo mínimo que necesita el clasificador de cada tipo
// (tareas, grooming, visitas al veterinario).
type Record interface {
	ScheduleKey() string
	ScheduleStatus() Status
	// ScheduleDue devuelve la fecha tal como vino del store (string ISO,
	// time.Time, timestamp serializado, nil...).
	ScheduleDue() any
}
