package shops

import (
	"time"

	"pet-care-planner/internal/ports/location"
)

// Shop es un local de grooming. Coordinate nil = sin geolocalización.
type Shop struct {
	ID        string
	CreatedBy string

	Name          string
	ContactNumber string
	Address       string
	Coordinate    *location.Coordinate
	OpeningHours  string
	PricingRange  string
	Services      []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
