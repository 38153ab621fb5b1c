package profiles

import "time"

// Profile son los datos de contacto del usuario. Hay uno por usuario y
// se identifica por su owner id.
type Profile struct {
	OwnerUserID string
	Email       string

	Username    string
	Age         int
	Address     string
	PhoneNumber string

	CreatedAt time.Time
	UpdatedAt time.Time
}
