package schedule

import (
	"errors"
	"strings"

	"pet-care-planner/internal/ports/auth"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrForbidden         = errors.New("admin role required")
	ErrRecordNotFound    = errors.New("record not found")
	ErrMalformedDueDate  = errors.New("malformed due date")
	ErrCorrelatedWrite   = errors.New("correlated notification write failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid status")
)

// RequireOwner normaliza el owner id del caller; vacío => ErrNotAuthenticated.
// Ningún read/write corre con scope implícito.
func RequireOwner(ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", ErrNotAuthenticated
	}
	return ownerID, nil
}

// RequireAdmin exige sesión y rol admin; devuelve el id del caller.
func RequireAdmin(c auth.Claims) (string, error) {
	id, err := RequireOwner(c.OwnerID())
	if err != nil {
		return "", err
	}
	if !c.IsAdmin() {
		return "", ErrForbidden
	}
	return id, nil
}
