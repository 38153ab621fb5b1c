package auth

import "strings"

// RoleAdmin habilita la edición de los catálogos (alimentos, locales)
// y el listado de perfiles de usuarios.
const RoleAdmin = "admin"

// Claims es la identidad del caller. UserID es el owner de todos sus registros.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
	Roles    []string
}

// OwnerID devuelve el id con el que se scopean queries y escrituras.
func (c Claims) OwnerID() string {
	return strings.TrimSpace(c.UserID)
}

func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

func (c Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// WithRole devuelve una copia con el rol agregado (sin duplicar).
func (c Claims) WithRole(role string) Claims {
	if c.HasRole(role) {
		return c
	}
	roles := make([]string, 0, len(c.Roles)+1)
	roles = append(roles, c.Roles...)
	c.Roles = append(roles, role)
	return c
}
