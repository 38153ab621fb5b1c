package pets

import "time"

// Species define las especies más comunes. Se aceptan otras en minúscula.
// @Enum dog, cat, bird, rabbit, fish, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesFish   Species = "fish"
	SpeciesOther  Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	default:
		return false
	}
}

// Pet es el perfil de una mascota. El nombre es único por owner: tareas,
// grooming y notificaciones referencian a la mascota por nombre.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex
	Color   string

	AgeYears  int
	WeightKg  float64
	BirthDate *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
