package foods

import "time"

// Food es una entrada del catálogo de alimentación: qué puede (o no)
// comer una especie, con receta y alternativa sugerida.
type Food struct {
	ID        string
	CreatedBy string

	Name        string
	Category    string
	Species     string
	IsSafe      bool
	Recipe      string
	Alternative string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}
