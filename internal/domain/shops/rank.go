package shops

import (
	"cmp"
	"slices"

	"github.com/golang/geo/s2"

	"pet-care-planner/internal/ports/location"
)

// Radio medio de la Tierra (IUGG), en metros.
const earthRadiusMeters = 6371008.8

// Ranked es un local con su distancia al origen.
type Ranked struct {
	Shop           Shop
	DistanceMeters float64
}

// DistanceMeters es la distancia de gran círculo entre dos coordenadas.
func DistanceMeters(a, b location.Coordinate) float64 {
	pa := s2.LatLngFromDegrees(a.Lat, a.Lon)
	pb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return pa.Distance(pb).Radians() * earthRadiusMeters
}

// Rank ordena por distancia ascendente. Los locales sin coordenada (o con
// una inválida) no aparecen. Empates conservan el orden de entrada.
func Rank(origin location.Coordinate, items []Shop) []Ranked {
	out := make([]Ranked, 0, len(items))
	for _, s := range items {
		if s.Coordinate == nil || !s.Coordinate.Valid() {
			continue
		}
		out = append(out, Ranked{Shop: s, DistanceMeters: DistanceMeters(origin, *s.Coordinate)})
	}

	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})
	return out
}
