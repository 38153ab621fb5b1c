package location

import (
	"context"
	"errors"
	"math"
)

var (
	ErrPermissionDenied  = errors.New("location permission denied")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Coordinate en grados decimales (WGS84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Provider entrega la coordenada actual del dispositivo.
// Sin permiso (o sin coordenada) => ErrPermissionDenied; una coordenada
// ilegible o fuera de rango => ErrInvalidCoordinate.
type Provider interface {
	CurrentCoordinate(ctx context.Context) (Coordinate, error)
}
