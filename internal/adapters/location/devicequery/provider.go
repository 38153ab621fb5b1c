package devicequery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pet-care-planner/internal/ports/location"
)

// HeaderName lleva "lat,lon" cuando el cliente no usa query params.
const HeaderName = "X-Device-Location"

// Provider lee la coordenada que el dispositivo mandó con el request:
// query ?lat=..&lon=.. o header X-Device-Location. Sin coordenada =>
// el dispositivo no dio permiso; coordenada mal formada => request inválido.
type Provider struct {
	raw string
}

func FromRequest(r *http.Request) Provider {
	q := r.URL.Query()
	if lat, lon := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lon")); lat != "" || lon != "" {
		return Provider{raw: lat + "," + lon}
	}
	return Provider{raw: strings.TrimSpace(r.Header.Get(HeaderName))}
}

func (p Provider) CurrentCoordinate(_ context.Context) (location.Coordinate, error) {
	if p.raw == "" {
		return location.Coordinate{}, location.ErrPermissionDenied
	}
	parts := strings.Split(p.raw, ",")
	if len(parts) != 2 {
		return location.Coordinate{}, fmt.Errorf("%w: want lat,lon", location.ErrInvalidCoordinate)
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return location.Coordinate{}, fmt.Errorf("%w: %q", location.ErrInvalidCoordinate, p.raw)
	}

	c := location.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return location.Coordinate{}, fmt.Errorf("%w: out of range", location.ErrInvalidCoordinate)
	}
	return c, nil
}
