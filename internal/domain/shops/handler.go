package shops

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/middleware"
	"pet-care-planner/internal/ports/location"

	"github.com/go-chi/chi/v5"
)

// LocationFunc obtiene el provider de ubicación del request en curso.
type LocationFunc func(r *http.Request) location.Provider

func RegisterRoutes(r chi.Router, svc *Service, locate LocationFunc) {
	r.Route("/shops", func(sr chi.Router) {
		sr.Post("/", createShopHandler(svc))
		sr.Get("/", listShopsHandler(svc))
		sr.Get("/nearby", nearbyShopsHandler(svc, locate))

		sr.Get("/{shopID}", getShopHandler(svc))
		sr.Put("/{shopID}", updateShopHandler(svc))
		sr.Delete("/{shopID}", deleteShopHandler(svc))
	})
}

type shopRequest struct {
	Name          string               `json:"shop_name"`
	ContactNumber string               `json:"contact_number"`
	Address       string               `json:"location"`
	Geolocation   *location.Coordinate `json:"geolocation"`
	OpeningHours  string               `json:"opening_hours"`
	PricingRange  string               `json:"pricing_range"`
	Services      []string             `json:"services"`
}

type shopResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"shop_name"`
	ContactNumber  string               `json:"contact_number"`
	Address        string               `json:"location"`
	Geolocation    *location.Coordinate `json:"geolocation,omitempty"`
	OpeningHours   string               `json:"opening_hours"`
	PricingRange   string               `json:"pricing_range"`
	Services       []string             `json:"services"`
	DistanceMeters *float64             `json:"distance_meters,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// createShopHandler godoc
// @Summary Registrar local de grooming
// @Tags shops
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body shopRequest true "Datos del local; geolocation es opcional"
// @Success 201 {object} shopResponse
// @Failure 400 {string} string "invalid json / coordenada inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Router /shops [post]
func createShopHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		sh, err := svc.Create(r.Context(), middleware.Caller(r.Context()), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toShopResponse(sh, nil))
	}
}

// listShopsHandler godoc
// @Summary Listar locales
// @Tags shops
// @Produce json
// @Param q query string false "Texto en nombre o dirección"
// @Param limit query int false "Máximo a devolver"
// @Success 200 {array} shopResponse
// @Router /shops [get]
func listShopsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{Query: r.URL.Query().Get("q")}
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
			filter.Limit = n
		}
		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]shopResponse, 0, len(items))
		for _, sh := range items {
			out = append(out, toShopResponse(sh, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// nearbyShopsHandler godoc
// @Summary Locales cercanos
// @Description Ordena los locales por distancia (gran círculo) a la ubicación del dispositivo. Los locales sin geolocalización no aparecen. La ubicación va en `lat`/`lon` o en el header `X-Device-Location: lat,lon`.
// @Tags shops
// @Produce json
// @Param lat query number false "Latitud del dispositivo"
// @Param lon query number false "Longitud del dispositivo"
// @Param X-Device-Location header string false "lat,lon"
// @Param limit query int false "Máximo a devolver"
// @Success 200 {array} shopResponse
// @Failure 400 {string} string "location permission denied / invalid coordinate"
// @Router /shops/nearby [get]
func nearbyShopsHandler(svc *Service, locate LocationFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		ranked, err := svc.Nearby(r.Context(), locate(r), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]shopResponse, 0, len(ranked))
		for _, rk := range ranked {
			d := rk.DistanceMeters
			out = append(out, toShopResponse(rk.Shop, &d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getShopHandler godoc
// @Summary Obtener local
// @Tags shops
// @Produce json
// @Param shopID path string true "ID del local"
// @Success 200 {object} shopResponse
// @Failure 404 {string} string "shop not found"
// @Router /shops/{shopID} [get]
func getShopHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetByID(r.Context(), chi.URLParam(r, "shopID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShopResponse(sh, nil))
	}
}

// updateShopHandler godoc
// @Summary Reemplazar local
// @Tags shops
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param shopID path string true "ID del local"
// @Param payload body shopRequest true "Datos del local"
// @Success 200 {object} shopResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Failure 404 {string} string "shop not found"
// @Router /shops/{shopID} [put]
func updateShopHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		sh, err := svc.Update(r.Context(), middleware.Caller(r.Context()), chi.URLParam(r, "shopID"), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShopResponse(sh, nil))
	}
}

// deleteShopHandler godoc
// @Summary Eliminar local
// @Tags shops
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param shopID path string true "ID del local"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Failure 404 {string} string "shop not found"
// @Router /shops/{shopID} [delete]
func deleteShopHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Caller(r.Context()), chi.URLParam(r, "shopID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req shopRequest) input() Input {
	return Input{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Coordinate:    req.Geolocation,
		OpeningHours:  req.OpeningHours,
		PricingRange:  req.PricingRange,
		Services:      req.Services,
	}
}

func toShopResponse(sh Shop, distance *float64) shopResponse {
	services := sh.Services
	if services == nil {
		services = []string{}
	}
	return shopResponse{
		ID:             sh.ID,
		Name:           sh.Name,
		ContactNumber:  sh.ContactNumber,
		Address:        sh.Address,
		Geolocation:    sh.Coordinate,
		OpeningHours:   sh.OpeningHours,
		PricingRange:   sh.PricingRange,
		Services:       services,
		DistanceMeters: distance,
		UpdatedAt:      sh.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, schedule.ErrForbidden):
		http.Error(w, "admin only", http.StatusForbidden)
	case errors.Is(err, location.ErrPermissionDenied):
		http.Error(w, location.ErrPermissionDenied.Error(), http.StatusBadRequest)
	case errors.Is(err, location.ErrInvalidCoordinate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "shop not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
