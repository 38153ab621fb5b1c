package foods

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/foods", func(fr chi.Router) {
		fr.Post("/", createFoodHandler(svc))
		fr.Get("/", searchFoodsHandler(svc))
		fr.Get("/recommendations/{species}", recommendFoodsHandler(svc))

		fr.Get("/{foodID}", getFoodHandler(svc))
		fr.Put("/{foodID}", updateFoodHandler(svc))
		fr.Delete("/{foodID}", deleteFoodHandler(svc))
	})
}

// foodRequest es el cuerpo para crear o reemplazar una entrada del catálogo.
type foodRequest struct {
	Name        string `json:"food_name"`
	Category    string `json:"category"`
	Species     string `json:"species"`
	IsSafe      bool   `json:"is_safe"`
	Recipe      string `json:"recipe"`
	Alternative string `json:"alternative_food"`
	Description string `json:"description"`
}

type foodResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"food_name"`
	Category    string    `json:"category"`
	Species     string    `json:"species"`
	IsSafe      bool      `json:"is_safe"`
	Recipe      string    `json:"recipe,omitempty"`
	Alternative string    `json:"alternative_food,omitempty"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createFoodHandler godoc
// @Summary Agregar alimento al catálogo
// @Tags foods
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body foodRequest true "Datos del alimento"
// @Success 201 {object} foodResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Router /foods [post]
func createFoodHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req foodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		f, err := svc.Create(r.Context(), middleware.Caller(r.Context()), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toFoodResponse(f))
	}
}

// searchFoodsHandler godoc
// @Summary Buscar alimentos
// @Tags foods
// @Produce json
// @Param q query string false "Texto en nombre, categoría o descripción"
// @Param species query string false "Especie (dog, cat...)"
// @Param safe query bool false "Solo alimentos seguros"
// @Param limit query int false "Máximo a devolver (1-200). Por defecto 50"
// @Success 200 {array} foodResponse
// @Failure 500 {string} string "internal error"
// @Router /foods [get]
func searchFoodsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{
			Query:   q.Get("q"),
			Species: q.Get("species"),
		}
		filter.SafeOnly, _ = strconv.ParseBool(q.Get("safe"))
		if n, err := strconv.Atoi(q.Get("limit")); err == nil {
			filter.Limit = n
		}

		items, err := svc.Search(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFoodResponses(items))
	}
}

// recommendFoodsHandler godoc
// @Summary Recomendaciones por especie
// @Description Alimentos marcados como seguros para la especie, ordenados por nombre.
// @Tags foods
// @Produce json
// @Param species path string true "Especie"
// @Success 200 {array} foodResponse
// @Router /foods/recommendations/{species} [get]
func recommendFoodsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Recommend(r.Context(), chi.URLParam(r, "species"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFoodResponses(items))
	}
}

// getFoodHandler godoc
// @Summary Obtener alimento
// @Tags foods
// @Produce json
// @Param foodID path string true "ID del alimento"
// @Success 200 {object} foodResponse
// @Failure 404 {string} string "food not found"
// @Router /foods/{foodID} [get]
func getFoodHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.GetByID(r.Context(), chi.URLParam(r, "foodID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFoodResponse(f))
	}
}

// updateFoodHandler godoc
// @Summary Reemplazar alimento
// @Description Solo un admin edita el catálogo.
// @Tags foods
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param foodID path string true "ID del alimento"
// @Param payload body foodRequest true "Datos del alimento"
// @Success 200 {object} foodResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Failure 404 {string} string "food not found"
// @Router /foods/{foodID} [put]
func updateFoodHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req foodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		f, err := svc.Update(r.Context(), middleware.Caller(r.Context()), chi.URLParam(r, "foodID"), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFoodResponse(f))
	}
}

// deleteFoodHandler godoc
// @Summary Eliminar alimento
// @Tags foods
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param foodID path string true "ID del alimento"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Failure 404 {string} string "food not found"
// @Router /foods/{foodID} [delete]
func deleteFoodHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Caller(r.Context()), chi.URLParam(r, "foodID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req foodRequest) input() Input {
	return Input{
		Name:        req.Name,
		Category:    req.Category,
		Species:     req.Species,
		IsSafe:      req.IsSafe,
		Recipe:      req.Recipe,
		Alternative: req.Alternative,
		Description: req.Description,
	}
}

func toFoodResponses(items []Food) []foodResponse {
	out := make([]foodResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFoodResponse(f))
	}
	return out
}

func toFoodResponse(f Food) foodResponse {
	return foodResponse{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Species:     f.Species,
		IsSafe:      f.IsSafe,
		Recipe:      f.Recipe,
		Alternative: f.Alternative,
		Description: f.Description,
		CreatedBy:   f.CreatedBy,
		UpdatedAt:   f.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, schedule.ErrForbidden):
		http.Error(w, "admin only", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "food not found", http.StatusNotFound)
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
