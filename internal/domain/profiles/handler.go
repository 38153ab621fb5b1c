package profiles

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
	r.Get("/me/profile", getProfileHandler(svc))
	r.Put("/me/profile", saveProfileHandler(svc))
	r.Delete("/me/profile", deleteProfileHandler(svc))

	// Panel admin
	r.Get("/profiles", listProfilesHandler(svc))
}

type profileRequest struct {
	Username    string `json:"username"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

type profileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Age         int       `json:"age"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// getProfileHandler godoc
// @Summary Mi perfil
// @Tags profiles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "profile not found"
// @Router /me/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// saveProfileHandler godoc
// @Summary Crear o reemplazar mi perfil
// @Description El email se toma de la sesión. Responde 201 la primera vez y 200 al reemplazar.
// @Tags profiles
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body profileRequest true "Datos de contacto"
// @Success 200 {object} profileResponse
// @Success 201 {object} profileResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /me/profile [put]
func saveProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req profileRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, created, err := svc.Save(r.Context(), middleware.Caller(r.Context()), Input{
			Username:    req.Username,
			Age:         req.Age,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toProfileResponse(p))
	}
}

// deleteProfileHandler godoc
// @Summary Eliminar mi perfil
// @Tags profiles
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "profile not found"
// @Router /me/profile [delete]
func deleteProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.OwnerID(r.Context())); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listProfilesHandler godoc
// @Summary Listar usuarios (admin)
// @Tags profiles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-User-Email header string false "Solo en modo dev, email del usuario (define el rol admin)"
// @Param Authorization header string false "Bearer token en producción"
// @Param q query string false "Texto en username o email"
// @Param limit query int false "Máximo a devolver (1-500). Por defecto 100"
// @Success 200 {array} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "admin only"
// @Router /profiles [get]
func listProfilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{Query: q.Get("q")}
		if n, err := strconv.Atoi(q.Get("limit")); err == nil {
			filter.Limit = n
		}

		items, err := svc.ListAll(r.Context(), middleware.Caller(r.Context()), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		UserID:      p.OwnerUserID,
		Email:       p.Email,
		Username:    p.Username,
		Age:         p.Age,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, schedule.ErrForbidden):
		http.Error(w, "admin only", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
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
