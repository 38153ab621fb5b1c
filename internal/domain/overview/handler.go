package overview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/schedule/{view}", getScheduleHandler(svc))
}

type entryResponse struct {
	Kind        Kind   `json:"kind"`
	ID          string `json:"id"`
	PetName     string `json:"pet_name"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
	Bucket      string `json:"bucket"`
	CanComplete bool   `json:"can_complete"`
}

type scheduleResponse struct {
	View  View            `json:"view"`
	Items []entryResponse `json:"items"`
}

// getScheduleHandler godoc
// @Summary Agenda combinada
// @Description Tareas, turnos de grooming y visitas al veterinario del usuario. `today` devuelve los Pending que vencen hoy; `pending`, `missed` y `completed` devuelven ese bucket ordenado por fecha desc.
// @Tags overview
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param view path string true "today | pending | missed | completed"
// @Success 200 {object} scheduleResponse
// @Failure 400 {string} string "invalid view"
// @Failure 401 {string} string "unauthorized"
// @Router /me/schedule/{view} [get]
func getScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := ParseView(chi.URLParam(r, "view"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries, err := svc.Get(r.Context(), middleware.OwnerID(r.Context()), view)
		if err != nil {
			switch {
			case errors.Is(err, schedule.ErrNotAuthenticated):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			case errors.Is(err, ErrInvalidView):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := scheduleResponse{View: view, Items: make([]entryResponse, 0, len(entries))}
		for _, e := range entries {
			out.Items = append(out.Items, entryResponse{
				Kind:        e.Kind,
				ID:          e.ID,
				PetName:     e.PetName,
				Title:       e.Title,
				DueDate:     e.DueDate.String(),
				Status:      string(e.Status),
				Bucket:      string(e.Bucket),
				CanComplete: e.CanComplete,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
