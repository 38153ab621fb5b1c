package grooming

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/grooming", func(gr chi.Router) {
		gr.Post("/", createAppointmentHandler(svc))
		gr.Get("/", listAppointmentsHandler(svc))
		gr.Get("/today", todayAppointmentsHandler(svc))

		gr.Get("/{appointmentID}", getAppointmentHandler(svc))
		gr.Patch("/{appointmentID}", updateAppointmentHandler(svc))
		gr.Delete("/{appointmentID}", deleteAppointmentHandler(svc))
		gr.Post("/{appointmentID}/complete", completeAppointmentHandler(svc))
	})
}

type createAppointmentRequest struct {
	PetName      string `json:"pet_name"`
	GroomingType string `json:"grooming_type"`
	ShopName     string `json:"shop_name"`
	Notes        string `json:"notes"`
	GroomingDate string `json:"grooming_date"` // RFC3339 o YYYY-MM-DD
}

type updateAppointmentRequest struct {
	PetName      *string `json:"pet_name"`
	GroomingType *string `json:"grooming_type"`
	ShopName     *string `json:"shop_name"`
	Notes        *string `json:"notes"`
	GroomingDate *string `json:"grooming_date"`
	Status       *string `json:"status" enums:"Pending,Completed"`
}

type appointmentResponse struct {
	ID           string          `json:"id"`
	PetName      string          `json:"pet_name"`
	GroomingType string          `json:"grooming_type"`
	ShopName     string          `json:"shop_name,omitempty"`
	Notes        string          `json:"notes"`
	GroomingDate time.Time       `json:"grooming_date"`
	Status       schedule.Status `json:"status"`
	Bucket       schedule.Bucket `json:"bucket"`
	CanComplete  bool            `json:"can_complete"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// createAppointmentHandler godoc
// @Summary Agendar grooming
// @Description Crea un turno de grooming Pending y agenda su "Grooming Reminder".
// @Tags grooming
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAppointmentRequest true "Datos del turno"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / grooming_date inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /grooming [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var when time.Time
		if strings.TrimSpace(req.GroomingDate) != "" {
			t, err := schedule.ParseInstant(req.GroomingDate, svc.Location())
			if err != nil {
				http.Error(w, "grooming_date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			when = t
		}

		a, err := svc.Create(r.Context(), middleware.OwnerID(r.Context()), CreateInput{
			PetName:      req.PetName,
			GroomingType: req.GroomingType,
			ShopName:     req.ShopName,
			Notes:        req.Notes,
			GroomingDate: when,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(svc, a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos de grooming
// @Tags grooming
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param bucket query string false "Pending, Missed o Completed"
// @Param pet_name query string false "Filtrar por mascota"
// @Success 200 {array} appointmentResponse
// @Failure 400 {string} string "bucket inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /grooming [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerID(r.Context())
		q := r.URL.Query()

		var (
			items []Appointment
			err   error
		)
		if v := strings.TrimSpace(q.Get("bucket")); v != "" {
			b, perr := schedule.ParseBucket(v)
			if perr != nil {
				http.Error(w, perr.Error(), http.StatusBadRequest)
				return
			}
			board, berr := svc.Board(r.Context(), ownerID)
			items, err = board.Select(b), berr
		} else {
			items, err = svc.List(r.Context(), ownerID, ListFilter{PetName: strings.TrimSpace(q.Get("pet_name"))})
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(svc, items))
	}
}

// todayAppointmentsHandler godoc
// @Summary Grooming de hoy
// @Tags grooming
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Router /grooming/today [get]
func todayAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Today(r.Context(), middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(svc, items))
	}
}

// getAppointmentHandler godoc
// @Summary Obtener turno de grooming
// @Tags grooming
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /grooming/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// updateAppointmentHandler godoc
// @Summary Actualizar turno de grooming
// @Tags grooming
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Param payload body updateAppointmentRequest true "Campos a modificar"
// @Success 200 {object} appointmentResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /grooming/{appointmentID} [patch]
func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAppointmentRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			PetName:      req.PetName,
			GroomingType: req.GroomingType,
			ShopName:     req.ShopName,
			Notes:        req.Notes,
		}
		if req.GroomingDate != nil {
			t, err := schedule.ParseInstant(*req.GroomingDate, svc.Location())
			if err != nil {
				http.Error(w, "grooming_date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.GroomingDate = &t
		}
		if req.Status != nil {
			st := schedule.Status(strings.TrimSpace(*req.Status))
			in.Status = &st
		}

		a, err := svc.Update(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// completeAppointmentHandler godoc
// @Summary Completar turno de grooming
// @Tags grooming
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /grooming/{appointmentID}/complete [post]
func completeAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Complete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// deleteAppointmentHandler godoc
// @Summary Eliminar turno de grooming
// @Tags grooming
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /grooming/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "appointmentID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAppointmentResponses(svc *Service, items []Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(svc, a))
	}
	return out
}

func toAppointmentResponse(svc *Service, a Appointment) appointmentResponse {
	b := svc.Bucket(a)
	return appointmentResponse{
		ID:           a.ID,
		PetName:      a.PetName,
		GroomingType: a.GroomingType,
		ShopName:     a.ShopName,
		Notes:        a.Notes,
		GroomingDate: a.GroomingDate,
		Status:       a.Status,
		Bucket:       b,
		CanComplete:  schedule.CanComplete(b),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, schedule.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, schedule.ErrInvalidStatus):
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
