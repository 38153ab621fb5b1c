package health

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
	r.Route("/health-issues", func(hr chi.Router) {
		hr.Post("/", createIssueHandler(svc))
		hr.Get("/", listIssuesHandler(svc))
		hr.Get("/today", todayIssuesHandler(svc))

		hr.Get("/{issueID}", getIssueHandler(svc))
		hr.Patch("/{issueID}", updateIssueHandler(svc))
		hr.Delete("/{issueID}", deleteIssueHandler(svc))
		hr.Post("/{issueID}/complete", completeIssueHandler(svc))
	})
}

type createIssueRequest struct {
	PetName          string   `json:"pet_name"`
	Title            string   `json:"issue_title"`
	Description      string   `json:"description"`
	Severity         Severity `json:"severity" enums:"Mild,Moderate,Severe"`
	Treatment        string   `json:"treatment"`
	VetContact       string   `json:"vet_contact"`
	OngoingTreatment bool     `json:"ongoing_treatment"`
	VetVisitDate     string   `json:"vet_visit_date"` // opcional, RFC3339 o YYYY-MM-DD
}

type updateIssueRequest struct {
	PetName          *string   `json:"pet_name"`
	Title            *string   `json:"issue_title"`
	Description      *string   `json:"description"`
	Severity         *Severity `json:"severity"`
	Treatment        *string   `json:"treatment"`
	VetContact       *string   `json:"vet_contact"`
	OngoingTreatment *bool     `json:"ongoing_treatment"`
	Status           *string   `json:"status" enums:"Pending,Completed"`
	// vet_visit_date se lee aparte: null limpia la visita.
}

type issueResponse struct {
	ID               string          `json:"id"`
	PetName          string          `json:"pet_name"`
	Title            string          `json:"issue_title"`
	Description      string          `json:"description"`
	Severity         Severity        `json:"severity"`
	Treatment        string          `json:"treatment"`
	VetContact       string          `json:"vet_contact"`
	OngoingTreatment bool            `json:"ongoing_treatment"`
	VetVisitDate     *time.Time      `json:"vet_visit_date,omitempty"`
	Status           schedule.Status `json:"status"`
	Bucket           schedule.Bucket `json:"bucket"`
	CanComplete      bool            `json:"can_complete"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// createIssueHandler godoc
// @Summary Registrar problema de salud
// @Description Registra un problema de salud Pending. Si trae vet_visit_date agenda un "Vet Visit Reminder".
// @Tags health
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createIssueRequest true "Datos del problema"
// @Success 201 {object} issueResponse
// @Failure 400 {string} string "invalid json / severity inválido / vet_visit_date inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /health-issues [post]
func createIssueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIssueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var visit *time.Time
		if strings.TrimSpace(req.VetVisitDate) != "" {
			t, err := schedule.ParseInstant(req.VetVisitDate, svc.Location())
			if err != nil {
				http.Error(w, "vet_visit_date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			visit = &t
		}

		i, err := svc.Create(r.Context(), middleware.OwnerID(r.Context()), CreateInput{
			PetName:          req.PetName,
			Title:            req.Title,
			Description:      req.Description,
			Severity:         req.Severity,
			Treatment:        req.Treatment,
			VetContact:       req.VetContact,
			OngoingTreatment: req.OngoingTreatment,
			VetVisitDate:     visit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toIssueResponse(svc, i))
	}
}

// listIssuesHandler godoc
// @Summary Listar problemas de salud
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param bucket query string false "Pending, Missed o Completed"
// @Param pet_name query string false "Filtrar por mascota"
// @Success 200 {array} issueResponse
// @Failure 400 {string} string "bucket inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /health-issues [get]
func listIssuesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerID(r.Context())
		q := r.URL.Query()

		var (
			items []Issue
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
		writeJSON(w, http.StatusOK, toIssueResponses(svc, items))
	}
}

// todayIssuesHandler godoc
// @Summary Visitas al veterinario de hoy
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} issueResponse
// @Failure 401 {string} string "unauthorized"
// @Router /health-issues/today [get]
func todayIssuesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Today(r.Context(), middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toIssueResponses(svc, items))
	}
}

// getIssueHandler godoc
// @Summary Obtener problema de salud
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param issueID path string true "ID del problema"
// @Success 200 {object} issueResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "health issue not found"
// @Router /health-issues/{issueID} [get]
func getIssueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := svc.GetByID(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "issueID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toIssueResponse(svc, i))
	}
}

// updateIssueHandler godoc
// @Summary Actualizar problema de salud
// @Description PATCH. `vet_visit_date: null` quita la visita agendada.
// @Tags health
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param issueID path string true "ID del problema"
// @Param payload body updateIssueRequest true "Campos a modificar"
// @Success 200 {object} issueResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "health issue not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /health-issues/{issueID} [patch]
func updateIssueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Mapa primero para distinguir "vet_visit_date": null de "no enviado".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var visitRaw json.RawMessage
		visitPresent := false
		if v, ok := raw["vet_visit_date"]; ok {
			visitRaw, visitPresent = v, true
			delete(raw, "vet_visit_date")
		}

		var req updateIssueRequest
		b, _ := json.Marshal(raw)
		dec := json.NewDecoder(strings.NewReader(string(b)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			PetName:          req.PetName,
			Title:            req.Title,
			Description:      req.Description,
			Severity:         req.Severity,
			Treatment:        req.Treatment,
			VetContact:       req.VetContact,
			OngoingTreatment: req.OngoingTreatment,
		}
		if req.Status != nil {
			st := schedule.Status(strings.TrimSpace(*req.Status))
			in.Status = &st
		}
		if visitPresent {
			if string(visitRaw) == "null" {
				in.ClearVetVisit = true
			} else {
				var s string
				if err := json.Unmarshal(visitRaw, &s); err != nil {
					http.Error(w, "vet_visit_date must be a date string or null", http.StatusBadRequest)
					return
				}
				t, err := schedule.ParseInstant(s, svc.Location())
				if err != nil {
					http.Error(w, "vet_visit_date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
					return
				}
				in.VetVisitDate = &t
			}
		}

		i, err := svc.Update(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "issueID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toIssueResponse(svc, i))
	}
}

// completeIssueHandler godoc
// @Summary Completar problema de salud
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param issueID path string true "ID del problema"
// @Success 200 {object} issueResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "health issue not found"
// @Router /health-issues/{issueID}/complete [post]
func completeIssueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := svc.Complete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "issueID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toIssueResponse(svc, i))
	}
}

// deleteIssueHandler godoc
// @Summary Eliminar problema de salud
// @Tags health
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param issueID path string true "ID del problema"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "health issue not found"
// @Router /health-issues/{issueID} [delete]
func deleteIssueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "issueID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toIssueResponses(svc *Service, items []Issue) []issueResponse {
	out := make([]issueResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toIssueResponse(svc, i))
	}
	return out
}

func toIssueResponse(svc *Service, i Issue) issueResponse {
	b := svc.Bucket(i)
	return issueResponse{
		ID:               i.ID,
		PetName:          i.PetName,
		Title:            i.Title,
		Description:      i.Description,
		Severity:         i.Severity,
		Treatment:        i.Treatment,
		VetContact:       i.VetContact,
		OngoingTreatment: i.OngoingTreatment,
		VetVisitDate:     i.VetVisitDate,
		Status:           i.Status,
		Bucket:           b,
		CanComplete:      schedule.CanComplete(b),
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "health issue not found", http.StatusNotFound)
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
