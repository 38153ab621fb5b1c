package tasks

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
	r.Route("/tasks", func(tr chi.Router) {
		tr.Post("/", createTaskHandler(svc))
		tr.Get("/", listTasksHandler(svc))
		tr.Get("/today", todayTasksHandler(svc))

		tr.Get("/{taskID}", getTaskHandler(svc))
		tr.Patch("/{taskID}", updateTaskHandler(svc))
		tr.Delete("/{taskID}", deleteTaskHandler(svc))

		// Pending -> Completed (idempotente)
		tr.Post("/{taskID}/complete", completeTaskHandler(svc))
	})
}

// createTaskRequest es el cuerpo para crear una tarea de cuidado.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PetName     string `json:"pet_name"`
	Type        string `json:"type"`
	TaskDate    string `json:"task_date"` // ISO-8601
	Reminder    bool   `json:"reminder"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PetName     *string `json:"pet_name"`
	Type        *string `json:"type"`
	TaskDate    *string `json:"task_date"`
	Reminder    *bool   `json:"reminder"`
	Status      *string `json:"status" enums:"Pending,Completed"`
}

// taskResponse es una tarea con su bucket calculado al momento de leer.
type taskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	PetName     string          `json:"pet_name"`
	Type        string          `json:"type"`
	TaskDate    string          `json:"task_date"`
	Reminder    bool            `json:"reminder"`
	Status      schedule.Status `json:"status"`
	Bucket      schedule.Bucket `json:"bucket"`
	CanComplete bool            `json:"can_complete"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// createTaskHandler godoc
// @Summary Crear tarea
// @Description Crea una tarea Pending para el usuario autenticado. Con `reminder=true` agenda una notificación "Task Reminder".
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createTaskRequest true "Datos de la tarea"
// @Success 201 {object} taskResponse
// @Failure 400 {string} string "invalid json / campos requeridos / task_date inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /tasks [post]
func createTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Create(r.Context(), middleware.OwnerID(r.Context()), CreateInput{
			Title:       req.Title,
			Description: req.Description,
			PetName:     req.PetName,
			Type:        req.Type,
			TaskDate:    req.TaskDate,
			Reminder:    req.Reminder,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTaskResponse(svc, t))
	}
}

// listTasksHandler godoc
// @Summary Listar tareas
// @Description Lista las tareas del usuario de la más reciente a la más antigua. Con `bucket` devuelve solo Pending, Missed o Completed (Missed se calcula al leer).
// @Tags tasks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param bucket query string false "Pending, Missed o Completed"
// @Param pet_name query string false "Filtrar por mascota"
// @Success 200 {array} taskResponse
// @Failure 400 {string} string "bucket inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /tasks [get]
func listTasksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerID(r.Context())
		q := r.URL.Query()

		var (
			items []Task
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
		writeJSON(w, http.StatusOK, toTaskResponses(svc, items))
	}
}

// todayTasksHandler godoc
// @Summary Tareas de hoy
// @Description Tareas Pending cuyo día de vencimiento es hoy (zona horaria configurada).
// @Tags tasks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} taskResponse
// @Failure 401 {string} string "unauthorized"
// @Router /tasks/today [get]
func todayTasksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Today(r.Context(), middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponses(svc, items))
	}
}

// getTaskHandler godoc
// @Summary Obtener tarea
// @Tags tasks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param taskID path string true "ID de la tarea"
// @Success 200 {object} taskResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID} [get]
func getTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetByID(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "taskID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponse(svc, t))
	}
}

// updateTaskHandler godoc
// @Summary Actualizar tarea
// @Description PATCH: solo se tocan los campos enviados. `status` solo admite Pending -> Completed.
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param taskID path string true "ID de la tarea"
// @Param payload body updateTaskRequest true "Campos a modificar"
// @Success 200 {object} taskResponse
// @Failure 400 {string} string "invalid json / status inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /tasks/{taskID} [patch]
func updateTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateTaskRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			PetName:     req.PetName,
			Type:        req.Type,
			TaskDate:    req.TaskDate,
			Reminder:    req.Reminder,
		}
		if req.Status != nil {
			st := schedule.Status(strings.TrimSpace(*req.Status))
			in.Status = &st
		}

		t, err := svc.Update(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "taskID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponse(svc, t))
	}
}

// completeTaskHandler godoc
// @Summary Completar tarea
// @Description Marca la tarea como Completed y completa su notificación ligada (best-effort). Repetirlo no cambia nada.
// @Tags tasks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param taskID path string true "ID de la tarea"
// @Success 200 {object} taskResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID}/complete [post]
func completeTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Complete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "taskID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponse(svc, t))
	}
}

// deleteTaskHandler godoc
// @Summary Eliminar tarea
// @Tags tasks
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param taskID path string true "ID de la tarea"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID} [delete]
func deleteTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "taskID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toTaskResponses(svc *Service, items []Task) []taskResponse {
	out := make([]taskResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTaskResponse(svc, t))
	}
	return out
}

func toTaskResponse(svc *Service, t Task) taskResponse {
	b := svc.Bucket(t)
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		PetName:     t.PetName,
		Type:        t.Type,
		TaskDate:    t.TaskDate,
		Reminder:    t.Reminder,
		Status:      t.Status,
		Bucket:      b,
		CanComplete: schedule.CanComplete(b),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, schedule.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, schedule.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON se repite por módulo, igual que en el resto de handlers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
