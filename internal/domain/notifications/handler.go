package notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", listNotificationsHandler(svc))
		nr.Get("/stream", streamNotificationsHandler(svc))
		nr.Post("/{notificationID}/read", markReadHandler(svc))
		nr.Delete("/{notificationID}", deleteNotificationHandler(svc))
	})

	// Cierra las suscripciones abiertas del usuario.
	r.Post("/session/logout", logoutHandler(svc))
}

// notificationResponse representa un recordatorio del usuario.
type notificationResponse struct {
	ID        string                `json:"id"`
	SourceID  string                `json:"source_id,omitempty"`
	PetName   string                `json:"pet_name"`
	Type      schedule.ReminderKind `json:"type" enums:"Task Reminder,Grooming Reminder,Vet Visit Reminder"`
	Message   string                `json:"message"`
	DueDate   string                `json:"due_date,omitempty"`
	IsRead    bool                  `json:"is_read"`
	Status    schedule.Status       `json:"status"`
	Bucket    schedule.Bucket       `json:"bucket"`
	CreatedAt time.Time             `json:"created_at"`
}

type eventResponse struct {
	Type         EventType            `json:"type"`
	Notification notificationResponse `json:"notification"`
}

// listNotificationsHandler godoc
// @Summary Listar notificaciones
// @Description Por defecto devuelve la bandeja del día: no leídas, Pending y con vencimiento hoy. Con `all=true` devuelve todas, de la más reciente a la más antigua.
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param all query bool false "Incluir todas las notificaciones"
// @Param status query string false "Pending o Completed (solo con all=true)"
// @Param limit query int false "Máximo a devolver (1-200)"
// @Success 200 {array} notificationResponse
// @Failure 400 {string} string "status inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /notifications [get]
func listNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerID(r.Context())
		q := r.URL.Query()

		var (
			items []Notification
			err   error
		)
		if all, _ := strconv.ParseBool(q.Get("all")); all {
			filter := ListFilter{}
			if v := strings.TrimSpace(q.Get("status")); v != "" {
				st, perr := schedule.ParseStatus(v)
				if perr != nil {
					http.Error(w, perr.Error(), http.StatusBadRequest)
					return
				}
				filter.Status = st
			}
			if n, perr := strconv.Atoi(q.Get("limit")); perr == nil && n > 0 && n <= 200 {
				filter.Limit = n
			}
			items, err = svc.List(r.Context(), ownerID, filter)
		} else {
			items, err = svc.ListToday(r.Context(), ownerID)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(svc, n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markReadHandler godoc
// @Summary Marcar notificación como leída
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param notificationID path string true "ID de la notificación"
// @Success 200 {object} notificationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "notification not found"
// @Router /notifications/{notificationID}/read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.MarkRead(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "notificationID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNotificationResponse(svc, n))
	}
}

// deleteNotificationHandler godoc
// @Summary Eliminar notificación
// @Tags notifications
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param notificationID path string true "ID de la notificación"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "notification not found"
// @Router /notifications/{notificationID} [delete]
func deleteNotificationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "notificationID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// streamNotificationsHandler godoc
// @Summary Stream de notificaciones (SSE)
// @Description Abre un stream text/event-stream con los cambios de notificaciones del usuario. La suscripción se libera al cortar la conexión o con POST /session/logout.
// @Tags notifications
// @Produce text/event-stream
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} eventResponse
// @Failure 401 {string} string "unauthorized"
// @Router /notifications/stream [get]
func streamNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := svc.Subscribe(middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		defer sub.Close()

		rc := http.NewResponseController(w)
		// el stream vive más que el WriteTimeout del server
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, ": subscribed\n\n")
		if err := rc.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-sub.Events():
				if !ok {
					// ReleaseOwner (logout)
					return
				}
				b, err := json.Marshal(eventResponse{
					Type:         ev.Type,
					Notification: toNotificationResponse(svc, ev.Notification),
				})
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}

type logoutResponse struct {
	ReleasedSubscriptions int `json:"released_subscriptions"`
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Description Libera todas las suscripciones de notificaciones abiertas por el usuario.
// @Tags session
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} logoutResponse
// @Failure 401 {string} string "unauthorized"
// @Router /session/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.ReleaseOwner(middleware.OwnerID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, logoutResponse{ReleasedSubscriptions: n})
	}
}

func toNotificationResponse(svc *Service, n Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		SourceID:  n.SourceID,
		PetName:   n.PetName,
		Type:      n.Type,
		Message:   n.Message,
		DueDate:   n.DueDate,
		IsRead:    n.IsRead,
		Status:    n.Status,
		Bucket:    svc.Bucket(n),
		CreatedAt: n.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "notification not found", http.StatusNotFound)
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
