package middleware

import (
	"net/http"
	"time"

	"pet-care-planner/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog loguea cada request con el request id que setea chimw.RequestID.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			}
			if owner := OwnerID(r.Context()); owner != "" {
				fields["owner_id"] = owner
			}

			switch {
			case ww.Status() >= 500:
				log.Error("http request", fields)
			default:
				log.Debug("http request", fields)
			}
		})
	}
}
