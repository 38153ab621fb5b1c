package schedule

import (
	"fmt"
	"sync"

	"pet-care-planner/internal/platform/logger"
)

// AnomalyLog registra fechas irreconocibles una sola vez por registro.
// Lo crea quien arma los servicios; no hay estado global.
type AnomalyLog struct {
	mu   sync.Mutex
	seen map[string]struct{}
	log  logger.Logger
}

func NewAnomalyLog(log logger.Logger) *AnomalyLog {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnomalyLog{
		seen: make(map[string]struct{}),
		log:  log,
	}
}

// Report devuelve true solo la primera vez que se ve la key.
func (a *AnomalyLog) Report(key string, raw any, err error) bool {
	if a == nil {
		return false
	}

	a.mu.Lock()
	_, dup := a.seen[key]
	if !dup {
		a.seen[key] = struct{}{}
	}
	a.mu.Unlock()

	if dup {
		return false
	}

	a.log.Warn("due date treated as absent", map[string]any{
		"record": key,
		"raw":    fmt.Sprintf("%v", raw),
		"err":    err,
	})
	return true
}

// Forget permite volver a reportar un registro (p.ej. tras editar su fecha).
func (a *AnomalyLog) Forget(key string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	delete(a.seen, key)
	a.mu.Unlock()
}

func (a *AnomalyLog) Len() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}
