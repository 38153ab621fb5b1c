package memory

import (
	"errors"
	"strings"
	"sync"
)

var (
	errIDRequired    = errors.New("id required")
	errAlreadyExists = errors.New("already exists")
)

// collection guarda documentos por id y recuerda el orden de alta.
// notFound es el sentinel del dominio que se devuelve cuando falta el id.
type collection[T any] struct {
	mu       sync.RWMutex
	byID     map[string]T
	order    []string
	notFound error
}

func newCollection[T any](notFound error) *collection[T] {
	return &collection[T]{
		byID:     make(map[string]T),
		notFound: notFound,
	}
}

func (c *collection[T]) create(id string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return errIDRequired
	}
	if _, exists := c.byID[id]; exists {
		return errAlreadyExists
	}
	c.byID[id] = v
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) update(id string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return errIDRequired
	}
	if _, exists := c.byID[id]; !exists {
		return c.notFound
	}
	c.byID[id] = v
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, c.notFound
	}
	return v, nil
}

func (c *collection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return c.notFound
	}
	delete(c.byID, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// list devuelve una copia en orden de alta; keep nil = todos.
func (c *collection[T]) list(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range c.order {
		v := c.byID[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(haystack, q string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(q))
}
