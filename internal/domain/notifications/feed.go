package notifications

import (
	"sync"

	"pet-care-planner/internal/domain/schedule"
)

type EventType string

const (
	EventCreated   EventType = "created"
	EventRead      EventType = "read"
	EventCompleted EventType = "completed"
	EventDeleted   EventType = "deleted"
)

// Event es un cambio sobre una notificación del owner suscrito.
type Event struct {
	Type         EventType
	Notification Notification
}

const defaultFeedBuffer = 32

// Feed reparte eventos por owner. Cada Subscribe devuelve un handle propio
// que el llamador cierra; no hay lista global de listeners.
type Feed struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}
	return &Feed{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscription es el handle de una suscripción. Close es idempotente.
type Subscription struct {
	feed  *Feed
	owner string
	ch    chan Event
	once  sync.Once
}

func (f *Feed) Subscribe(ownerID string) (*Subscription, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		feed:  f,
		owner: ownerID,
		ch:    make(chan Event, f.buffer),
	}

	f.mu.Lock()
	set, ok := f.subs[ownerID]
	if !ok {
		set = make(map[*Subscription]struct{})
		f.subs[ownerID] = set
	}
	set[s] = struct{}{}
	f.mu.Unlock()

	return s, nil
}

func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) OwnerID() string { return s.owner }

func (s *Subscription) Close() {
	s.once.Do(func() {
		f := s.feed
		f.mu.Lock()
		defer f.mu.Unlock()

		if set, ok := f.subs[s.owner]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(f.subs, s.owner)
			}
		}
		close(s.ch)
	})
}

// Publish no bloquea: un suscriptor atrasado pierde el evento.
// Devuelve a cuántos handles se entregó.
func (f *Feed) Publish(ownerID string, e Event) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for s := range f.subs[ownerID] {
		select {
		case s.ch <- e:
			n++
		default:
		}
	}
	return n
}

// ReleaseOwner cierra todos los handles del owner (logout).
func (f *Feed) ReleaseOwner(ownerID string) int {
	f.mu.RLock()
	held := make([]*Subscription, 0, len(f.subs[ownerID]))
	for s := range f.subs[ownerID] {
		held = append(held, s)
	}
	f.mu.RUnlock()

	for _, s := range held {
		s.Close()
	}
	return len(held)
}

// CloseAll cierra todos los handles abiertos (apagado del server).
// Los streams terminan solos al ver su canal cerrado.
func (f *Feed) CloseAll() {
	f.mu.RLock()
	held := make([]*Subscription, 0)
	for _, set := range f.subs {
		for s := range set {
			held = append(held, s)
		}
	}
	f.mu.RUnlock()

	for _, s := range held {
		s.Close()
	}
}

// Active cuenta los handles abiertos de un owner.
func (f *Feed) Active(ownerID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[ownerID])
}
