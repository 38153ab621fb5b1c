package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = schedule.ErrRecordNotFound
)

type Service struct {
	repo       Repository
	feed       *Feed
	classifier schedule.Classifier[Notification]
	log        logger.Logger
	now        func() time.Time
}

// NewService implementa schedule.Reminders: es el colaborador que usan
// tasks/grooming/health para crear y completar recordatorios.
func NewService(repo Repository, feed *Feed, deps schedule.Deps) *Service {
	if feed == nil {
		feed = NewFeed(0)
	}
	return &Service{
		repo:       repo,
		feed:       feed,
		classifier: schedule.NewClassifier[Notification](deps.Location, deps.Anomalies),
		log:        deps.Logger(),
		now:        time.Now,
	}
}

var _ schedule.Reminders = (*Service)(nil)

func (s *Service) Schedule(ctx context.Context, r schedule.Reminder) error {
	ownerID, err := schedule.RequireOwner(r.OwnerID)
	if err != nil {
		return err
	}
	if !r.Kind.IsValid() || strings.TrimSpace(r.Subject) == "" {
		return ErrInvalidInput
	}

	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = fmt.Sprintf("%s for %s", r.Kind, strings.TrimSpace(r.Subject))
	}

	now := s.now()
	n := Notification{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		SourceID:  strings.TrimSpace(r.SourceID),
		PetName:   strings.TrimSpace(r.Subject),
		Type:      r.Kind,
		Message:   msg,
		DueDate:   r.Due.String(),
		IsRead:    false,
		Status:    schedule.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.feed.Publish(ownerID, Event{Type: EventCreated, Notification: n})
	return nil
}

// CompleteMatching marca Completed las notificaciones Pending correlacionadas.
// Un fallo a mitad devuelve cuántas alcanzó a actualizar.
func (s *Service) CompleteMatching(ctx context.Context, c schedule.Correlation) (int, error) {
	ownerID, err := schedule.RequireOwner(c.OwnerID)
	if err != nil {
		return 0, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{
		Status: schedule.StatusPending,
		Types:  []schedule.ReminderKind{c.Kind},
	})
	if err != nil {
		return 0, fmt.Errorf("list pending notifications: %w", err)
	}

	done := 0
	for _, n := range items {
		if !c.Matches(n.OwnerID, n.SourceID, n.PetName, n.Type, s.classifier.Due(n)) {
			continue
		}
		n.Status = schedule.StatusCompleted
		n.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, n); err != nil {
			return done, fmt.Errorf("complete notification %s: %w", n.ID, err)
		}
		done++
		s.feed.Publish(ownerID, Event{Type: EventCompleted, Notification: n})
	}
	return done, nil
}

// ListToday es la bandeja: no leídas, Pending y con vencimiento hoy.
func (s *Service) ListToday(ctx context.Context, ownerID string) ([]Notification, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{
		Status:     schedule.StatusPending,
		UnreadOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return s.classifier.FilterToday(items, s.now()), nil
}

func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]Notification, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return s.classifier.SortByDueDateDescending(items), nil
}

func (s *Service) MarkRead(ctx context.Context, ownerID, id string) (Notification, error) {
	n, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Notification{}, err
	}
	if n.IsRead {
		return n, nil
	}

	n.IsRead = true
	n.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, n); err != nil {
		return Notification{}, err
	}

	s.feed.Publish(n.OwnerID, Event{Type: EventRead, Notification: n})
	return n, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	n, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, n.ID); err != nil {
		return err
	}

	s.feed.Publish(n.OwnerID, Event{Type: EventDeleted, Notification: n})
	return nil
}

func (s *Service) Subscribe(ownerID string) (*Subscription, error) {
	return s.feed.Subscribe(ownerID)
}

// ReleaseOwner cierra las suscripciones vivas del owner.
func (s *Service) ReleaseOwner(ownerID string) (int, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return 0, err
	}
	n := s.feed.ReleaseOwner(ownerID)
	s.log.Debug("notification subscriptions released", map[string]any{
		"owner_id": ownerID,
		"count":    n,
	})
	return n, nil
}

// Bucket clasifica una notificación (para la respuesta).
func (s *Service) Bucket(n Notification) schedule.Bucket {
	return s.classifier.Classify(n, s.now())
}

func (s *Service) getOwned(ctx context.Context, ownerID, id string) (Notification, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Notification{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Notification{}, ErrNotFound
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	// registro ajeno = no existe para este owner
	if n.OwnerID != ownerID {
		return Notification{}, ErrNotFound
	}
	return n, nil
}
