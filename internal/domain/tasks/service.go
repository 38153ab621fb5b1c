package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-planner/internal/domain/schedule"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = schedule.ErrRecordNotFound
)

type Service struct {
	repo       Repository
	classifier schedule.Classifier[Task]
	anomalies  *schedule.AnomalyLog
	followUp   schedule.FollowUp
	now        func() time.Time
}

func NewService(repo Repository, deps schedule.Deps) *Service {
	return &Service{
		repo:       repo,
		classifier: schedule.NewClassifier[Task](deps.Location, deps.Anomalies),
		anomalies:  deps.Anomalies,
		followUp:   deps.FollowUp(),
		now:        time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	PetName     string
	Type        string
	TaskDate    string
	Reminder    bool
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Task, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.PetName) == "" {
		return Task{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.TaskDate) == "" {
		return Task{}, fmt.Errorf("%w: task_date required", ErrInvalidInput)
	}
	if _, err := schedule.Normalize(in.TaskDate, s.classifier.Location); err != nil {
		return Task{}, fmt.Errorf("%w: task_date: %v", ErrInvalidInput, err)
	}

	now := s.now()
	t := Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PetName:     strings.TrimSpace(in.PetName),
		Type:        strings.TrimSpace(in.Type),
		TaskDate:    strings.TrimSpace(in.TaskDate),
		Reminder:    in.Reminder,
		Status:      schedule.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}

	if t.Reminder {
		s.followUp.Scheduled(ctx, schedule.Reminder{
			OwnerID:  t.OwnerID,
			SourceID: t.ID,
			Subject:  t.PetName,
			Kind:     schedule.ReminderTask,
			Due:      s.classifier.Due(t),
			Message:  fmt.Sprintf("%s: %s", t.PetName, t.Title),
		})
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id string) (Task, error) {
	return s.getOwned(ctx, ownerID, id)
}

// List devuelve las tareas del owner de la más reciente a la más antigua.
func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]Task, error) {
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

// Board agrupa las tareas en Pending/Completed/Missed al momento de leer.
func (s *Service) Board(ctx context.Context, ownerID string) (schedule.Buckets[Task], error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return schedule.Buckets[Task]{}, err
	}
	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{})
	if err != nil {
		return schedule.Buckets[Task]{}, err
	}
	return s.classifier.Partition(items, s.now()), nil
}

func (s *Service) Today(ctx context.Context, ownerID string) ([]Task, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{Status: schedule.StatusPending})
	if err != nil {
		return nil, err
	}
	return s.classifier.FilterToday(items, s.now()), nil
}

func (s *Service) Bucket(t Task) schedule.Bucket {
	return s.classifier.Classify(t, s.now())
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Title       *string
	Description *string
	PetName     *string
	Type        *string
	TaskDate    *string
	Reminder    *bool
	Status      *schedule.Status
}

func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Task, error) {
	t, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}
	wasCompleted := t.Status == schedule.StatusCompleted
	// el recordatorio se agendó con los datos previos a la edición
	before := s.correlation(t)

	if in.Status != nil {
		if err := schedule.CheckTransition(t.Status, *in.Status); err != nil {
			return Task{}, err
		}
		t.Status = *in.Status
	}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		if v == "" {
			return Task{}, ErrInvalidInput
		}
		t.Title = v
	}
	if in.PetName != nil {
		v := strings.TrimSpace(*in.PetName)
		if v == "" {
			return Task{}, ErrInvalidInput
		}
		t.PetName = v
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		t.Type = strings.TrimSpace(*in.Type)
	}
	if in.Reminder != nil {
		t.Reminder = *in.Reminder
	}
	if in.TaskDate != nil {
		v := strings.TrimSpace(*in.TaskDate)
		if _, err := schedule.Normalize(v, s.classifier.Location); err != nil || v == "" {
			return Task{}, fmt.Errorf("%w: task_date", ErrInvalidInput)
		}
		if v != t.TaskDate {
			t.TaskDate = v
			s.anomalies.Forget(t.ScheduleKey())
		}
	}

	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}

	if !wasCompleted && t.Status == schedule.StatusCompleted {
		s.followUp.Completed(ctx, before)
	}
	return t, nil
}

// Complete hace Pending -> Completed. Sobre un Completed es no-op; igual se
// reintenta completar la notificación ligada.
func (s *Service) Complete(ctx context.Context, ownerID, id string) (Task, error) {
	t, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}

	if t.Status != schedule.StatusCompleted {
		t.Status = schedule.StatusCompleted
		t.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, t); err != nil {
			return Task{}, err
		}
	}

	s.followUp.Completed(ctx, s.correlation(t))
	return t, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	t, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.anomalies.Forget(t.ScheduleKey())
	return nil
}

func (s *Service) correlation(t Task) schedule.Correlation {
	return schedule.Correlation{
		OwnerID:  t.OwnerID,
		SourceID: t.ID,
		Subject:  t.PetName,
		Kind:     schedule.ReminderTask,
		Due:      s.classifier.Due(t),
	}
}

func (s *Service) getOwned(ctx context.Context, ownerID, id string) (Task, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Task{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, ErrNotFound
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.OwnerID != ownerID {
		return Task{}, ErrNotFound
	}
	return t, nil
}
