package grooming

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
	classifier schedule.Classifier[Appointment]
	anomalies  *schedule.AnomalyLog
	followUp   schedule.FollowUp
	now        func() time.Time
}

func NewService(repo Repository, deps schedule.Deps) *Service {
	return &Service{
		repo:       repo,
		classifier: schedule.NewClassifier[Appointment](deps.Location, deps.Anomalies),
		anomalies:  deps.Anomalies,
		followUp:   deps.FollowUp(),
		now:        time.Now,
	}
}

// Location es la zona con la que se interpretan fechas sin offset.
func (s *Service) Location() *time.Location {
	if s.classifier.Location == nil {
		return time.UTC
	}
	return s.classifier.Location
}

type CreateInput struct {
	PetName      string
	GroomingType string
	ShopName     string
	Notes        string
	GroomingDate time.Time
}

// Create agenda el turno y siempre deja un "Grooming Reminder".
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Appointment, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Appointment{}, err
	}
	if strings.TrimSpace(in.PetName) == "" || strings.TrimSpace(in.GroomingType) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.GroomingDate.IsZero() {
		return Appointment{}, fmt.Errorf("%w: grooming_date required", ErrInvalidInput)
	}

	now := s.now()
	a := Appointment{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		PetName:      strings.TrimSpace(in.PetName),
		GroomingType: strings.TrimSpace(in.GroomingType),
		ShopName:     strings.TrimSpace(in.ShopName),
		Notes:        strings.TrimSpace(in.Notes),
		GroomingDate: in.GroomingDate,
		Status:       schedule.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.followUp.Scheduled(ctx, schedule.Reminder{
		OwnerID:  a.OwnerID,
		SourceID: a.ID,
		Subject:  a.PetName,
		Kind:     schedule.ReminderGrooming,
		Due:      s.classifier.Due(a),
		Message:  fmt.Sprintf("%s grooming (%s)", a.PetName, a.GroomingType),
	})
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id string) (Appointment, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]Appointment, error) {
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

func (s *Service) Board(ctx context.Context, ownerID string) (schedule.Buckets[Appointment], error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return schedule.Buckets[Appointment]{}, err
	}
	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{})
	if err != nil {
		return schedule.Buckets[Appointment]{}, err
	}
	return s.classifier.Partition(items, s.now()), nil
}

func (s *Service) Today(ctx context.Context, ownerID string) ([]Appointment, error) {
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

func (s *Service) Bucket(a Appointment) schedule.Bucket {
	return s.classifier.Classify(a, s.now())
}

type UpdateInput struct {
	PetName      *string
	GroomingType *string
	ShopName     *string
	Notes        *string
	GroomingDate *time.Time
	Status       *schedule.Status
}

func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Appointment, error) {
	a, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Appointment{}, err
	}
	// la correlación usa los datos previos (pet/fecha) del recordatorio
	before := s.correlation(a)
	wasCompleted := a.Status == schedule.StatusCompleted

	if in.Status != nil {
		if err := schedule.CheckTransition(a.Status, *in.Status); err != nil {
			return Appointment{}, err
		}
		a.Status = *in.Status
	}
	if in.PetName != nil {
		v := strings.TrimSpace(*in.PetName)
		if v == "" {
			return Appointment{}, ErrInvalidInput
		}
		a.PetName = v
	}
	if in.GroomingType != nil {
		v := strings.TrimSpace(*in.GroomingType)
		if v == "" {
			return Appointment{}, ErrInvalidInput
		}
		a.GroomingType = v
	}
	if in.ShopName != nil {
		a.ShopName = strings.TrimSpace(*in.ShopName)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.GroomingDate != nil {
		if in.GroomingDate.IsZero() {
			return Appointment{}, ErrInvalidInput
		}
		a.GroomingDate = *in.GroomingDate
		s.anomalies.Forget(a.ScheduleKey())
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if !wasCompleted && a.Status == schedule.StatusCompleted {
		s.followUp.Completed(ctx, before)
	}
	return a, nil
}

func (s *Service) Complete(ctx context.Context, ownerID, id string) (Appointment, error) {
	a, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Appointment{}, err
	}

	if a.Status != schedule.StatusCompleted {
		a.Status = schedule.StatusCompleted
		a.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, a); err != nil {
			return Appointment{}, err
		}
	}

	s.followUp.Completed(ctx, s.correlation(a))
	return a, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	a, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}
	s.anomalies.Forget(a.ScheduleKey())
	return nil
}

// correlation: pet + tipo + día; el id del turno cuando la notificación lo tiene.
func (s *Service) correlation(a Appointment) schedule.Correlation {
	return schedule.Correlation{
		OwnerID:  a.OwnerID,
		SourceID: a.ID,
		Subject:  a.PetName,
		Kind:     schedule.ReminderGrooming,
		Due:      s.classifier.Due(a),
	}
}

func (s *Service) getOwned(ctx context.Context, ownerID, id string) (Appointment, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Appointment{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.OwnerID != ownerID {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}
