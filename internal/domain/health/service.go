package health

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
	classifier schedule.Classifier[Issue]
	anomalies  *schedule.AnomalyLog
	followUp   schedule.FollowUp
	now        func() time.Time
}

func NewService(repo Repository, deps schedule.Deps) *Service {
	return &Service{
		repo:       repo,
		classifier: schedule.NewClassifier[Issue](deps.Location, deps.Anomalies),
		anomalies:  deps.Anomalies,
		followUp:   deps.FollowUp(),
		now:        time.Now,
	}
}

func (s *Service) Location() *time.Location {
	if s.classifier.Location == nil {
		return time.UTC
	}
	return s.classifier.Location
}

type CreateInput struct {
	PetName          string
	Title            string
	Description      string
	Severity         Severity
	Treatment        string
	VetContact       string
	OngoingTreatment bool
	VetVisitDate     *time.Time
}

// Create registra el problema. Solo con visita agendada se crea un
// "Vet Visit Reminder".
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Issue, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Issue{}, err
	}
	if strings.TrimSpace(in.PetName) == "" || strings.TrimSpace(in.Title) == "" {
		return Issue{}, ErrInvalidInput
	}
	if !in.Severity.IsValid() {
		return Issue{}, fmt.Errorf("%w: severity %q", ErrInvalidInput, in.Severity)
	}

	now := s.now()
	i := Issue{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		PetName:          strings.TrimSpace(in.PetName),
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Severity:         in.Severity,
		Treatment:        strings.TrimSpace(in.Treatment),
		VetContact:       strings.TrimSpace(in.VetContact),
		OngoingTreatment: in.OngoingTreatment,
		VetVisitDate:     nonZero(in.VetVisitDate),
		Status:           schedule.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return Issue{}, err
	}

	if i.VetVisitDate != nil {
		s.followUp.Scheduled(ctx, s.reminder(i))
	}
	return i, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id string) (Issue, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]Issue, error) {
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

func (s *Service) Board(ctx context.Context, ownerID string) (schedule.Buckets[Issue], error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return schedule.Buckets[Issue]{}, err
	}
	items, err := s.repo.ListByOwner(ctx, ownerID, ListFilter{})
	if err != nil {
		return schedule.Buckets[Issue]{}, err
	}
	return s.classifier.Partition(items, s.now()), nil
}

func (s *Service) Today(ctx context.Context, ownerID string) ([]Issue, error) {
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

func (s *Service) Bucket(i Issue) schedule.Bucket {
	return s.classifier.Classify(i, s.now())
}

// UpdateInput: nil = no tocar. ClearVetVisit quita la visita agendada.
type UpdateInput struct {
	PetName          *string
	Title            *string
	Description      *string
	Severity         *Severity
	Treatment        *string
	VetContact       *string
	OngoingTreatment *bool
	VetVisitDate     *time.Time
	ClearVetVisit    bool
	Status           *schedule.Status
}

func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Issue, error) {
	i, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Issue{}, err
	}
	before := s.correlation(i)
	wasCompleted := i.Status == schedule.StatusCompleted

	if in.Status != nil {
		if err := schedule.CheckTransition(i.Status, *in.Status); err != nil {
			return Issue{}, err
		}
		i.Status = *in.Status
	}
	if in.PetName != nil {
		v := strings.TrimSpace(*in.PetName)
		if v == "" {
			return Issue{}, ErrInvalidInput
		}
		i.PetName = v
	}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		if v == "" {
			return Issue{}, ErrInvalidInput
		}
		i.Title = v
	}
	if in.Severity != nil {
		if !in.Severity.IsValid() {
			return Issue{}, fmt.Errorf("%w: severity %q", ErrInvalidInput, *in.Severity)
		}
		i.Severity = *in.Severity
	}
	if in.Description != nil {
		i.Description = strings.TrimSpace(*in.Description)
	}
	if in.Treatment != nil {
		i.Treatment = strings.TrimSpace(*in.Treatment)
	}
	if in.VetContact != nil {
		i.VetContact = strings.TrimSpace(*in.VetContact)
	}
	if in.OngoingTreatment != nil {
		i.OngoingTreatment = *in.OngoingTreatment
	}
	switch {
	case in.ClearVetVisit:
		i.VetVisitDate = nil
		s.anomalies.Forget(i.ScheduleKey())
	case in.VetVisitDate != nil:
		i.VetVisitDate = nonZero(in.VetVisitDate)
		s.anomalies.Forget(i.ScheduleKey())
	}

	i.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, i); err != nil {
		return Issue{}, err
	}

	switch {
	case wasCompleted:
	case i.Status == schedule.StatusCompleted:
		s.followUp.Completed(ctx, before)
	case s.classifier.Due(i) != before.Due:
		// la visita se movió o se quitó: se retira el recordatorio viejo
		// y se agenda uno nuevo si queda fecha
		if before.Due.Set {
			s.followUp.Completed(ctx, before)
		}
		if i.VetVisitDate != nil {
			s.followUp.Scheduled(ctx, s.reminder(i))
		}
	}
	return i, nil
}

func (s *Service) Complete(ctx context.Context, ownerID, id string) (Issue, error) {
	i, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Issue{}, err
	}

	if i.Status != schedule.StatusCompleted {
		i.Status = schedule.StatusCompleted
		i.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, i); err != nil {
			return Issue{}, err
		}
	}

	s.followUp.Completed(ctx, s.correlation(i))
	return i, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	i, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, i.ID); err != nil {
		return err
	}
	s.anomalies.Forget(i.ScheduleKey())
	return nil
}

func (s *Service) reminder(i Issue) schedule.Reminder {
	return schedule.Reminder{
		OwnerID:  i.OwnerID,
		SourceID: i.ID,
		Subject:  i.PetName,
		Kind:     schedule.ReminderVetVisit,
		Due:      s.classifier.Due(i),
		Message:  fmt.Sprintf("%s vet visit: %s", i.PetName, i.Title),
	}
}

func (s *Service) correlation(i Issue) schedule.Correlation {
	return schedule.Correlation{
		OwnerID:  i.OwnerID,
		SourceID: i.ID,
		Subject:  i.PetName,
		Kind:     schedule.ReminderVetVisit,
		Due:      s.classifier.Due(i),
	}
}

func (s *Service) getOwned(ctx context.Context, ownerID, id string) (Issue, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return Issue{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Issue{}, ErrNotFound
	}
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Issue{}, err
	}
	if i.OwnerID != ownerID {
		return Issue{}, ErrNotFound
	}
	return i, nil
}

func nonZero(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := *t
	return &v
}
