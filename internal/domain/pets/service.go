package pets

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
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("pet not found")
	ErrDuplicateName = errors.New("pet name already used")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	Color     string
	AgeYears  int
	WeightKg  float64
	BirthDate *time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	ownerUserID, err := schedule.RequireOwner(ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.AgeYears < 0 || in.WeightKg < 0 {
		return Pet{}, fmt.Errorf("%w: age and weight must be positive", ErrInvalidInput)
	}
	sex, err := parseSex(in.Sex)
	if err != nil {
		return Pet{}, err
	}
	if err := s.ensureUniqueName(ctx, ownerUserID, "", name); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Species:     Species(strings.ToLower(strings.TrimSpace(in.Species))),
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		Color:       strings.TrimSpace(in.Color),
		AgeYears:    in.AgeYears,
		WeightKg:    in.WeightKg,
		BirthDate:   in.BirthDate,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, ownerUserID, id string) (Pet, error) {
	ownerUserID, err := schedule.RequireOwner(ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	ownerUserID, err := schedule.RequireOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// patchBirthDate distingue "no enviado" de "null" (limpiar).
type patchBirthDate struct {
	Present bool
	Value   *time.Time
}

// UpdateProfileInput usa punteros para PATCH: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	Color     *string
	AgeYears  *int
	WeightKg  *float64
	BirthDate patchBirthDate
	Notes     *string
}

func (s *Service) UpdateProfile(ctx context.Context, id, ownerUserID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetByID(ctx, ownerUserID, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		if !strings.EqualFold(name, p.Name) {
			if err := s.ensureUniqueName(ctx, p.OwnerUserID, p.ID, name); err != nil {
				return Pet{}, err
			}
		}
		p.Name = name
	}
	if in.Species != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Species))
		if v == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = Species(v)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex, err := parseSex(*in.Sex)
		if err != nil {
			return Pet{}, err
		}
		p.Sex = sex
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.AgeYears != nil {
		if *in.AgeYears < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.AgeYears = *in.AgeYears
	}
	if in.WeightKg != nil {
		if *in.WeightKg < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.WeightKg = *in.WeightKg
	}
	if in.BirthDate.Present {
		p.BirthDate = in.BirthDate.Value
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	p, err := s.GetByID(ctx, ownerUserID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *Service) ensureUniqueName(ctx context.Context, ownerUserID, selfID, name string) error {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return err
	}
	for _, p := range items {
		if p.ID != selfID && strings.EqualFold(p.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

func parseSex(s string) (Sex, error) {
	v := Sex(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SexUnknown, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("%w: sex %q", ErrInvalidInput, s)
	}
	return v, nil
}
