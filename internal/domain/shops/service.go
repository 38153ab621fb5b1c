package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/ports/auth"
	"pet-care-planner/internal/ports/location"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("shop not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Name          string
	ContactNumber string
	Address       string
	Coordinate    *location.Coordinate
	OpeningHours  string
	PricingRange  string
	Services      []string
}

// Create registra un local; el directorio lo mantiene un admin.
func (s *Service) Create(ctx context.Context, caller auth.Claims, in Input) (Shop, error) {
	userID, err := schedule.RequireAdmin(caller)
	if err != nil {
		return Shop{}, err
	}
	if err := validate(in); err != nil {
		return Shop{}, err
	}

	now := s.now()
	sh := Shop{
		ID:        uuid.NewString(),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&sh, in)

	if err := s.repo.Create(ctx, sh); err != nil {
		return Shop{}, err
	}
	return sh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shop, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shop{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Shop, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

// Nearby pide la ubicación al provider y rankea todos los locales.
// Sin permiso de ubicación devuelve location.ErrPermissionDenied.
func (s *Service) Nearby(ctx context.Context, p location.Provider, limit int) ([]Ranked, error) {
	origin, err := p.CurrentCoordinate(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	ranked := Rank(origin, items)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Service) Update(ctx context.Context, caller auth.Claims, id string, in Input) (Shop, error) {
	sh, err := s.getForAdmin(ctx, caller, id)
	if err != nil {
		return Shop{}, err
	}
	if err := validate(in); err != nil {
		return Shop{}, err
	}
	apply(&sh, in)
	sh.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sh); err != nil {
		return Shop{}, err
	}
	return sh, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Claims, id string) error {
	sh, err := s.getForAdmin(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, sh.ID)
}

func (s *Service) getForAdmin(ctx context.Context, caller auth.Claims, id string) (Shop, error) {
	if _, err := schedule.RequireAdmin(caller); err != nil {
		return Shop{}, err
	}
	return s.GetByID(ctx, id)
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if in.Coordinate != nil && !in.Coordinate.Valid() {
		return fmt.Errorf("%w: coordinate out of range", ErrInvalidInput)
	}
	return nil
}

func apply(sh *Shop, in Input) {
	sh.Name = strings.TrimSpace(in.Name)
	sh.ContactNumber = strings.TrimSpace(in.ContactNumber)
	sh.Address = strings.TrimSpace(in.Address)
	sh.Coordinate = in.Coordinate
	sh.OpeningHours = strings.TrimSpace(in.OpeningHours)
	sh.PricingRange = strings.TrimSpace(in.PricingRange)

	services := make([]string, 0, len(in.Services))
	for _, v := range in.Services {
		if v = strings.TrimSpace(v); v != "" {
			services = append(services, v)
		}
	}
	sh.Services = services
}
