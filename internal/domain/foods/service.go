package foods

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("food not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Name        string
	Category    string
	Species     string
	IsSafe      bool
	Recipe      string
	Alternative string
	Description string
}

// Create agrega una entrada al catálogo; solo un admin escribe el catálogo.
func (s *Service) Create(ctx context.Context, caller auth.Claims, in Input) (Food, error) {
	userID, err := schedule.RequireAdmin(caller)
	if err != nil {
		return Food{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Food{}, ErrInvalidInput
	}

	now := s.now()
	f := Food{
		ID:        uuid.NewString(),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&f, in)

	if err := s.repo.Create(ctx, f); err != nil {
		return Food{}, err
	}
	return f, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Food, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Food{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter ListFilter) ([]Food, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Species = normalizeSpecies(filter.Species)
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Recommend devuelve los alimentos seguros para la especie, por nombre.
func (s *Service) Recommend(ctx context.Context, species string) ([]Food, error) {
	species = normalizeSpecies(species)
	if species == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.List(ctx, ListFilter{Species: species, SafeOnly: true, Limit: 200})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b Food) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return items, nil
}

// Update reemplaza la entrada. CreatedBy queda como auditoría.
func (s *Service) Update(ctx context.Context, caller auth.Claims, id string, in Input) (Food, error) {
	f, err := s.getForAdmin(ctx, caller, id)
	if err != nil {
		return Food{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Food{}, ErrInvalidInput
	}
	apply(&f, in)
	f.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, f); err != nil {
		return Food{}, err
	}
	return f, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Claims, id string) error {
	f, err := s.getForAdmin(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, f.ID)
}

func (s *Service) getForAdmin(ctx context.Context, caller auth.Claims, id string) (Food, error) {
	if _, err := schedule.RequireAdmin(caller); err != nil {
		return Food{}, err
	}
	return s.GetByID(ctx, id)
}

func apply(f *Food, in Input) {
	f.Name = strings.TrimSpace(in.Name)
	f.Category = strings.TrimSpace(in.Category)
	f.Species = normalizeSpecies(in.Species)
	f.IsSafe = in.IsSafe
	f.Recipe = strings.TrimSpace(in.Recipe)
	f.Alternative = strings.TrimSpace(in.Alternative)
	f.Description = strings.TrimSpace(in.Description)
}

func normalizeSpecies(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
