package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Username    string
	Age         int
	Address     string
	PhoneNumber string
}

func (s *Service) Get(ctx context.Context, ownerUserID string) (Profile, error) {
	ownerUserID, err := schedule.RequireOwner(ownerUserID)
	if err != nil {
		return Profile{}, err
	}
	return s.repo.Get(ctx, ownerUserID)
}

// Save crea el perfil o lo reemplaza. El email sale de la sesión.
// created indica si no existía.
func (s *Service) Save(ctx context.Context, caller auth.Claims, in Input) (p Profile, created bool, err error) {
	ownerUserID, err := schedule.RequireOwner(caller.OwnerID())
	if err != nil {
		return Profile{}, false, err
	}
	if err := validate(in); err != nil {
		return Profile{}, false, err
	}

	now := s.now()
	p, err = s.repo.Get(ctx, ownerUserID)
	switch {
	case errors.Is(err, ErrNotFound):
		created = true
		p = Profile{OwnerUserID: ownerUserID, CreatedAt: now}
	case err != nil:
		return Profile{}, false, err
	}

	if email := strings.TrimSpace(caller.Email); email != "" {
		p.Email = email
	}
	p.Username = strings.TrimSpace(in.Username)
	p.Age = in.Age
	p.Address = strings.TrimSpace(in.Address)
	p.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, false, err
	}
	return p, created, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID string) error {
	ownerUserID, err := schedule.RequireOwner(ownerUserID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, ownerUserID)
}

// ListAll es el listado de usuarios del panel admin.
func (s *Service) ListAll(ctx context.Context, caller auth.Claims, filter ListFilter) ([]Profile, error) {
	if _, err := schedule.RequireAdmin(caller); err != nil {
		return nil, err
	}
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

func validate(in Input) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username required", ErrInvalidInput)
	}
	if in.Age < 0 || in.Age > 150 {
		return fmt.Errorf("%w: age out of range", ErrInvalidInput)
	}
	if !validPhone(in.PhoneNumber) {
		return fmt.Errorf("%w: phone_number must be digits", ErrInvalidInput)
	}
	return nil
}

// validPhone acepta vacío, o dígitos con '+' inicial, espacios y guiones.
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 6
}
