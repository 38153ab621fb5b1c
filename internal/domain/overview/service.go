package overview

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"pet-care-planner/internal/domain/schedule"
)

var ErrInvalidView = errors.New("invalid view")

// Service arma la agenda combinada (tareas, grooming, visitas al veterinario).
type Service struct {
	sources    []Source
	classifier schedule.Classifier[Item]
	now        func() time.Time
}

func NewService(deps schedule.Deps, sources ...Source) *Service {
	return &Service{
		sources:    sources,
		classifier: schedule.NewClassifier[Item](deps.Location, deps.Anomalies),
		now:        time.Now,
	}
}

// Entry es un Item ya clasificado.
type Entry struct {
	Item
	DueDate     schedule.Due
	Bucket      schedule.Bucket
	CanComplete bool
}

// Get trae los tipos en paralelo y aplica la vista. Cada fuente trabaja sobre
// su propia lectura; el primer error cancela el resto.
func (s *Service) Get(ctx context.Context, ownerID string, view View) ([]Entry, error) {
	ownerID, err := schedule.RequireOwner(ownerID)
	if err != nil {
		return nil, err
	}

	results := make([][]Item, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			items, err := src(gctx, ownerID)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Item
	for _, items := range results {
		all = append(all, items...)
	}

	now := s.now()
	var selected []Item
	switch view {
	case ViewToday:
		selected = s.classifier.FilterToday(all, now)
	case ViewPending:
		selected = s.classifier.Partition(all, now).Select(schedule.BucketPending)
	case ViewMissed:
		selected = s.classifier.Partition(all, now).Select(schedule.BucketMissed)
	case ViewCompleted:
		selected = s.classifier.Partition(all, now).Select(schedule.BucketCompleted)
	default:
		return nil, ErrInvalidView
	}

	today := s.classifier.Today(now)
	out := make([]Entry, 0, len(selected))
	for _, it := range selected {
		due := s.classifier.Due(it)
		b := schedule.Classify(it.Status, due, today)
		out = append(out, Entry{
			Item:        it,
			DueDate:     due,
			Bucket:      b,
			CanComplete: schedule.CanComplete(b),
		})
	}
	return out, nil
}
