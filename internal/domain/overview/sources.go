package overview

import (
	"context"

	"pet-care-planner/internal/domain/grooming"
	"pet-care-planner/internal/domain/health"
	"pet-care-planner/internal/domain/tasks"
)

// Source trae todos los registros de un tipo para el owner.
type Source func(ctx context.Context, ownerID string) ([]Item, error)

func TasksSource(svc *tasks.Service) Source {
	return func(ctx context.Context, ownerID string) ([]Item, error) {
		items, err := svc.List(ctx, ownerID, tasks.ListFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]Item, 0, len(items))
		for _, t := range items {
			out = append(out, Item{
				Kind:    KindTask,
				Key:     t.ScheduleKey(),
				ID:      t.ID,
				PetName: t.PetName,
				Title:   t.Title,
				Status:  t.Status,
				Due:     t.ScheduleDue(),
			})
		}
		return out, nil
	}
}

func GroomingSource(svc *grooming.Service) Source {
	return func(ctx context.Context, ownerID string) ([]Item, error) {
		items, err := svc.List(ctx, ownerID, grooming.ListFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]Item, 0, len(items))
		for _, a := range items {
			out = append(out, Item{
				Kind:    KindGrooming,
				Key:     a.ScheduleKey(),
				ID:      a.ID,
				PetName: a.PetName,
				Title:   a.GroomingType,
				Status:  a.Status,
				Due:     a.ScheduleDue(),
			})
		}
		return out, nil
	}
}

// HealthSource solo incluye los problemas con visita al veterinario agendada.
func HealthSource(svc *health.Service) Source {
	return func(ctx context.Context, ownerID string) ([]Item, error) {
		items, err := svc.List(ctx, ownerID, health.ListFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]Item, 0, len(items))
		for _, i := range items {
			if i.VetVisitDate == nil {
				continue
			}
			out = append(out, Item{
				Kind:    KindVetVisit,
				Key:     i.ScheduleKey(),
				ID:      i.ID,
				PetName: i.PetName,
				Title:   i.Title,
				Status:  i.Status,
				Due:     i.ScheduleDue(),
			})
		}
		return out, nil
	}
}
