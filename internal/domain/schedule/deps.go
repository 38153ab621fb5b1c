package schedule

import (
	"time"

	"pet-care-planner/internal/platform/logger"
)

// Deps es lo que comparten los servicios de tipos agendados
// (tasks, grooming, health). Lo arma el router.
type Deps struct {
	Location  *time.Location
	Anomalies *AnomalyLog
	Reminders Reminders
	Log       logger.Logger
}

func (d Deps) Logger() logger.Logger {
	if d.Log == nil {
		return logger.NewNop()
	}
	return d.Log
}

func (d Deps) FollowUp() FollowUp {
	return FollowUp{Reminders: d.Reminders, Log: d.Logger()}
}
