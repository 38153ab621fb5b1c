package schedule

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// Classify aplica la regla de buckets sobre un status y una fecha ya
// normalizada. Se compara por día calendario, nunca por instante.
func Classify(status Status, due Due, today civil.Date) Bucket {
	if status == StatusCompleted {
		return BucketCompleted
	}
	if isPending(status) && due.Set && due.Date.Before(today) {
		return BucketMissed
	}
	return BucketPending
}

// isPending: un "Missed" guardado por versiones viejas cuenta como Pending.
func isPending(status Status) bool {
	return status == StatusPending || status == statusMissedLegacy
}

// CanComplete indica si la UI debe ofrecer "marcar completado".
// Es política de presentación: el store no rechaza completar un Missed.
func CanComplete(b Bucket) bool {
	return b == BucketPending
}

// Buckets agrupa registros por bucket; cada lista va ordenada por fecha desc.
type Buckets[R Record] struct {
	Pending   []R
	Completed []R
	Missed    []R
}

func (b Buckets[R]) Select(bucket Bucket) []R {
	switch bucket {
	case BucketCompleted:
		return b.Completed
	case BucketMissed:
		return b.Missed
	default:
		return b.Pending
	}
}

// Classifier clasifica registros de un tipo. No muta la entrada ni habla con
// el store; las fechas irreconocibles se reportan una vez en Anomalies.
type Classifier[R Record] struct {
	Location  *time.Location
	Anomalies *AnomalyLog
}

func NewClassifier[R Record](loc *time.Location, anomalies *AnomalyLog) Classifier[R] {
	return Classifier[R]{Location: loc, Anomalies: anomalies}
}

func (c Classifier[R]) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today convierte el instante "ahora" al día calendario de la zona configurada.
func (c Classifier[R]) Today(now time.Time) civil.Date {
	return civil.DateOf(now.In(c.loc()))
}

// Due normaliza la fecha del registro. Malformada => ausente (nunca Missed).
func (c Classifier[R]) Due(r R) Due {
	raw := r.ScheduleDue()
	d, err := Normalize(raw, c.loc())
	if err != nil {
		c.Anomalies.Report(r.ScheduleKey(), raw, err)
		return Due{}
	}
	return d
}

func (c Classifier[R]) Classify(r R, now time.Time) Bucket {
	return Classify(r.ScheduleStatus(), c.Due(r), c.Today(now))
}

// FilterToday devuelve los Pending cuyo día de vencimiento es hoy.
func (c Classifier[R]) FilterToday(records []R, now time.Time) []R {
	today := c.Today(now)
	out := make([]R, 0)
	for _, r := range records {
		if !isPending(r.ScheduleStatus()) {
			continue
		}
		d := c.Due(r)
		if d.Set && d.Date == today {
			out = append(out, r)
		}
	}
	return out
}

// SortByDueDateDescending ordena (estable) del más reciente al más antiguo;
// sin fecha van al final. Devuelve un slice nuevo.
func (c Classifier[R]) SortByDueDateDescending(records []R) []R {
	type keyed struct {
		rec R
		due Due
	}

	tmp := make([]keyed, 0, len(records))
	for _, r := range records {
		tmp = append(tmp, keyed{rec: r, due: c.Due(r)})
	}

	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return compareDueDesc(a.due, b.due)
	})

	out := make([]R, 0, len(tmp))
	for _, k := range tmp {
		out = append(out, k.rec)
	}
	return out
}

func (c Classifier[R]) Partition(records []R, now time.Time) Buckets[R] {
	today := c.Today(now)
	var b Buckets[R]
	for _, r := range records {
		switch Classify(r.ScheduleStatus(), c.Due(r), today) {
		case BucketCompleted:
			b.Completed = append(b.Completed, r)
		case BucketMissed:
			b.Missed = append(b.Missed, r)
		default:
			b.Pending = append(b.Pending, r)
		}
	}
	b.Pending = c.SortByDueDateDescending(b.Pending)
	b.Completed = c.SortByDueDateDescending(b.Completed)
	b.Missed = c.SortByDueDateDescending(b.Missed)
	return b
}

func compareDueDesc(a, b Due) int {
	switch {
	case a.Set && !b.Set:
		return -1
	case !a.Set && b.Set:
		return 1
	case !a.Set && !b.Set:
		return 0
	case a.Date.After(b.Date):
		return -1
	case a.Date.Before(b.Date):
		return 1
	default:
		return 0
	}
}
