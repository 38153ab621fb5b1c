package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Due es una fecha de vencimiento ya normalizada a día calendario.
type Due struct {
	Date civil.Date
	Set  bool
}

func DueOn(d civil.Date) Due {
	return Due{Date: d, Set: true}
}

func (d Due) String() string {
	if !d.Set {
		return ""
	}
	return d.Date.String()
}

// Timestamp es un timestamp serializado por el store ({seconds, nanoseconds}).
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos))
}

// Layouts sin zona: se interpretan en loc.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Normalize lleva cualquier representación conocida de fecha a un día
// calendario en loc. Ausente (nil, "", zero time) => Due{} sin error.
// Irreconocible => Due{} + ErrMalformedDueDate.
func Normalize(raw any, loc *time.Location) (Due, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch v := raw.(type) {
	case nil:
		return Due{}, nil
	case Due:
		return v, nil
	case civil.Date:
		if !v.IsValid() {
			return Due{}, fmt.Errorf("%w: invalid date %v", ErrMalformedDueDate, v)
		}
		return DueOn(v), nil
	case *civil.Date:
		if v == nil {
			return Due{}, nil
		}
		return Normalize(*v, loc)
	case time.Time:
		if v.IsZero() {
			return Due{}, nil
		}
		return DueOn(civil.DateOf(v.In(loc))), nil
	case *time.Time:
		if v == nil {
			return Due{}, nil
		}
		return Normalize(*v, loc)
	case Timestamp:
		return DueOn(civil.DateOf(v.Time().In(loc))), nil
	case *Timestamp:
		if v == nil {
			return Due{}, nil
		}
		return Normalize(*v, loc)
	case string:
		return parseDueString(v, loc)
	case *string:
		if v == nil {
			return Due{}, nil
		}
		return parseDueString(*v, loc)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return fromEpoch(float64(i), loc)
		}
		f, err := v.Float64()
		if err != nil {
			return Due{}, fmt.Errorf("%w: %q", ErrMalformedDueDate, v.String())
		}
		return fromEpoch(f, loc)
	case int:
		return fromEpoch(float64(v), loc)
	case int32:
		return fromEpoch(float64(v), loc)
	case int64:
		return fromEpoch(float64(v), loc)
	case float64:
		return fromEpoch(v, loc)
	case map[string]any:
		return fromSerializedTimestamp(v, loc)
	default:
		return Due{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedDueDate, raw)
	}
}

func parseDueString(s string, loc *time.Location) (Due, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Due{}, nil
	}

	// Fecha pura: ya es día calendario, no se convierte de zona.
	if d, err := civil.ParseDate(s); err == nil {
		return DueOn(d), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DueOn(civil.DateOf(t.In(loc))), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DueOn(civil.DateOf(t)), nil
		}
	}

	return Due{}, fmt.Errorf("%w: %q", ErrMalformedDueDate, s)
}

func fromEpoch(sec float64, loc *time.Location) (Due, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return Due{}, fmt.Errorf("%w: %v", ErrMalformedDueDate, sec)
	}
	whole, frac := math.Modf(sec)
	t := time.Unix(int64(whole), int64(frac*1e9))
	return DueOn(civil.DateOf(t.In(loc))), nil
}

// fromSerializedTimestamp acepta {"seconds": n, "nanoseconds": n} decodificado
// como map (también las variantes "_seconds" del SDK admin).
func fromSerializedTimestamp(m map[string]any, loc *time.Location) (Due, error) {
	raw, ok := m["seconds"]
	if !ok {
		raw, ok = m["_seconds"]
	}
	if !ok {
		return Due{}, fmt.Errorf("%w: object without seconds", ErrMalformedDueDate)
	}

	sec, ok := asFloat(raw)
	if !ok {
		return Due{}, fmt.Errorf("%w: seconds is %T", ErrMalformedDueDate, raw)
	}
	if n, ok := asFloat(m["nanoseconds"]); ok {
		sec += n / 1e9
	}
	return fromEpoch(sec, loc)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseInstant interpreta la fecha que manda un cliente al crear/editar:
// RFC3339 tal cual, o fecha pura (medianoche en loc).
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDueDate, s)
}
