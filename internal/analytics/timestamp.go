package analytics

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"asv-water-quality/internal/models"
)

const (
	// recordLayout формат колонок даты и времени в выгрузке: m/d/yy H:MM:SS
	recordLayout = "1/2/06 15:04:05"

	// ISOLayout формат производного поля timestamp
	ISOLayout = "2006-01-02T15:04:05"
)

var boundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ResolveTimestamp собирает момент времени из колонок даты и времени записи.
// Битые или отсутствующие значения дают false, а не ошибку.
func ResolveTimestamp(r models.Record) (time.Time, bool) {
	d := textField(r, models.DateKey, models.DateKeyFallback)
	t := textField(r, models.TimeKey, models.TimeKeyFallback)
	if d == "" || t == "" {
		return time.Time{}, false
	}

	ts, err := time.ParseInLocation(recordLayout, d+" "+t, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func textField(r models.Record, keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// TimeWindow временное окно запроса; нулевая граница означает отсутствие ограничения
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Active true, если задана хотя бы одна граница
func (w TimeWindow) Active() bool {
	return !w.Start.IsZero() || !w.End.IsZero()
}

// Contains проверяет попадание в [Start, End] с учетом открытых границ
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// ParseWindow разбирает ISO-8601 границы start/end.
// Если хотя бы одна непустая граница не разобралась, окно сбрасывается целиком.
func ParseWindow(start, end string) TimeWindow {
	var w TimeWindow
	var ok bool

	if start = strings.TrimSpace(start); start != "" {
		if w.Start, ok = parseBound(start); !ok {
			return TimeWindow{}
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		if w.End, ok = parseBound(end); !ok {
			return TimeWindow{}
		}
	}
	return w
}

func parseBound(s string) (time.Time, bool) {
	for _, layout := range boundLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
