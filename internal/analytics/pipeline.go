package analytics

import (
	"math"

	"asv-water-quality/internal/models"
)

// Ограничения пагинации
const (
	DefaultLimit = 100
	MaxLimit     = 1000

	// OverFetch во сколько раз больше записей запрашивать у хранилища,
	// когда после выборки еще работает фильтр по времени
	OverFetch = 4
)

// Page страница выдачи
type Page struct {
	Limit int
	Skip  int
}

// ClampPage приводит limit к [1, MaxLimit], skip к >= 0
func ClampPage(limit, skip int) Page {
	if limit > MaxLimit {
		limit = MaxLimit
	} else if limit < 1 {
		limit = 1
	}
	if skip < 0 {
		skip = 0
	}
	return Page{Limit: limit, Skip: skip}
}

// FieldRange включительный диапазон по полю; nil граница не ограничивает
type FieldRange struct {
	Field models.Field
	Min   *float64
	Max   *float64
}

// Bounded true, если задана хотя бы одна граница
func (fr FieldRange) Bounded() bool {
	return fr.Min != nil || fr.Max != nil
}

// Match проверяет значение на попадание в диапазон
func (fr FieldRange) Match(v float64) bool {
	if fr.Min != nil && v < *fr.Min {
		return false
	}
	if fr.Max != nil && v > *fr.Max {
		return false
	}
	return true
}

// FilterByRange фильтр по диапазонам в памяти, повторяет семантику $gte/$lte:
// запись без числового значения в ограниченном поле отбрасывается.
// Строки не сравниваются с числовыми границами, даже если похожи на число.
func FilterByRange(records []models.Record, ranges []FieldRange) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if matchRanges(r, ranges) {
			out = append(out, r)
		}
	}
	return out
}

func matchRanges(r models.Record, ranges []FieldRange) bool {
	for _, fr := range ranges {
		if !fr.Bounded() {
			continue
		}
		raw := r[fr.Field.Key]
		if _, isText := raw.(string); isText {
			return false
		}
		v, ok := ToOptionalFloat(raw)
		if !ok || !fr.Match(v) {
			return false
		}
	}
	return true
}

// FilterByTime оставляет записи внутри окна.
// При активном окне записи без разбираемого времени отбрасываются.
func FilterByTime(records []models.Record, w TimeWindow) []models.Record {
	if !w.Active() {
		return records
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		ts, ok := ResolveTimestamp(r)
		if ok && w.Contains(ts) {
			out = append(out, r)
		}
	}
	return out
}

// FieldSample извлекает числовые значения поля, пропуская отсутствующие
func FieldSample(records []models.Record, key string) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := ToOptionalFloat(r[key]); ok {
			values = append(values, v)
		}
	}
	return values
}

// ShapeRecord копия записи для выдачи: производный ISO timestamp
// и числовые поля, приведенные к float или null.
// NaN и Inf в любом поле заменяются на null, иначе ответ не сериализуется.
func ShapeRecord(r models.Record) models.Record {
	out := r.Clone()
	for k, v := range out {
		if isNonFinite(v) {
			out[k] = nil
		}
	}

	if v, ok := out[models.TimestampKey]; !ok || v == nil || v == "" {
		if ts, ok := ResolveTimestamp(r); ok {
			out[models.TimestampKey] = ts.Format(ISOLayout)
		} else {
			out[models.TimestampKey] = nil
		}
	}

	for _, f := range models.TrackedFields {
		if v, ok := out[f.Key]; ok {
			out[f.Key] = FloatOrNil(v)
		}
	}
	for _, k := range models.PositionKeys {
		if v, ok := out[k]; ok {
			out[k] = FloatOrNil(v)
		}
	}
	return out
}

func isNonFinite(v interface{}) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f) || math.IsInf(f, 0)
	case float32:
		return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
	}
	return false
}

// CleanRecords разделяет записи на оставленные и отброшенные.
// Запись отбрасывается, если хотя бы одно из полей keys классифицировано как выброс.
// Пороги считаются по исходному набору целиком, вход не изменяется.
func CleanRecords(records []models.Record, keys []string, method Method, k float64) (kept, dropped []models.Record, err error) {
	classifiers := make(map[string]*Classifier, len(keys))
	for _, key := range keys {
		c, err := Fit(FieldSample(records, key), method, k)
		if err != nil {
			return nil, nil, err
		}
		classifiers[key] = c
	}

	kept = make([]models.Record, 0, len(records))
	for _, r := range records {
		if isOutlierRecord(r, classifiers) {
			dropped = append(dropped, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped, nil
}

func isOutlierRecord(r models.Record, classifiers map[string]*Classifier) bool {
	for key, c := range classifiers {
		if v, ok := ToOptionalFloat(r[key]); ok && c.IsOutlier(v) {
			return true
		}
	}
	return false
}
