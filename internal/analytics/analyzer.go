package analytics

import (
	"fmt"

	"asv-water-quality/internal/models"
)

// Analyzer движок выдачи, статистики и выбросов поверх уже выбранных записей.
// Состояния между вызовами нет; безопасен для конкурентного использования.
type Analyzer struct {
	iqrK    float64
	zscoreK float64
}

// NewAnalyzer создает анализатор с чувствительностью методов по умолчанию
func NewAnalyzer(iqrK, zscoreK float64) *Analyzer {
	return &Analyzer{
		iqrK:    iqrK,
		zscoreK: zscoreK,
	}
}

// DefaultK чувствительность метода, если клиент ее не передал
func (a *Analyzer) DefaultK(m Method) float64 {
	if m == MethodZScore {
		return a.zscoreK
	}
	return a.iqrK
}

// Observations фильтрует по времени, режет страницу и готовит записи к выдаче
func (a *Analyzer) Observations(records []models.Record, w TimeWindow, page Page) models.ObservationsResult {
	page = ClampPage(page.Limit, page.Skip)
	records = FilterByTime(records, w)

	if page.Skip >= len(records) {
		records = nil
	} else {
		records = records[page.Skip:]
	}
	if len(records) > page.Limit {
		records = records[:page.Limit]
	}

	items := make([]models.Record, 0, len(records))
	for _, r := range records {
		items = append(items, ShapeRecord(r))
	}

	return models.ObservationsResult{
		Count: len(items),
		Items: items,
	}
}

// Stats сводная статистика по каждому отслеживаемому полю
func (a *Analyzer) Stats(records []models.Record, w TimeWindow) map[string]models.Summary {
	records = FilterByTime(records, w)

	out := make(map[string]models.Summary, len(models.TrackedFields))
	for _, f := range models.TrackedFields {
		out[f.Key] = Summarize(FieldSample(records, f.Key))
	}
	return out
}

// Outliers ищет выбросы по одному полю.
// Поле и метод проверяются до любых вычислений; k == nil означает значение по умолчанию.
func (a *Analyzer) Outliers(records []models.Record, w TimeWindow, alias, method string, k *float64) (models.OutliersResult, error) {
	field, m, err := ValidateOutlierQuery(alias, method)
	if err != nil {
		return models.OutliersResult{}, err
	}

	sensitivity := a.DefaultK(m)
	if k != nil {
		sensitivity = *k
	}

	records = FilterByTime(records, w)
	classifier, err := Fit(FieldSample(records, field.Key), m, sensitivity)
	if err != nil {
		return models.OutliersResult{}, err
	}

	items := make([]models.Record, 0)
	for _, r := range records {
		v, ok := ToOptionalFloat(r[field.Key])
		if ok && classifier.IsOutlier(v) {
			items = append(items, ShapeRecord(r))
		}
	}

	return models.OutliersResult{
		Count:      len(items),
		Field:      field.Key,
		Method:     string(m),
		Items:      items,
		Thresholds: classifier.Thresholds(),
	}, nil
}

// ValidateOutlierQuery проверяет алиас поля и метод запроса выбросов
func ValidateOutlierQuery(alias, method string) (models.Field, Method, error) {
	field, ok := models.LookupField(alias)
	if !ok {
		return models.Field{}, "", fmt.Errorf("%w: %q (expected temp, sal or odo)", ErrInvalidField, alias)
	}
	m, err := ParseMethod(method)
	if err != nil {
		return models.Field{}, "", err
	}
	return field, m, nil
}
