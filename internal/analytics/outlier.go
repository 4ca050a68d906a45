package analytics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"asv-water-quality/internal/models"
)

// Ошибки клиентского ввода; отличаются от пустого, но валидного результата
var (
	ErrInvalidField  = errors.New("invalid field")
	ErrInvalidMethod = errors.New("invalid method")
)

// Method метод поиска выбросов
type Method string

const (
	MethodIQR    Method = "iqr"
	MethodZScore Method = "zscore"
)

// Чувствительность по умолчанию
const (
	DefaultIQRK    = 1.5
	DefaultZScoreK = 3.0
)

// ParseMethod разбирает имя метода без учета регистра
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodIQR, MethodZScore:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (expected iqr or zscore)", ErrInvalidMethod, s)
	}
}

// Classifier пороги, подобранные по выборке одного поля
type Classifier struct {
	method Method
	k      float64

	q1, q3, low, high float64
	mean, sd          float64
}

// Fit подбирает пороги метода по выборке.
// Для пустой выборки возвращает nil без ошибки: у nil-классификатора выбросов нет.
func Fit(sample []float64, method Method, k float64) (*Classifier, error) {
	if method != MethodIQR && method != MethodZScore {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if len(sample) == 0 {
		return nil, nil
	}

	c := &Classifier{method: method, k: k}

	switch method {
	case MethodIQR:
		sorted := sortedCopy(sample)
		c.q1, _ = Percentile(sorted, 0.25)
		c.q3, _ = Percentile(sorted, 0.75)
		iqr := c.q3 - c.q1
		c.low = c.q1 - k*iqr
		c.high = c.q3 + k*iqr
	case MethodZScore:
		c.mean, _ = Mean(sample)
		c.sd = PopulationStdDev(sample)
	}

	return c, nil
}

// IsOutlier классифицирует значение
func (c *Classifier) IsOutlier(v float64) bool {
	if c == nil {
		return false
	}

	switch c.method {
	case MethodIQR:
		return v < c.low || v > c.high
	case MethodZScore:
		// Нулевой разброс: выбросов нет по определению
		if c.sd == 0 {
			return false
		}
		return math.Abs(ZScore(v, c.mean, c.sd)) > c.k
	}
	return false
}

// Thresholds описание порогов для ответа API
func (c *Classifier) Thresholds() *models.Thresholds {
	if c == nil {
		return nil
	}

	t := &models.Thresholds{Method: string(c.method), K: c.k}
	switch c.method {
	case MethodIQR:
		t.Q1 = ptr(c.q1)
		t.Q3 = ptr(c.q3)
		t.IQR = ptr(c.q3 - c.q1)
		t.Low = ptr(c.low)
		t.High = ptr(c.high)
	case MethodZScore:
		t.Mean = ptr(c.mean)
		t.StdDev = ptr(c.sd)
	}
	return t
}

// Flag возвращает выбросы из выборки
func (c *Classifier) Flag(sample []float64) []float64 {
	var out []float64
	for _, v := range sample {
		if c.IsOutlier(v) {
			out = append(out, v)
		}
	}
	return out
}
