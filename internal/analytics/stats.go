package analytics

import (
	"math"
	"sort"

	"asv-water-quality/internal/models"
)

// Mean вычисляет среднее значение; false для пустой выборки
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// PopulationStdDev вычисляет стандартное отклонение генеральной совокупности.
// Для пустой выборки и одного значения возвращает 0.
func PopulationStdDev(values []float64) float64 {
	return stdDev(values, len(values))
}

// SampleStdDev выборочное стандартное отклонение (делитель n-1); 0 при n <= 1
func SampleStdDev(values []float64) float64 {
	return stdDev(values, len(values)-1)
}

func stdDev(values []float64, denom int) float64 {
	if len(values) < 2 || denom <= 0 {
		return 0
	}

	mean, _ := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(denom)

	return math.Sqrt(variance)
}

// ZScore отклонение от среднего в единицах sd; 0 при sd == 0
func ZScore(value, mean, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return (value - mean) / sd
}

// Percentile перцентиль по методу ближайшего ранга на отсортированной выборке:
// индекс max(1, ceil(p*n)) - 1, без интерполяции.
func Percentile(sorted []float64, p float64) (float64, bool) {
	n := len(sorted)
	if n == 0 {
		return 0, false
	}

	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1], true
}

// sortedCopy возвращает отсортированную копию, не трогая вход
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Summarize строит сводку по выборке поля
func Summarize(values []float64) models.Summary {
	s := models.Summary{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := sortedCopy(values)
	mean, _ := Mean(sorted)
	p25, _ := Percentile(sorted, 0.25)
	p50, _ := Percentile(sorted, 0.50)
	p75, _ := Percentile(sorted, 0.75)

	s.Mean = ptr(mean)
	s.Min = ptr(sorted[0])
	s.Max = ptr(sorted[len(sorted)-1])
	s.P25 = ptr(p25)
	s.P50 = ptr(p50)
	s.P75 = ptr(p75)
	if len(sorted) > 1 {
		s.Std = ptr(SampleStdDev(sorted))
	}
	return s
}

func ptr(f float64) *float64 {
	return &f
}
