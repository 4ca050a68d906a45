package analytics

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ToOptionalFloat приводит произвольное значение к float64.
// Второй результат false для nil, NaN, Inf и всего, что не парсится как число.
func ToOptionalFloat(x interface{}) (float64, bool) {
	switch v := x.(type) {
	case nil:
		return 0, false
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false
		}
		x = v
	case *float64:
		if v == nil {
			return 0, false
		}
		x = *v
	}

	f, err := cast.ToFloat64E(x)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOrNil то же, что ToOptionalFloat, но для JSON: float64 либо nil
func FloatOrNil(x interface{}) interface{} {
	if f, ok := ToOptionalFloat(x); ok {
		return f
	}
	return nil
}
