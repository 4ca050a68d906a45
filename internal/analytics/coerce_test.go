package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToOptionalFloat(t *testing.T) {
	seven := 7.0

	tests := []struct {
		name   string
		in     interface{}
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"garbage", "n/a", 0, false},
		{"nan string", "NaN", 0, false},
		{"nan float", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"nil pointer", (*float64)(nil), 0, false},
		{"float", 24.81, 24.81, true},
		{"padded string", " 35.2 ", 35.2, true},
		{"int32", int32(3), 3, true},
		{"int64", int64(-4), -4, true},
		{"json number", json.Number("1.5"), 1.5, true},
		{"pointer", &seven, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToOptionalFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestFloatOrNil(t *testing.T) {
	assert.Nil(t, FloatOrNil("bad"))
	assert.Equal(t, 2.5, FloatOrNil("2.5"))
}
