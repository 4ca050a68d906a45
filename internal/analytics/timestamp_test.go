package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asv-water-quality/internal/models"
)

func TestResolveTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		record models.Record
		want   time.Time
		wantOK bool
	}{
		{
			name:   "export columns",
			record: models.Record{models.DateKey: "10/08/22", models.TimeKey: "14:32:10"},
			want:   time.Date(2022, 10, 8, 14, 32, 10, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "unpadded month and hour",
			record: models.Record{models.DateKey: "7/4/22", models.TimeKey: "9:05:01"},
			want:   time.Date(2022, 7, 4, 9, 5, 1, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "fallback columns",
			record: models.Record{models.DateKeyFallback: " 10/09/22 ", models.TimeKeyFallback: "00:00:00"},
			want:   time.Date(2022, 10, 9, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "impossible date",
			record: models.Record{models.DateKey: "2/30/22", models.TimeKey: "10:00:00"},
		},
		{
			name:   "malformed time",
			record: models.Record{models.DateKey: "10/08/22", models.TimeKey: "25:61"},
		},
		{
			name:   "missing time",
			record: models.Record{models.DateKey: "10/08/22"},
		},
		{
			name:   "null date",
			record: models.Record{models.DateKey: nil, models.TimeKey: "10:00:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTimestamp(tt.record)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	w := ParseWindow("2022-10-08T00:00:00", "")
	assert.True(t, w.Active())
	assert.Equal(t, time.Date(2022, 10, 8, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.End.IsZero())

	w = ParseWindow("", "2022-10-09")
	assert.True(t, w.Start.IsZero())
	assert.Equal(t, time.Date(2022, 10, 9, 0, 0, 0, 0, time.UTC), w.End)

	w = ParseWindow("2022-10-08T10:00:00Z", "2022-10-08T12:00:00+02:00")
	assert.True(t, w.Contains(time.Date(2022, 10, 8, 10, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2022, 10, 8, 10, 0, 1, 0, time.UTC)))

	// Одна битая граница сбрасывает окно целиком
	w = ParseWindow("2022-10-08", "yesterday")
	assert.False(t, w.Active())

	assert.False(t, ParseWindow("", "").Active())
}

func TestTimeWindowContainsIsInclusive(t *testing.T) {
	start := time.Date(2022, 10, 8, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	w := TimeWindow{Start: start, End: end}

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end))
	assert.False(t, w.Contains(start.Add(-time.Second)))
	assert.False(t, w.Contains(end.Add(time.Second)))
}
