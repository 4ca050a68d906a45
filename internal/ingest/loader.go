package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/metrics"
	"asv-water-quality/internal/models"
)

// ErrNoOutlierColumns в заголовке нет ни одной отслеживаемой колонки, а -fields не задан
var ErrNoOutlierColumns = errors.New("no tracked columns in csv header, pass the outlier columns explicitly")

// Inserter приемник очищенных записей
type Inserter interface {
	InsertMany(ctx context.Context, records []models.Record) (int, error)
}

// Options параметры очистки и загрузки
type Options struct {
	Fields    []string // колонки для поиска выбросов; пусто - отслеживаемые поля из заголовка
	Method    analytics.Method
	K         float64
	BatchSize int
	DryRun    bool
}

// Report итог загрузки
type Report struct {
	Rows     int `json:"rows"`
	Kept     int `json:"kept"`
	Dropped  int `json:"dropped"`
	Inserted int `json:"inserted"`
}

// Load очищает таблицу от выбросов и пачками пишет оставшиеся записи в dst.
// При DryRun dst может быть nil.
func Load(ctx context.Context, table *Table, opts Options, dst Inserter) (Report, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		keys := make([]string, 0, len(models.TrackedFields))
		for _, f := range models.TrackedFields {
			keys = append(keys, f.Key)
		}
		fields = table.Columns(keys)
		if len(fields) == 0 {
			slog.Warn("no tracked columns found in csv header", "header", table.Header, "tracked", keys)
			return Report{Rows: len(table.Records)}, ErrNoOutlierColumns
		}
	}

	kept, dropped, err := analytics.CleanRecords(table.Records, fields, opts.Method, opts.K)
	if err != nil {
		return Report{}, err
	}

	report := Report{Rows: len(table.Records), Kept: len(kept), Dropped: len(dropped)}
	metrics.IngestRows.WithLabelValues("kept").Add(float64(report.Kept))
	metrics.IngestRows.WithLabelValues("dropped").Add(float64(report.Dropped))

	slog.Info("cleaned csv export",
		"rows", report.Rows, "kept", report.Kept, "dropped", report.Dropped,
		"fields", fields, "method", opts.Method, "k", opts.K)

	if opts.DryRun {
		return report, nil
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = 1000
	}
	for start := 0; start < len(kept); start += batch {
		end := start + batch
		if end > len(kept) {
			end = len(kept)
		}

		n, err := dst.InsertMany(ctx, kept[start:end])
		report.Inserted += n
		if err != nil {
			return report, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		slog.Debug("inserted batch", "from", start, "to", end)
	}

	return report, nil
}
