package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/config"
	"asv-water-quality/internal/ingest"
	"asv-water-quality/internal/logger"
	"asv-water-quality/internal/storage"
)

func main() {
	file := flag.String("file", "", "path to the ASV CSV export")
	fields := flag.String("fields", "", "comma-separated columns checked for outliers (default: tracked fields)")
	method := flag.String("method", "zscore", "outlier method: iqr or zscore")
	k := flag.Float64("k", 0, "method sensitivity (default per method)")
	batch := flag.Int("batch", 1000, "insert batch size")
	dryRun := flag.Bool("dry-run", false, "clean and report without writing to MongoDB")
	flag.Parse()

	cfg, cfgErr := config.Load()
	logger.InitLogger(cfg.LogLevel)

	if *file == "" {
		slog.Error("-file is required")
		os.Exit(2)
	}

	m, err := analytics.ParseMethod(*method)
	if err != nil {
		slog.Error("invalid -method", "error", err)
		os.Exit(2)
	}
	sensitivity := *k
	if sensitivity <= 0 {
		sensitivity = analytics.NewAnalyzer(cfg.IQRK, cfg.ZScoreK).DefaultK(m)
	}

	table, err := ingest.ReadCSVFile(*file)
	if err != nil {
		slog.Error("failed to read csv", "file", *file, "error", err)
		os.Exit(1)
	}
	slog.Info("read csv export", "file", *file, "rows", len(table.Records))

	opts := ingest.Options{
		Fields:    splitFields(*fields),
		Method:    m,
		K:         sensitivity,
		BatchSize: *batch,
		DryRun:    *dryRun,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var store sink
	if !*dryRun {
		if cfgErr != nil {
			slog.Error("invalid configuration", "error", cfgErr)
			os.Exit(1)
		}
		mongoStore, err := storage.NewMongoStore(ctx, cfg.MongoURL, cfg.MongoDB, cfg.MongoCollection)
		if err != nil {
			slog.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		store = mongoStore
	}

	report, loadErr := loadAndClose(ctx, table, opts, store)
	if loadErr != nil {
		slog.Error("ingest failed", "error", loadErr, "inserted", report.Inserted)
		cancel()
		os.Exit(1)
	}

	slog.Info("ingest finished",
		"rows", report.Rows, "kept", report.Kept, "dropped", report.Dropped, "inserted", report.Inserted)
}

// sink хранилище, которое нужно закрыть после загрузки
type sink interface {
	ingest.Inserter
	Close(ctx context.Context) error
}

// loadAndClose загружает таблицу и закрывает store до возврата:
// main завершается через os.Exit, а он не выполняет defer.
func loadAndClose(ctx context.Context, table *ingest.Table, opts ingest.Options, store sink) (ingest.Report, error) {
	var dst ingest.Inserter
	if store != nil {
		dst = store
	}

	report, err := ingest.Load(ctx, table, opts, dst)

	if store != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := store.Close(closeCtx); cerr != nil {
			slog.Warn("failed to close MongoDB", "error", cerr)
		}
	}
	return report, err
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
