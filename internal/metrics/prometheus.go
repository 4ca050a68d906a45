package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration продолжительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// RecordsScanned сколько записей пришло из хранилища на один запрос
	RecordsScanned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "records_scanned",
			Help:    "Number of records fetched from storage per request",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
		[]string{"endpoint"},
	)

	// OutliersFlagged найденные выбросы
	OutliersFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outliers_flagged_total",
			Help: "Total number of records flagged as outliers",
		},
		[]string{"field", "method"},
	)

	// CacheOperations операции с кэшем ответов
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of response cache operations",
		},
		[]string{"operation", "status"},
	)

	// MongoOperations операции с MongoDB
	MongoOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_operations_total",
			Help: "Total number of MongoDB operations",
		},
		[]string{"operation", "status"},
	)

	// IngestRows строки CSV при загрузке: kept, dropped
	IngestRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_total",
			Help: "Total number of CSV rows processed by ingestion",
		},
		[]string{"result"},
	)
)
