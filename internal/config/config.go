package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingMongoURL MONGO_URL обязателен
var ErrMissingMongoURL = errors.New("MONGO_URL is not set")

// Config конфигурация приложения
type Config struct {
	ServerPort string
	LogLevel   string

	MongoURL        string
	MongoDB         string
	MongoCollection string

	// Пустой RedisAddr отключает кэш ответов
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	QueryTimeout time.Duration
	ScanLimit    int

	IQRK    float64
	ZScoreK float64
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "5000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		MongoURL:        getEnv("MONGO_URL", ""),
		MongoDB:         getEnv("MONGO_DB", "water_quality_data"),
		MongoCollection: getEnv("MONGO_COLLECTION", "asv_1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 30)) * time.Second,

		QueryTimeout: time.Duration(getEnvAsInt("QUERY_TIMEOUT_SECONDS", 10)) * time.Second,
		ScanLimit:    getEnvAsInt("SCAN_LIMIT", 50000),

		IQRK:    getEnvAsFloat("OUTLIER_IQR_K", 1.5),
		ZScoreK: getEnvAsFloat("OUTLIER_ZSCORE_K", 3.0),
	}

	if cfg.MongoURL == "" {
		return cfg, ErrMissingMongoURL
	}
	return cfg, nil
}

// getEnv получает environment variable или возвращает default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt получает environment variable как int
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("failed to parse env as int, using default", "key", key, "error", err)
		return defaultValue
	}
	return intValue
}

// getEnvAsFloat получает environment variable как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("failed to parse env as float, using default", "key", key, "error", err)
		return defaultValue
	}
	return floatValue
}
