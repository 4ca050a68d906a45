package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("SCAN_LIMIT", "")
	t.Setenv("OUTLIER_IQR_K", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "water_quality_data", cfg.MongoDB)
	assert.Equal(t, "asv_1", cfg.MongoCollection)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 50000, cfg.ScanLimit)
	assert.Equal(t, 1.5, cfg.IQRK)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://db:27017")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("OUTLIER_ZSCORE_K", "2.5")
	t.Setenv("SCAN_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.ZScoreK)
	assert.Equal(t, 50000, cfg.ScanLimit)
}

func TestLoadRequiresMongoURL(t *testing.T) {
	t.Setenv("MONGO_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingMongoURL)
}
