package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("EVENTS_BACKEND", "")
	t.Setenv("FEE_TIE_BREAK", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "none", cfg.Events.Backend)
	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "last_created_wins", cfg.TieBreak)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestGetIntEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 3, GetIntEnv("REDIS_DB", 3))
}
