package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, DefaultIdeology(), cfg.Ideology)
		assert.Empty(t, cfg.Kafka.Brokers)
		assert.Equal(t, 5*time.Minute, cfg.Redis.StatsTTL)
	})

	t.Run("overrides tunables", func(t *testing.T) {
		t.Setenv("EVOLUTION_STEP", "0.1")
		t.Setenv("DISCREPANCY_PARTY_SAMPLING", "sample")
		t.Setenv("DISCREPANCY_PARTY_SAMPLE_SIZE", "7")
		t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,a:9092,")
		t.Setenv("ANALYSIS_FAILURE_THRESHOLD", "3")
		t.Setenv("REDIS_STATS_TTL", "90s")

		cfg := FromEnv()
		assert.Equal(t, 0.1, cfg.Ideology.EvolutionStep)
		assert.Equal(t, PartySamplingSample, cfg.Ideology.PartySampling)
		assert.Equal(t, 7, cfg.Ideology.PartySampleSize)
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 90*time.Second, cfg.Redis.StatsTTL)
		assert.Equal(t, 3, cfg.Analysis.FailureThreshold)
	})

	t.Run("ignores malformed values", func(t *testing.T) {
		t.Setenv("EVOLUTION_STEP", "fast")
		cfg := FromEnv()
		assert.Equal(t, 0.05, cfg.Ideology.EvolutionStep)
	})
}
