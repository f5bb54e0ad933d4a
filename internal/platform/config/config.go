package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Analysis AnalysisConfig
	Ideology IdeologyConfig
	LogLevel string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig points at the relational store. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration
}

// RedisConfig configures the group-stats cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StatsTTL     time.Duration
}

// KafkaConfig configures alert event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	AlertTopic string
	Partitions int32
}

// AnalysisConfig points at the external text-analysis collaborator.
type AnalysisConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// PartySampling selects how a party-level pivot score picks members.
type PartySampling string

const (
	PartySamplingFull   PartySampling = "full"
	PartySamplingSample PartySampling = "sample"
)

// IdeologyConfig holds the tunable constants of the vector algorithms.
// None of them are load-bearing; the defaults reproduce the reference behaviour.
type IdeologyConfig struct {
	DescribeThreshold float64

	EvolutionStep float64

	AlertRelevanceThreshold float64
	AlertGapThreshold       float64
	SeverityMediumFrom      float64
	SeverityHighFrom        float64
	PartySampling           PartySampling
	PartySampleSize         int

	ForecastImpactThreshold  float64
	ForecastDividedThreshold float64
}

// DefaultIdeology returns the reference tunables.
func DefaultIdeology() IdeologyConfig {
	return IdeologyConfig{
		DescribeThreshold:        0.15,
		EvolutionStep:            0.05,
		AlertRelevanceThreshold:  0.3,
		AlertGapThreshold:        1.0,
		SeverityMediumFrom:       1.5,
		SeverityHighFrom:         1.8,
		PartySampling:            PartySamplingFull,
		PartySampleSize:          5,
		ForecastImpactThreshold:  0.2,
		ForecastDividedThreshold: 25,
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	ideology := DefaultIdeology()
	ideology.DescribeThreshold = envFloat("IDEOLOGY_DESCRIBE_THRESHOLD", ideology.DescribeThreshold)
	ideology.EvolutionStep = envFloat("EVOLUTION_STEP", ideology.EvolutionStep)
	ideology.AlertRelevanceThreshold = envFloat("DISCREPANCY_RELEVANCE_THRESHOLD", ideology.AlertRelevanceThreshold)
	ideology.AlertGapThreshold = envFloat("DISCREPANCY_GAP_THRESHOLD", ideology.AlertGapThreshold)
	ideology.SeverityMediumFrom = envFloat("DISCREPANCY_SEVERITY_MEDIUM", ideology.SeverityMediumFrom)
	ideology.SeverityHighFrom = envFloat("DISCREPANCY_SEVERITY_HIGH", ideology.SeverityHighFrom)
	if os.Getenv("DISCREPANCY_PARTY_SAMPLING") == string(PartySamplingSample) {
		ideology.PartySampling = PartySamplingSample
	}
	ideology.PartySampleSize = envInt("DISCREPANCY_PARTY_SAMPLE_SIZE", ideology.PartySampleSize)
	ideology.ForecastImpactThreshold = envFloat("FORECAST_IMPACT_THRESHOLD", ideology.ForecastImpactThreshold)
	ideology.ForecastDividedThreshold = envFloat("FORECAST_DIVIDED_THRESHOLD", ideology.ForecastDividedThreshold)

	return Config{
		Server: Server{
			Addr:            envString("POLIS_ADDR", ":8080"),
			ShutdownTimeout: envDuration("POLIS_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			TxTimeout:       envDuration("DATABASE_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			StatsTTL:     envDuration("REDIS_STATS_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    envList("KAFKA_BROKERS"),
			AlertTopic: envString("KAFKA_ALERT_TOPIC", "polis.discrepancy-alerts"),
			Partitions: int32(envInt("KAFKA_ALERT_PARTITIONS", 3)),
		},
		Analysis: AnalysisConfig{
			URL:              os.Getenv("ANALYSIS_URL"),
			Timeout:          envDuration("ANALYSIS_TIMEOUT", 20*time.Second),
			FailureThreshold: envInt("ANALYSIS_FAILURE_THRESHOLD", 5),
			Cooldown:         envDuration("ANALYSIS_COOLDOWN", 30*time.Second),
		},
		Ideology: ideology,
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
