package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"polis/internal/aggregation"
	"polis/internal/analysis"
	"polis/internal/compatibility"
	"polis/internal/discrepancy"
	discrepancymetrics "polis/internal/discrepancy/metrics"
	"polis/internal/evolution"
	evolutionmetrics "polis/internal/evolution/metrics"
	"polis/internal/forecast"
	"polis/internal/platform/config"
	"polis/internal/platform/httpserver"
	"polis/internal/platform/kafka"
	"polis/internal/platform/logger"
	"polis/internal/platform/metrics"
	platformredis "polis/internal/platform/redis"
	"polis/internal/storage"
	httptransport "polis/internal/transport/http"
	"polis/pkg/platform/circuit"
)

const requestTimeout = 30 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	registry := prometheus.DefaultRegisterer
	platformMetrics := metrics.New(registry)
	health := map[string]httptransport.HealthCheck{}

	store, closeStore, err := openStore(ctx, cfg.Database, log, health)
	if err != nil {
		return err
	}
	defer closeStore()

	aggregationOpts := []aggregation.Option{
		aggregation.WithLogger(log),
		aggregation.WithMetrics(platformMetrics),
	}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		aggregationOpts = append(aggregationOpts, aggregation.WithCache(aggregation.NewRedisCache(redisClient.Client, cfg.Redis.StatsTTL)))
		health["redis"] = func(r *http.Request) error { return redisClient.Health(r.Context()) }
		log.Info("group stats cache enabled", "ttl", cfg.Redis.StatsTTL)
	}

	ideologyCfg := cfg.Ideology
	discrepancyOpts := []discrepancy.Option{
		discrepancy.WithLogger(log),
		discrepancy.WithMetrics(discrepancymetrics.New(registry)),
		discrepancy.WithPlatformMetrics(platformMetrics),
		discrepancy.WithThresholds(discrepancy.Thresholds{
			Relevance:  ideologyCfg.AlertRelevanceThreshold,
			Gap:        ideologyCfg.AlertGapThreshold,
			MediumFrom: ideologyCfg.SeverityMediumFrom,
			HighFrom:   ideologyCfg.SeverityHighFrom,
		}),
		discrepancy.WithSampling(discrepancy.Sampling{Mode: ideologyCfg.PartySampling, Size: ideologyCfg.PartySampleSize}),
	}
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close(context.Background())
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
			return err
		}
		discrepancyOpts = append(discrepancyOpts, discrepancy.WithPublisher(producer))
		health["kafka"] = func(r *http.Request) error { return producer.Health(r.Context()) }
		log.Info("alert events enabled", "topic", cfg.Kafka.AlertTopic)
	}

	var analyzer analysis.Analyzer
	if cfg.Analysis.URL != "" {
		breaker := circuit.New("analysis",
			circuit.WithFailureThreshold(cfg.Analysis.FailureThreshold),
			circuit.WithCooldown(cfg.Analysis.Cooldown),
		)
		analyzer = analysis.NewHTTPClient(cfg.Analysis.URL, cfg.Analysis.Timeout, analysis.WithBreaker(breaker))
	} else {
		log.Warn("ANALYSIS_URL not set; items must be submitted with an explicit category")
	}

	detector := discrepancy.New(store, discrepancyOpts...)
	services := httptransport.Services{
		Matcher: compatibility.NewService(store,
			compatibility.WithLogger(log),
			compatibility.WithMetrics(platformMetrics),
		),
		Tracker: evolution.New(store,
			evolution.WithLogger(log),
			evolution.WithMetrics(evolutionmetrics.New(registry)),
			evolution.WithPlatformMetrics(platformMetrics),
			evolution.WithStep(ideologyCfg.EvolutionStep),
			evolution.WithDescribeThreshold(ideologyCfg.DescribeThreshold),
			evolution.WithDecisionChecker(detector),
		),
		Detector:   detector,
		Aggregator: aggregation.New(store, aggregationOpts...),
		Forecaster: forecast.New(store,
			forecast.WithLogger(log),
			forecast.WithMetrics(platformMetrics),
			forecast.WithThresholds(forecast.Thresholds{
				Impact:  ideologyCfg.ForecastImpactThreshold,
				Divided: ideologyCfg.ForecastDividedThreshold,
			}),
		),
		Ingestor: analysis.NewIngestor(analyzer, store,
			analysis.WithLogger(log),
			analysis.WithMetrics(platformMetrics),
		),
	}

	handler := httptransport.NewHandler(services, log, platformMetrics)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:         log,
		Metrics:        platformMetrics,
		Gatherer:       prometheus.DefaultGatherer,
		RequestTimeout: requestTimeout,
		Health:         health,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting polis", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore selects Postgres when a URL is configured and the in-memory store
// otherwise.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, health map[string]httptransport.HealthCheck) (storage.Store, func(), error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set; using in-memory store")
		return storage.NewInMemory(), func() {}, nil
	}
	db, err := storage.Open(ctx, cfg.URL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	health["postgres"] = func(r *http.Request) error { return db.PingContext(r.Context()) }
	return storage.NewPostgres(db, cfg.TxTimeout), func() { _ = db.Close() }, nil
}
