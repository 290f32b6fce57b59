package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pulsecare/patient-platform/internal/api/router"
	"github.com/pulsecare/patient-platform/internal/backend"
	appconfig "github.com/pulsecare/patient-platform/internal/config"
	"github.com/pulsecare/patient-platform/internal/events"
	"github.com/pulsecare/patient-platform/internal/http/handlers"
	"github.com/pulsecare/patient-platform/internal/medication"
	"github.com/pulsecare/patient-platform/internal/medtracker"
	"github.com/pulsecare/patient-platform/internal/observability/metrics"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting patient-platform portal server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid TIMEZONE", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	backendMetrics := metrics.NewBackendMetrics(registry)
	careMetrics := metrics.NewCareMetrics(registry)

	// Redis-backed dose taken state
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	tracker := medtracker.NewTracker(medtracker.NewRedisStorage(redisClient, nil), location, logger)

	// Monitoring backend client
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger).WithMetrics(backendMetrics)

	// Event bus, durable outbox and websocket push
	bus := events.NewBus(logger).WithMetrics(careMetrics)
	hub := events.NewHub(logger)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(rootCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		outbox := events.NewOutboxStore(pool)
		events.NewRecorder(outbox, logger).Attach(bus)

		deliverer := events.NewDeliverer(outbox, hub, logger).WithInterval(cfg.OutboxPollInterval)
		go deliverer.Start(rootCtx)
	} else {
		logger.Warn("DATABASE_URL not set, events will not be delivered to dashboards")
	}

	// Services
	medSvc := medication.NewService(client, tracker, client, bus, logger).WithMetrics(careMetrics)

	// Router
	r := router.New(&router.Config{
		Logger:              logger,
		MedicationHandler:   handlers.NewMedicationHandler(medSvc, logger),
		AlertsHandler:       handlers.NewAlertsHandler(client, bus, cfg.FilterSwitchDelay, logger),
		AppointmentsHandler: handlers.NewAppointmentsHandler(client, cfg.ReconcileDelay, logger),
		PushHandler:         handlers.NewPushHandler(hub),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthSecret:          cfg.AuthJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimit:           cfg.RateLimitPerSec,
		RateLimitBurst:      cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
