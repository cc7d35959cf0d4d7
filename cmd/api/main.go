package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/api/router"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/availability"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/booking"
	appconfig "github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/config"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/conversation"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/faq"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/observability/metrics"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment scheduling agent",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	store := schedule.NewFileStore(cfg.SchedulePath, logger)
	if _, err := store.Read(context.Background()); err != nil {
		logger.Error("failed to read schedule ledger", "path", cfg.SchedulePath, "error", err)
		os.Exit(1)
	}

	// The FAQ catalog is a startup dependency. A missing or empty catalog
	// aborts boot instead of silently answering nothing.
	entries, err := faq.LoadCatalog(cfg.FAQPath)
	if err != nil {
		logger.Error("failed to load FAQ catalog", "path", cfg.FAQPath, "error", err)
		os.Exit(1)
	}
	matcher, err := faq.NewMatcher(entries)
	if err != nil {
		logger.Error("failed to build FAQ matcher", "error", err)
		os.Exit(1)
	}

	engine, err := availability.NewEngine(store, availability.Config{
		OpenTime:  cfg.DayOpen,
		CloseTime: cfg.DayClose,
	}, logger)
	if err != nil {
		logger.Error("failed to build availability engine", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)

	committer := booking.NewService(store, logger, schedulingMetrics)

	var sessions conversation.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		sessions = conversation.NewRedisSessionStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	default:
		sessions = conversation.NewMemorySessionStore(cfg.SessionTTL, cfg.SessionCapacity)
		logger.Info("using in-memory session store",
			"ttl", cfg.SessionTTL,
			"capacity", cfg.SessionCapacity,
		)
	}

	conversationService := conversation.NewService(conversation.Config{
		Sessions:            sessions,
		Engine:              engine,
		Committer:           committer,
		Matcher:             matcher,
		Today:               schedule.ReferenceClock(store),
		MaxOfferedSlots:     cfg.MaxOfferedSlots,
		NextDayAlternatives: cfg.NextDayAlternatives,
		Logger:              logger,
		Metrics:             schedulingMetrics,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(conversationService, logger),
		AvailabilityHandler: availability.NewHandler(engine, logger),
		BookingHandler:      booking.NewHandler(committer, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
