package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Titanium/adapters/theoddsapi"
	"github.com/XavierBriggs/Titanium/internal/config"
	"github.com/XavierBriggs/Titanium/internal/instrumentation"
	"github.com/XavierBriggs/Titanium/internal/profiles"
	"github.com/XavierBriggs/Titanium/internal/registry"
	"github.com/XavierBriggs/Titanium/internal/scanner"
	"github.com/XavierBriggs/Titanium/internal/server"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

func main() {
	if err := run(); err != nil {
		slog.Error("titanium_exited", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closes always run
func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.OddsAPIKey == "" {
		return errors.New("ODDS_API_KEY is required")
	}

	logger.Info("titanium_starting",
		"port", cfg.HTTPPort,
		"odds_api_base_url", cfg.OddsAPIBaseURL,
		"profile_ttl", cfg.ProfileTTL,
		"fetch_concurrency", cfg.FetchConcurrency,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := instrumentation.NewMetrics(reg)

	rules := config.LoadRules(cfg.RulesPath, logger)

	ctx := context.Background()

	// Team ratings: Alexandria behind an optional Redis snapshot. Either
	// being absent or down degrades to the built-in fallback table.
	var provider contracts.ProfileProvider

	if cfg.AlexandriaDSN != "" {
		db, err := sql.Open("postgres", cfg.AlexandriaDSN)
		if err != nil {
			return fmt.Errorf("open Alexandria DB: %w", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("alexandria_unreachable", "error", err, "fallback", "static_profiles")
		} else {
			logger.Info("alexandria_connected")
		}
		cancel()

		provider = profiles.NewPostgresProvider(db)
	}

	if cfg.RedisURL != "" && provider != nil {
		client, err := newRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis_unreachable", "error", err)
		} else {
			logger.Info("redis_connected")
		}
		cancel()

		provider = profiles.NewRedisProvider(client, provider, cfg.ProfileTTL, logger)
	}

	nbaProfiles := profiles.NewCache(provider, models.SportNBA,
		profiles.WithTTL(cfg.ProfileTTL),
		profiles.WithLogger(logger),
		profiles.WithRecorder(metrics),
	)

	adapter := theoddsapi.NewClient(cfg.OddsAPIKey, theoddsapi.WithBaseURL(cfg.OddsAPIBaseURL))

	sportRegistry := registry.NewDefault()
	for _, sport := range sportRegistry.GetAll() {
		logger.Info("sport_registered",
			"sport", sport.GetSportKey(),
			"name", sport.GetDisplayName(),
			"featured_markets", sport.GetFeaturedMarkets(),
			"props_markets", sport.GetPropsMarkets(),
		)
	}

	sc := scanner.New(adapter, sportRegistry, rules,
		scanner.WithProfiles(models.SportNBA, nbaProfiles),
		scanner.WithConcurrency(cfg.FetchConcurrency),
		scanner.WithDefaultCap(cfg.DefaultCap),
		scanner.WithLogger(logger),
		scanner.WithMetrics(metrics),
	)

	api := server.New(sc, reg,
		server.WithLogger(logger),
		server.WithCORSOrigins(cfg.CORSOrigins),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http_server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		logger.Info("shutdown_signal_received", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server_shutdown_error", "error", err)
		}
	}

	logger.Info("titanium_stopped")
	return nil
}

func newRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	return redis.NewClient(opts), nil
}
