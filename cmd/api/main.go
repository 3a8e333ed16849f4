// Package main is the entrypoint for the snaplink API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/snaplink/snaplink/internal/analytics"
	"github.com/snaplink/snaplink/internal/clock"
	"github.com/snaplink/snaplink/internal/config"
	"github.com/snaplink/snaplink/internal/handler"
	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/internal/repository"
	"github.com/snaplink/snaplink/internal/server"
	"github.com/snaplink/snaplink/internal/service"
	"github.com/snaplink/snaplink/internal/shortcode"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	recorder := metrics.NewInMemory()
	store := repository.NewMemory()

	// Optional click stream. The interfaces stay nil when it is off so
	// nothing downstream sees a typed nil.
	var (
		sink      service.ClickSink
		readiness handler.HealthChecker
		publisher *analytics.Publisher
	)
	if cfg.ClickStreamEnabled() {
		client, err := analytics.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		publisher = analytics.NewPublisher(client, cfg.ClickStreamKey, logger, recorder)
		sink = publisher
		readiness = publisher
		logger.Info("click stream enabled",
			"redis_url", redactURL(cfg.RedisURL),
			"stream", cfg.ClickStreamKey,
		)
	}

	registry := service.NewRegistry(service.RegistryConfig{
		Store:                  store,
		Generator:              shortcode.NewGenerator(),
		Clock:                  clock.Real{},
		Metrics:                recorder,
		DefaultValidityMinutes: cfg.DefaultValidityMinutes,
	})
	redirector := service.NewRedirector(registry, service.RedirectorConfig{
		TrackClickDetails: cfg.ClickDetailsEnabled,
		Sink:              sink,
		Metrics:           recorder,
	})
	stats := service.NewStatsReporter(registry, cfg.ClickDetailsEnabled)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := handler.NewRouter(handler.RouterConfig{
		Links:              handler.NewLinkHandler(registry, stats, cfg.BaseURL, logger),
		Redirects:          handler.NewRedirectHandler(redirector, logger),
		Health:             handler.NewHealthHandler(readiness),
		Metrics:            handler.NewMetricsHandler(recorder, store),
		Logger:             logger,
		Security:           middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		CORS:               cors,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	if publisher != nil {
		srv.OnShutdown("click-publisher", publisher.Close)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"default_validity_minutes", cfg.DefaultValidityMinutes,
		"click_details", cfg.ClickDetailsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
