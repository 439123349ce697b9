// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/movieinfo/internal/api"
	"github.com/ManuGH/movieinfo/internal/config"
	"github.com/ManuGH/movieinfo/internal/control/middleware"
	"github.com/ManuGH/movieinfo/internal/daemon"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/service"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/store"
	"github.com/ManuGH/movieinfo/internal/health"
	mlog "github.com/ManuGH/movieinfo/internal/log"
	"github.com/ManuGH/movieinfo/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the daemon and returns the process exit code. Resources opened
// here are released by deferred calls before the code is returned.
func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "config":
			return runConfigCLI(args[1:])
		case "healthcheck":
			return runHealthcheckCLI(args[1:])
		}
	}

	fs := flag.NewFlagSet("movieinfo", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	}

	// Safe defaults until the config is loaded.
	mlog.Configure(mlog.Config{
		Level:   "info",
		Service: "movieinfo",
		Version: version,
	})
	logger := mlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	loader := config.NewLoader(path, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(mlog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
		return 1
	}

	mlog.Configure(mlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = mlog.WithComponent("daemon")

	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(mlog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", path).
		Str(mlog.FieldBackend, cfg.Store.Backend).
		Msg("configuration loaded")

	tp, err := telemetry.NewProvider(ctx, telemetryConfig(cfg))
	if err != nil {
		logger.Error().Err(err).Str(mlog.FieldEvent, "telemetry.init_failed").Msg("failed to initialize tracing")
		return 1
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	st, err := store.OpenStore(ctx, storeOptions(cfg))
	if err != nil {
		logger.Error().
			Err(err).
			Str(mlog.FieldEvent, "store.open_failed").
			Str(mlog.FieldBackend, cfg.Store.Backend).
			Str("redis_addr", cfg.Store.Redis.Addr).
			Str("mongo_uri", maskURL(cfg.Store.Mongo.URI)).
			Msg("failed to open store")
		return 1
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Str(mlog.FieldEvent, "store.close_failed").Msg("failed to close store")
		}
	}()

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(cfg.Store.Backend, st, 0))

	serverCfg, err := serverConfig(cfg)
	if err != nil {
		logger.Error().Err(err).Str(mlog.FieldEvent, "server.config_invalid").Msg("invalid server configuration")
		return 1
	}
	srv := api.New(serverCfg, service.New(st), hm)

	app := daemon.NewApp(logger, srv, config.NewHolder(cfg, loader), cfg.Server.ShutdownTimeout)
	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Str(mlog.FieldEvent, "daemon.failed").Msg("daemon exited with error")
		return 1
	}
	return 0
}

func storeOptions(cfg config.AppConfig) store.Options {
	return store.Options{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		Redis: store.RedisConfig{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
		},
		Mongo: store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		},
	}
}

func telemetryConfig(cfg config.AppConfig) telemetry.Config {
	return telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	}
}

func serverConfig(cfg config.AppConfig) (api.Config, error) {
	whitelist, err := middleware.ParseCIDRs(cfg.RateLimit.Whitelist)
	if err != nil {
		return api.Config{}, fmt.Errorf("rateLimit.whitelist: %w", err)
	}

	stack := middleware.StackConfig{
		EnableCORS:            len(cfg.CORS.AllowedOrigins) > 0,
		AllowedOrigins:        cfg.CORS.AllowedOrigins,
		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,
		EnableMetrics:         cfg.Metrics.Enabled,
		EnableLogging:         true,
		EnableRateLimit:       cfg.RateLimit.Enabled,
		RateLimitRequests:     cfg.RateLimit.Requests,
		RateLimitWindow:       cfg.RateLimit.Window,
		RateLimitWhitelist:    whitelist,
	}
	if cfg.Telemetry.Enabled {
		stack.TracingService = cfg.LogService
	}

	return api.Config{
		ListenAddr:    cfg.ListenAddr,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		Stack:         stack,
		EnableMetrics: cfg.Metrics.Enabled,
	}, nil
}
