// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvListen          = "MOVIEINFO_LISTEN"
	EnvLogLevel        = "MOVIEINFO_LOG_LEVEL"
	EnvLogService      = "MOVIEINFO_LOG_SERVICE"
	EnvStoreBackend    = "MOVIEINFO_STORE_BACKEND"
	EnvStorePath       = "MOVIEINFO_STORE_PATH"
	EnvRedisAddr       = "MOVIEINFO_REDIS_ADDR"
	EnvRedisPassword   = "MOVIEINFO_REDIS_PASSWORD"
	EnvRedisDB         = "MOVIEINFO_REDIS_DB"
	EnvRedisKeyPrefix  = "MOVIEINFO_REDIS_KEY_PREFIX"
	EnvMongoURI        = "MOVIEINFO_MONGO_URI"
	EnvMongoDatabase   = "MOVIEINFO_MONGO_DATABASE"
	EnvMongoCollection = "MOVIEINFO_MONGO_COLLECTION"
	EnvReadTimeout     = "MOVIEINFO_READ_TIMEOUT"
	EnvWriteTimeout    = "MOVIEINFO_WRITE_TIMEOUT"
	EnvIdleTimeout     = "MOVIEINFO_IDLE_TIMEOUT"
	EnvShutdownTimeout = "MOVIEINFO_SHUTDOWN_TIMEOUT"
	EnvRateLimit       = "MOVIEINFO_RATELIMIT_ENABLED"
	EnvRateRequests    = "MOVIEINFO_RATELIMIT_REQUESTS"
	EnvRateWindow      = "MOVIEINFO_RATELIMIT_WINDOW"
	EnvRateWhitelist   = "MOVIEINFO_RATELIMIT_WHITELIST"
	EnvAllowedOrigins  = "MOVIEINFO_ALLOWED_ORIGINS"
	EnvOTelEnabled     = "MOVIEINFO_OTEL_ENABLED"
	EnvOTelExporter    = "MOVIEINFO_OTEL_EXPORTER"
	EnvOTelEndpoint    = "MOVIEINFO_OTEL_ENDPOINT"
	EnvOTelSampling    = "MOVIEINFO_OTEL_SAMPLING_RATE"
	EnvOTelEnvironment = "MOVIEINFO_OTEL_ENVIRONMENT"
	EnvMetricsEnabled  = "MOVIEINFO_METRICS_ENABLED"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. An empty configPath loads
// defaults and environment only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Path returns the config file path, possibly empty.
func (l *Loader) Path() string { return l.configPath }

// Load loads configuration with precedence ENV > file > defaults and validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr: ":8080",
		LogLevel:   "info",
		LogService: "movieinfo",
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: "movieinfo"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "movieinfo", Collection: "movie_infos"},
		},
		Server: ServerConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 600,
			Window:   time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// loadFile parses path strictly: unknown fields and trailing documents are errors.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- the config path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func parseFileDuration(field, value string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	setString(&cfg.ListenAddr, f.ListenAddr)
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogService, f.LogService)

	if s := f.Store; s != nil {
		setString(&cfg.Store.Backend, s.Backend)
		setString(&cfg.Store.Path, s.Path)
		if r := s.Redis; r != nil {
			setString(&cfg.Store.Redis.Addr, r.Addr)
			setString(&cfg.Store.Redis.Password, r.Password)
			setString(&cfg.Store.Redis.KeyPrefix, r.KeyPrefix)
			if r.DB != nil {
				cfg.Store.Redis.DB = *r.DB
			}
		}
		if m := s.Mongo; m != nil {
			setString(&cfg.Store.Mongo.URI, m.URI)
			setString(&cfg.Store.Mongo.Database, m.Database)
			setString(&cfg.Store.Mongo.Collection, m.Collection)
		}
	}

	if s := f.Server; s != nil {
		for _, d := range []struct {
			field string
			value string
			dst   *time.Duration
		}{
			{"server.readTimeout", s.ReadTimeout, &cfg.Server.ReadTimeout},
			{"server.writeTimeout", s.WriteTimeout, &cfg.Server.WriteTimeout},
			{"server.idleTimeout", s.IdleTimeout, &cfg.Server.IdleTimeout},
			{"server.shutdownTimeout", s.ShutdownTimeout, &cfg.Server.ShutdownTimeout},
		} {
			if err := parseFileDuration(d.field, d.value, d.dst); err != nil {
				return err
			}
		}
	}

	if rl := f.RateLimit; rl != nil {
		if rl.Enabled != nil {
			cfg.RateLimit.Enabled = *rl.Enabled
		}
		if rl.Requests != nil {
			cfg.RateLimit.Requests = *rl.Requests
		}
		if err := parseFileDuration("rateLimit.window", rl.Window, &cfg.RateLimit.Window); err != nil {
			return err
		}
		if rl.Whitelist != nil {
			cfg.RateLimit.Whitelist = rl.Whitelist
		}
	}

	if c := f.CORS; c != nil && c.AllowedOrigins != nil {
		cfg.CORS.AllowedOrigins = c.AllowedOrigins
	}

	if t := f.Telemetry; t != nil {
		if t.Enabled != nil {
			cfg.Telemetry.Enabled = *t.Enabled
		}
		setString(&cfg.Telemetry.Exporter, t.Exporter)
		setString(&cfg.Telemetry.Endpoint, t.Endpoint)
		setString(&cfg.Telemetry.Environment, t.Environment)
		if t.SamplingRate != nil {
			cfg.Telemetry.SamplingRate = *t.SamplingRate
		}
	}

	if m := f.Metrics; m != nil && m.Enabled != nil {
		cfg.Metrics.Enabled = *m.Enabled
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeEnvConfig(cfg *AppConfig) {
	cfg.ListenAddr = ParseString(EnvListen, cfg.ListenAddr)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = ParseString(EnvLogService, cfg.LogService)

	cfg.Store.Backend = ParseString(EnvStoreBackend, cfg.Store.Backend)
	cfg.Store.Path = ParseString(EnvStorePath, cfg.Store.Path)
	cfg.Store.Redis.Addr = ParseString(EnvRedisAddr, cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = ParseString(EnvRedisPassword, cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = ParseInt(EnvRedisDB, cfg.Store.Redis.DB)
	cfg.Store.Redis.KeyPrefix = ParseString(EnvRedisKeyPrefix, cfg.Store.Redis.KeyPrefix)
	cfg.Store.Mongo.URI = ParseString(EnvMongoURI, cfg.Store.Mongo.URI)
	cfg.Store.Mongo.Database = ParseString(EnvMongoDatabase, cfg.Store.Mongo.Database)
	cfg.Store.Mongo.Collection = ParseString(EnvMongoCollection, cfg.Store.Mongo.Collection)

	cfg.Server.ReadTimeout = ParseDuration(EnvReadTimeout, cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = ParseDuration(EnvWriteTimeout, cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = ParseDuration(EnvIdleTimeout, cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = ParseDuration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)

	cfg.RateLimit.Enabled = ParseBool(EnvRateLimit, cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = ParseInt(EnvRateRequests, cfg.RateLimit.Requests)
	cfg.RateLimit.Window = ParseDuration(EnvRateWindow, cfg.RateLimit.Window)
	cfg.RateLimit.Whitelist = ParseStringList(EnvRateWhitelist, cfg.RateLimit.Whitelist)

	cfg.CORS.AllowedOrigins = ParseStringList(EnvAllowedOrigins, cfg.CORS.AllowedOrigins)

	cfg.Telemetry.Enabled = ParseBool(EnvOTelEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvOTelExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvOTelEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvOTelSampling, cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = ParseString(EnvOTelEnvironment, cfg.Telemetry.Environment)

	cfg.Metrics.Enabled = ParseBool(EnvMetricsEnabled, cfg.Metrics.Enabled)
}
