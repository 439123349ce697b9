// SPDX-License-Identifier: MIT

package config

import "time"

// Store backends.
const (
	BackendMemory = "memory"
	BackendSqlite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported store backend.
var Backends = []string{BackendMemory, BackendSqlite, BackendBadger, BackendRedis, BackendMongo}

// AppConfig is the resolved runtime configuration.
type AppConfig struct {
	Version    string
	ListenAddr string
	LogLevel   string
	LogService string

	Store     StoreConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig
}

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	Backend string
	// Path is the sqlite file, the badger directory or the memory snapshot file.
	Path  string
	Redis RedisConfig
	Mongo MongoConfig
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// ServerConfig holds the HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RateLimitConfig allows Requests per Window for each client IP.
type RateLimitConfig struct {
	Enabled   bool
	Requests  int
	Window    time.Duration
	Whitelist []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string // grpc or http
	Endpoint     string
	SamplingRate float64
	Environment  string
}

type MetricsConfig struct {
	Enabled bool
}

// FileConfig is the YAML shape. Pointer and empty values mean "not set".
type FileConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
	LogLevel   string `yaml:"logLevel,omitempty"`
	LogService string `yaml:"logService,omitempty"`

	Store     *FileStore     `yaml:"store,omitempty"`
	Server    *FileServer    `yaml:"server,omitempty"`
	RateLimit *FileRateLimit `yaml:"rateLimit,omitempty"`
	CORS      *FileCORS      `yaml:"cors,omitempty"`
	Telemetry *FileTelemetry `yaml:"telemetry,omitempty"`
	Metrics   *FileMetrics   `yaml:"metrics,omitempty"`
}

type FileStore struct {
	Backend string     `yaml:"backend,omitempty"`
	Path    string     `yaml:"path,omitempty"`
	Redis   *FileRedis `yaml:"redis,omitempty"`
	Mongo   *FileMongo `yaml:"mongo,omitempty"`
}

type FileRedis struct {
	Addr      string `yaml:"addr,omitempty"`
	Password  string `yaml:"password,omitempty"`
	DB        *int   `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

type FileMongo struct {
	URI        string `yaml:"uri,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

type FileServer struct {
	ReadTimeout     string `yaml:"readTimeout,omitempty"`
	WriteTimeout    string `yaml:"writeTimeout,omitempty"`
	IdleTimeout     string `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

type FileRateLimit struct {
	Enabled   *bool    `yaml:"enabled,omitempty"`
	Requests  *int     `yaml:"requests,omitempty"`
	Window    string   `yaml:"window,omitempty"`
	Whitelist []string `yaml:"whitelist,omitempty"`
}

type FileCORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

type FileTelemetry struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
	Environment  string   `yaml:"environment,omitempty"`
}

type FileMetrics struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}
