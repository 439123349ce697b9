// SPDX-License-Identifier: MIT

package config

import (
	"github.com/ManuGH/movieinfo/internal/validate"
)

// Validate checks a resolved AppConfig and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.ListenAddr("listenAddr", cfg.ListenAddr)
	v.LogLevel("logLevel", cfg.LogLevel)

	v.OneOf("store.backend", cfg.Store.Backend, Backends)
	switch cfg.Store.Backend {
	case BackendSqlite, BackendBadger:
		v.NotEmpty("store.path", cfg.Store.Path)
	case BackendRedis:
		v.HostPort("store.redis.addr", cfg.Store.Redis.Addr)
		v.Range("store.redis.db", cfg.Store.Redis.DB, 0, 15)
	case BackendMongo:
		v.URL("store.mongo.uri", cfg.Store.Mongo.URI, []string{"mongodb", "mongodb+srv"})
		v.NotEmpty("store.mongo.database", cfg.Store.Mongo.Database)
		v.NotEmpty("store.mongo.collection", cfg.Store.Mongo.Collection)
	}

	v.PositiveDuration("server.readTimeout", cfg.Server.ReadTimeout)
	v.PositiveDuration("server.writeTimeout", cfg.Server.WriteTimeout)
	v.PositiveDuration("server.idleTimeout", cfg.Server.IdleTimeout)
	v.PositiveDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout)

	if cfg.RateLimit.Enabled {
		v.Positive("rateLimit.requests", cfg.RateLimit.Requests)
		v.PositiveDuration("rateLimit.window", cfg.RateLimit.Window)
	}
	v.CIDRs("rateLimit.whitelist", cfg.RateLimit.Whitelist)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
