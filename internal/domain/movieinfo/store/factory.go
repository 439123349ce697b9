// SPDX-License-Identifier: MIT

// Package store provides the storage backends of the movie info domain.
package store

import (
	"context"
	"fmt"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSqlite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the sqlite file, the badger directory or the memory snapshot file.
	Path  string
	Redis RedisConfig
	Mongo MongoConfig
}

// OpenStore creates an instrumented Store based on the backend configuration.
func OpenStore(ctx context.Context, opts Options) (ports.Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendMemory
	}

	var (
		s   ports.Store
		err error
	)
	switch backend {
	case BackendMemory:
		s, err = OpenMemoryStore(opts.Path)
	case BackendSqlite:
		s, err = NewSqliteStore(ctx, opts.Path)
	case BackendBadger:
		s, err = OpenBadgerStore(opts.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}
