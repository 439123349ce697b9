// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		opts Options
		want any
	}{
		{name: "default is memory", opts: Options{}, want: &MemoryStore{}},
		{name: "memory", opts: Options{Backend: BackendMemory}, want: &MemoryStore{}},
		{name: "sqlite", opts: Options{Backend: BackendSqlite, Path: filepath.Join(dir, "db.sqlite")}, want: &SqliteStore{}},
		{name: "badger", opts: Options{Backend: BackendBadger, Path: filepath.Join(dir, "badger")}, want: &BadgerStore{}},
		{name: "redis", opts: Options{Backend: BackendRedis, Redis: RedisConfig{Addr: mr.Addr()}}, want: &RedisStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenStore(context.Background(), tt.opts)
			require.NoError(t, err)
			defer s.Close()

			inst, ok := s.(*InstrumentedStore)
			require.True(t, ok, "factory must return an instrumented store")
			assert.IsType(t, tt.want, inst.Unwrap())
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), Options{Backend: "cassandra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend: cassandra")
}
