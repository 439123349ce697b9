// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

func openTestSqlite(t *testing.T) *SqliteStore {
	t.Helper()
	s, err := NewSqliteStore(context.Background(), filepath.Join(t.TempDir(), "movieinfo.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) ports.Store {
		return openTestSqlite(t)
	})
}

func TestSqliteStore_SchemaVersion(t *testing.T) {
	s := openTestSqlite(t)

	var version int
	require.NoError(t, s.DB.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)

	// Re-running the migration is a no-op.
	require.NoError(t, s.migrate(context.Background()))
}

func TestSqliteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.sqlite")
	ctx := context.Background()

	s, err := NewSqliteStore(ctx, path)
	require.NoError(t, err)
	created, err := s.Insert(ctx, &model.MovieInfo{Name: "Batman", Year: 2005, Cast: []string{"Christian"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSqliteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.True(t, got.ReleaseDate.IsZero())
}

func TestSqliteStore_PreservesInsertionOrder(t *testing.T) {
	s := openTestSqlite(t)
	ctx := context.Background()

	for _, name := range []string{"z", "m", "a"} {
		_, err := s.Insert(ctx, &model.MovieInfo{Name: name, Year: 2000, Cast: []string{}})
		require.NoError(t, err)
	}
	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"z", "m", "a"}, []string{all[0].Name, all[1].Name, all[2].Name})
}
