// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

func batman(name string, year int, date string, cast ...string) *model.MovieInfo {
	return &model.MovieInfo{
		Name:        name,
		Year:        year,
		Cast:        cast,
		ReleaseDate: model.MustParseDate(date),
	}
}

func namesOf(recs []*model.MovieInfo) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, open func(t *testing.T) ports.Store) {
	t.Run("InsertAssignsID", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		in := batman("Batman", 2005, "2005-06-15", "Christian", "Michael")
		in.ID = "ignored"
		out, err := s.Insert(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, out.ID)
		assert.NotEqual(t, "ignored", out.ID)
		assert.Equal(t, "ignored", in.ID, "input must not be mutated")

		want := in.Clone()
		want.ID = out.ID
		if diff := cmp.Diff(want, out); diff != "" {
			t.Errorf("Insert() mismatch (-want +got):\n%s", diff)
		}

		got, err := s.FindByID(ctx, out.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(out, got); diff != "" {
			t.Errorf("FindByID() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		s := open(t)
		_, err := s.FindByID(context.Background(), "does-not-exist")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("ListAndFilterByYear", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		_, err := s.Insert(ctx, batman("Batman", 2005, "2005-06-15", "Christian", "Michael"))
		require.NoError(t, err)
		_, err = s.Save(ctx, &model.MovieInfo{ID: "abc", Name: "Batman1", Year: 2008, Cast: []string{"Christian1"}, ReleaseDate: model.MustParseDate("2008-06-15")})
		require.NoError(t, err)
		_, err = s.Insert(ctx, batman("Batman2", 2012, "2012-06-15", "Christian2"))
		require.NoError(t, err)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Batman", "Batman1", "Batman2"}, namesOf(all))

		byYear, err := s.FindByYear(ctx, 2008)
		require.NoError(t, err)
		require.Len(t, byYear, 1)
		assert.Equal(t, "abc", byYear[0].ID)
		assert.Equal(t, "Batman1", byYear[0].Name)

		none, err := s.FindByYear(ctx, 1999)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("EmptyStoreListsNothing", func(t *testing.T) {
		s := open(t)
		all, err := s.FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("SaveUpsertsAndMovesYearIndex", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		_, err := s.Save(ctx, &model.MovieInfo{ID: "abc", Name: "Batman1", Year: 2008, Cast: []string{}})
		require.NoError(t, err)
		_, err = s.Save(ctx, &model.MovieInfo{ID: "abc", Name: "Batman Begins", Year: 2005, Cast: []string{"Christian"}})
		require.NoError(t, err)

		got, err := s.FindByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "Batman Begins", got.Name)

		old, err := s.FindByYear(ctx, 2008)
		require.NoError(t, err)
		assert.Empty(t, old)
		moved, err := s.FindByYear(ctx, 2005)
		require.NoError(t, err)
		assert.Len(t, moved, 1)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("SaveWithoutIDInserts", func(t *testing.T) {
		s := open(t)
		out, err := s.Save(context.Background(), batman("Batman", 2005, "2005-06-15"))
		require.NoError(t, err)
		assert.NotEmpty(t, out.ID)
	})

	t.Run("ReplaceExisting", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, batman("Batman", 2005, "2005-06-15", "Christian"))
		require.NoError(t, err)

		repl := batman("Batman updated", 2006, "2006-01-01", "Someone")
		repl.ID = created.ID
		out, err := s.Replace(ctx, repl)
		require.NoError(t, err)
		if diff := cmp.Diff(repl, out); diff != "" {
			t.Errorf("Replace() mismatch (-want +got):\n%s", diff)
		}

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(repl, got); diff != "" {
			t.Errorf("FindByID() after Replace mismatch (-want +got):\n%s", diff)
		}

		byOldYear, err := s.FindByYear(ctx, 2005)
		require.NoError(t, err)
		assert.Empty(t, byOldYear)
	})

	t.Run("ReplaceMissingWritesNothing", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		repl := batman("Ghost", 2005, "2005-06-15")
		repl.ID = "missing"
		_, err := s.Replace(ctx, repl)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		_, err = s.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ports.ErrNotFound)
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, batman("Batman", 2005, "2005-06-15"))
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, created.ID))
		_, err = s.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, ports.ErrNotFound)
		byYear, err := s.FindByYear(ctx, 2005)
		require.NoError(t, err)
		assert.Empty(t, byYear)

		assert.NoError(t, s.DeleteByID(ctx, created.ID))
		assert.NoError(t, s.DeleteByID(ctx, "never-existed"))
	})

	t.Run("DeleteAll", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := s.Insert(ctx, batman("Batman", 2005+i, "2005-06-15"))
			require.NoError(t, err)
		}
		require.NoError(t, s.DeleteAll(ctx))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		byYear, err := s.FindByYear(ctx, 2006)
		require.NoError(t, err)
		assert.Empty(t, byYear)
	})

	t.Run("ReturnedRecordsAreDetached", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, batman("Batman", 2005, "2005-06-15", "Christian"))
		require.NoError(t, err)
		created.Name = "mutated"
		created.Cast[0] = "mutated"

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Batman", got.Name)
		assert.Equal(t, []string{"Christian"}, got.Cast)
	})

	t.Run("ConcurrentInserts", func(t *testing.T) {
		s := open(t)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Insert(ctx, batman("Batman", 2000+i%2, "2005-06-15"))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 20)
		even, err := s.FindByYear(ctx, 2000)
		require.NoError(t, err)
		assert.Len(t, even, 10)
	})

	t.Run("ConcurrentReplaceSameID", func(t *testing.T) {
		s := open(t)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		seed, err := s.Insert(ctx, batman("Batman", 2005, "2005-06-15"))
		require.NoError(t, err)

		const writers = 30
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := batman(fmt.Sprintf("Batman %d", i), 2000+i, "2005-06-15")
				rec.ID = seed.ID
				_, err := s.Replace(ctx, rec)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := s.FindByID(ctx, seed.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Batman %d", got.Year-2000), got.Name)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		// The year index must point at the record under its final year only.
		indexed := 0
		for i := 0; i < writers; i++ {
			recs, err := s.FindByYear(ctx, 2000+i)
			require.NoError(t, err)
			indexed += len(recs)
			if 2000+i == got.Year {
				assert.Len(t, recs, 1)
			}
		}
		assert.Equal(t, 1, indexed)
	})

	t.Run("Ping", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
