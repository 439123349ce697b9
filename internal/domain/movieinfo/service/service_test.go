// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/store"
)

func seed(t *testing.T, s ports.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := s.Insert(ctx, &model.MovieInfo{Name: "Batman", Year: 2005, Cast: []string{"Christian", "Michael"}, ReleaseDate: model.MustParseDate("2005-06-15")})
	require.NoError(t, err)
	_, err = s.Save(ctx, &model.MovieInfo{ID: "abc", Name: "Batman1", Year: 2008, Cast: []string{"Christian1"}, ReleaseDate: model.MustParseDate("2008-06-15")})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &model.MovieInfo{Name: "Batman2", Year: 2012, Cast: []string{"Christian2"}, ReleaseDate: model.MustParseDate("2012-06-15")})
	require.NoError(t, err)
}

func newSeeded(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	seed(t, st)
	return New(st), st
}

func TestCreate_IgnoresPayloadID(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	in := &model.MovieInfo{ID: "client-chosen", Name: "Batman Begins", Year: 2005}
	out, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.NotEqual(t, "client-chosen", out.ID)
	assert.Equal(t, []string{}, out.Cast)
	assert.Equal(t, "client-chosen", in.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestList(t *testing.T) {
	svc, _ := newSeeded(t)
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty := New(store.NewMemoryStore())
	none, err := empty.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByYear(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	got, err := svc.ListByYear(ctx, 2008)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].ID)

	none, err := svc.ListByYear(ctx, 1999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGet(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	got, err := svc.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Batman1", got.Name)

	missing, err := svc.Get(ctx, "def")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdate_ReplacesAllFieldsAndKeepsPathID(t *testing.T) {
	svc, st := newSeeded(t)
	ctx := context.Background()

	payload := &model.MovieInfo{
		ID:          "other",
		Name:        "Dark Knight Rises1",
		Year:        2021,
		Cast:        []string{"Christian Bale"},
		ReleaseDate: model.MustParseDate("2021-01-01"),
	}
	out, err := svc.Update(ctx, "abc", payload)
	require.NoError(t, err)

	want := &model.MovieInfo{
		ID:          "abc",
		Name:        "Dark Knight Rises1",
		Year:        2021,
		Cast:        []string{"Christian Bale"},
		ReleaseDate: model.MustParseDate("2021-01-01"),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Update() mismatch (-want +got):\n%s", diff)
	}

	stored, err := st.FindByID(ctx, "abc")
	require.NoError(t, err)
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("stored record mismatch (-want +got):\n%s", diff)
	}

	_, err = st.FindByID(ctx, "other")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdate_UnknownIDCreatesNothing(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	out, err := svc.Update(ctx, "def", &model.MovieInfo{Name: "Dark Knight Rises1", Year: 2021})
	require.NoError(t, err)
	assert.Nil(t, out)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// deletingStore removes the record right after the existence check so the
// subsequent write races with a delete.
type deletingStore struct {
	*store.MemoryStore
}

func (d deletingStore) FindByID(ctx context.Context, id string) (*model.MovieInfo, error) {
	rec, err := d.MemoryStore.FindByID(ctx, id)
	if err == nil {
		_ = d.MemoryStore.DeleteByID(ctx, id)
	}
	return rec, err
}

func TestUpdate_ConcurrentDeleteIsNotResurrected(t *testing.T) {
	mem := store.NewMemoryStore()
	seed(t, mem)
	svc := New(deletingStore{mem})
	ctx := context.Background()

	out, err := svc.Update(ctx, "abc", &model.MovieInfo{Name: "Zombie", Year: 2021})
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = mem.FindByID(ctx, "abc")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "abc"))
	got, err := svc.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, svc.Delete(ctx, "abc"))
	assert.NoError(t, svc.Delete(ctx, "never-existed"))
}

type failingStore struct {
	ports.Store
	err error
}

func (f failingStore) Insert(context.Context, *model.MovieInfo) (*model.MovieInfo, error) {
	return nil, f.err
}
func (f failingStore) FindAll(context.Context) ([]*model.MovieInfo, error) { return nil, f.err }
func (f failingStore) FindByYear(context.Context, int) ([]*model.MovieInfo, error) {
	return nil, f.err
}
func (f failingStore) FindByID(context.Context, string) (*model.MovieInfo, error) {
	return nil, f.err
}
func (f failingStore) DeleteByID(context.Context, string) error { return f.err }

func TestStoreFailuresPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := New(failingStore{err: boom})
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.MovieInfo{Name: "x", Year: 1})
	assert.ErrorIs(t, err, boom)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = svc.ListByYear(ctx, 2005)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, boom)
	_, err = svc.Update(ctx, "abc", &model.MovieInfo{Name: "x", Year: 1})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.Delete(ctx, "abc"), boom)
}
