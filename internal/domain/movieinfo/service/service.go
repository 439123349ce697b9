// SPDX-License-Identifier: MIT

// Package service implements the movie info use cases on top of a ports.Store.
//
// Absence is reported as a nil record with a nil error; storage failures are
// returned unchanged so the transport layer can map them.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
	"github.com/ManuGH/movieinfo/internal/log"
	"github.com/ManuGH/movieinfo/internal/metrics"
)

// Operation names used for logs and metrics.
const (
	OpCreate     = "create"
	OpList       = "list"
	OpListByYear = "list_by_year"
	OpGet        = "get"
	OpUpdate     = "update"
	OpDelete     = "delete"
)

// Service holds the movie info business rules.
type Service struct {
	store ports.Store
}

// New returns a Service backed by store.
func New(store ports.Store) *Service {
	return &Service{store: store}
}

// Create persists rec under a freshly generated id. Any id on the input is ignored.
func (s *Service) Create(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	in := rec.Clone()
	in.ID = ""
	in.Normalize()

	out, err := s.store.Insert(ctx, in)
	if err != nil {
		s.fail(ctx, OpCreate, "", err)
		return nil, fmt.Errorf("create movie info: %w", err)
	}

	metrics.RecordMovieInfoOperation(OpCreate, metrics.OutcomeSuccess)
	logger := log.WithComponentFromContext(ctx, "movieinfo")
	logger.Info().
		Str(log.FieldEvent, "movieinfo.created").
		Str(log.FieldMovieInfoID, out.ID).
		Int(log.FieldYear, out.Year).
		Msg("movie info created")
	return out, nil
}

// List returns every stored record. An empty store yields an empty slice.
func (s *Service) List(ctx context.Context) ([]*model.MovieInfo, error) {
	out, err := s.store.FindAll(ctx)
	if err != nil {
		s.fail(ctx, OpList, "", err)
		return nil, fmt.Errorf("list movie infos: %w", err)
	}
	metrics.RecordMovieInfoOperation(OpList, metrics.OutcomeSuccess)
	return out, nil
}

// ListByYear returns the records whose year equals year exactly.
func (s *Service) ListByYear(ctx context.Context, year int) ([]*model.MovieInfo, error) {
	out, err := s.store.FindByYear(ctx, year)
	if err != nil {
		s.fail(ctx, OpListByYear, "", err)
		return nil, fmt.Errorf("list movie infos by year %d: %w", year, err)
	}
	metrics.RecordMovieInfoOperation(OpListByYear, metrics.OutcomeSuccess)
	return out, nil
}

// Get returns the record with id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*model.MovieInfo, error) {
	out, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		metrics.RecordMovieInfoOperation(OpGet, metrics.OutcomeNotFound)
		return nil, nil
	}
	if err != nil {
		s.fail(ctx, OpGet, id, err)
		return nil, fmt.Errorf("get movie info %q: %w", id, err)
	}
	metrics.RecordMovieInfoOperation(OpGet, metrics.OutcomeSuccess)
	return out, nil
}

// Update merges payload into the record with id: name, year, cast and
// releaseDate are taken from payload and the id from the path. It returns nil
// when no record has id, including when the record is deleted concurrently
// between the lookup and the write.
func (s *Service) Update(ctx context.Context, id string, payload *model.MovieInfo) (*model.MovieInfo, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			metrics.RecordMovieInfoOperation(OpUpdate, metrics.OutcomeNotFound)
			return nil, nil
		}
		s.fail(ctx, OpUpdate, id, err)
		return nil, fmt.Errorf("update movie info %q: %w", id, err)
	}

	merged := payload.Clone()
	merged.ID = id
	merged.Normalize()

	out, err := s.store.Replace(ctx, merged)
	if errors.Is(err, ports.ErrNotFound) {
		metrics.RecordMovieInfoOperation(OpUpdate, metrics.OutcomeNotFound)
		logger := log.WithComponentFromContext(ctx, "movieinfo")
		logger.Debug().
			Str(log.FieldEvent, "movieinfo.update_lost").
			Str(log.FieldMovieInfoID, id).
			Msg("record removed before update was written")
		return nil, nil
	}
	if err != nil {
		s.fail(ctx, OpUpdate, id, err)
		return nil, fmt.Errorf("update movie info %q: %w", id, err)
	}

	metrics.RecordMovieInfoOperation(OpUpdate, metrics.OutcomeSuccess)
	logger := log.WithComponentFromContext(ctx, "movieinfo")
	logger.Info().
		Str(log.FieldEvent, "movieinfo.updated").
		Str(log.FieldMovieInfoID, id).
		Msg("movie info updated")
	return out, nil
}

// Delete removes the record with id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		s.fail(ctx, OpDelete, id, err)
		return fmt.Errorf("delete movie info %q: %w", id, err)
	}
	metrics.RecordMovieInfoOperation(OpDelete, metrics.OutcomeSuccess)
	logger := log.WithComponentFromContext(ctx, "movieinfo")
	logger.Info().
		Str(log.FieldEvent, "movieinfo.deleted").
		Str(log.FieldMovieInfoID, id).
		Msg("movie info deleted")
	return nil
}

func (s *Service) fail(ctx context.Context, op, id string, err error) {
	metrics.RecordMovieInfoOperation(op, metrics.OutcomeFailure)
	logger := log.WithComponentFromContext(ctx, "movieinfo")
	ev := logger.Error().Err(err).
		Str(log.FieldEvent, "movieinfo.store_failed").
		Str(log.FieldOperation, op)
	if id != "" {
		ev = ev.Str(log.FieldMovieInfoID, id)
	}
	ev.Msg("movie info storage failed")
}
