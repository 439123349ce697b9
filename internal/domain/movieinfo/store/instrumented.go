// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
	"github.com/ManuGH/movieinfo/internal/metrics"
	"github.com/ManuGH/movieinfo/internal/telemetry"
)

// InstrumentedStore wraps a Store with Prometheus timings and one
// OpenTelemetry span per operation.
type InstrumentedStore struct {
	next    ports.Store
	backend string
	tracer  trace.Tracer
}

// Instrument decorates next. backend labels metrics and spans.
func Instrument(next ports.Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		backend: backend,
		tracer:  telemetry.Tracer("movieinfo/store"),
	}
}

// Unwrap returns the decorated store.
func (s *InstrumentedStore) Unwrap() ports.Store { return s.next }

func (s *InstrumentedStore) start(ctx context.Context, op, id string, year int) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.StoreAttributes(s.backend, op, id, year)...),
	)
	begin := time.Now()
	return ctx, func(err error) {
		result := metrics.ResultOK
		switch {
		case errors.Is(err, ports.ErrNotFound):
			result = metrics.ResultNotFound
		case err != nil:
			result = metrics.ResultError
			span.RecordError(err)
			span.SetAttributes(telemetry.ErrorAttributes(err, "store_error")...)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.ObserveStoreOperation(s.backend, op, result, time.Since(begin))
		span.End()
	}
}

func (s *InstrumentedStore) Insert(ctx context.Context, rec *model.MovieInfo) (out *model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "insert", "", rec.Year)
	defer func() { done(err) }()
	return s.next.Insert(ctx, rec)
}

func (s *InstrumentedStore) FindByID(ctx context.Context, id string) (out *model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "find_by_id", id, 0)
	defer func() { done(err) }()
	return s.next.FindByID(ctx, id)
}

func (s *InstrumentedStore) FindAll(ctx context.Context) (out []*model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "find_all", "", 0)
	defer func() {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.ResultCountKey, len(out)))
		done(err)
	}()
	return s.next.FindAll(ctx)
}

func (s *InstrumentedStore) FindByYear(ctx context.Context, year int) (out []*model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "find_by_year", "", year)
	defer func() {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.ResultCountKey, len(out)))
		done(err)
	}()
	return s.next.FindByYear(ctx, year)
}

func (s *InstrumentedStore) Save(ctx context.Context, rec *model.MovieInfo) (out *model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "save", rec.ID, rec.Year)
	defer func() { done(err) }()
	return s.next.Save(ctx, rec)
}

func (s *InstrumentedStore) Replace(ctx context.Context, rec *model.MovieInfo) (out *model.MovieInfo, err error) {
	ctx, done := s.start(ctx, "replace", rec.ID, rec.Year)
	defer func() { done(err) }()
	return s.next.Replace(ctx, rec)
}

func (s *InstrumentedStore) DeleteByID(ctx context.Context, id string) (err error) {
	ctx, done := s.start(ctx, "delete_by_id", id, 0)
	defer func() { done(err) }()
	return s.next.DeleteByID(ctx, id)
}

func (s *InstrumentedStore) DeleteAll(ctx context.Context) (err error) {
	ctx, done := s.start(ctx, "delete_all", "", 0)
	defer func() { done(err) }()
	return s.next.DeleteAll(ctx)
}

// Ping also updates the store_up gauge.
func (s *InstrumentedStore) Ping(ctx context.Context) (err error) {
	ctx, done := s.start(ctx, "ping", "", 0)
	defer func() {
		metrics.SetStoreUp(s.backend, err == nil)
		done(err)
	}()
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close() error { return s.next.Close() }
