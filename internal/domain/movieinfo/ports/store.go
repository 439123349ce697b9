// SPDX-License-Identifier: MIT

// Package ports defines the storage boundary of the movie info domain.
package ports

import (
	"context"
	"errors"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
)

// ErrNotFound is returned by a Store when no record has the requested id.
var ErrNotFound = errors.New("movieinfo: not found")

// Store is the document collection holding movie info records, keyed by an
// opaque string id. Implementations must be safe for concurrent use and must
// not retain the records passed to or returned from them.
type Store interface {
	// Insert stores rec under a newly generated id, ignoring rec.ID.
	Insert(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error)
	// FindByID returns ErrNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*model.MovieInfo, error)
	FindAll(ctx context.Context) ([]*model.MovieInfo, error)
	FindByYear(ctx context.Context, year int) ([]*model.MovieInfo, error)
	// Save upserts rec keyed by rec.ID. An empty ID behaves like Insert.
	Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error)
	// Replace overwrites the record with rec.ID only if it exists; otherwise
	// it returns ErrNotFound and writes nothing.
	Replace(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error)
	// DeleteByID removes the record. Unknown ids are not an error.
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
