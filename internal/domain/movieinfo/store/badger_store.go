// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

// BadgerStore keeps records in an embedded badger database:
//   - records: key = "mi:<id>" (JSON)
//   - year index: key = "year:<year>:<id>" (empty value)
//
// Listing follows key order, i.e. records are ordered by id.
type BadgerStore struct {
	db *badger.DB
}

const (
	recordPrefix = "mi:"
	yearPrefix   = "year:"
)

// OpenBadgerStore opens (or creates) a badger database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemoryBadgerStore opens a badger database that never touches disk.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger store: open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func isBadgerConflict(err error) bool { return errors.Is(err, badger.ErrConflict) }

// update runs fn in a read-write transaction, retrying lost optimistic conflicts.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	return retryOnConflict(ctx, BackendBadger, isBadgerConflict, func() error {
		return s.db.Update(fn)
	})
}

func recordKey(id string) []byte { return []byte(recordPrefix + id) }

func yearKey(year int, id string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s", yearPrefix, year, id))
}

func getRecord(txn *badger.Txn, id string) (*model.MovieInfo, error) {
	item, err := txn.Get(recordKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var out model.MovieInfo
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// putRecord writes rec and moves its year index entry when the year changed.
func putRecord(txn *badger.Txn, rec *model.MovieInfo) error {
	old, err := getRecord(txn, rec.ID)
	switch {
	case err == nil:
		if old.Year != rec.Year {
			if err := txn.Delete(yearKey(old.Year, old.ID)); err != nil {
				return err
			}
		}
	case !errors.Is(err, ports.ErrNotFound):
		return err
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := txn.Set(recordKey(rec.ID), buf); err != nil {
		return err
	}
	return txn.Set(yearKey(rec.Year, rec.ID), nil)
}

func (s *BadgerStore) Insert(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	stored.ID = uuid.NewString()
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return putRecord(txn, stored)
	}); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *BadgerStore) FindByID(_ context.Context, id string) (*model.MovieInfo, error) {
	var out *model.MovieInfo
	err := s.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		out = rec
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) FindAll(_ context.Context) ([]*model.MovieInfo, error) {
	out := make([]*model.MovieInfo, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec model.MovieInfo
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) FindByYear(_ context.Context, year int) ([]*model.MovieInfo, error) {
	out := make([]*model.MovieInfo, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%d:", yearPrefix, year))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			rec, err := getRecord(txn, id)
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	if rec.ID == "" {
		return s.Insert(ctx, rec)
	}
	stored := rec.Clone()
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return putRecord(txn, stored)
	}); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *BadgerStore) Replace(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	err := s.update(ctx, func(txn *badger.Txn) error {
		if _, err := getRecord(txn, stored.ID); err != nil {
			return err
		}
		return putRecord(txn, stored)
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *BadgerStore) DeleteByID(ctx context.Context, id string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		old, err := getRecord(txn, id)
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(yearKey(old.Year, id)); err != nil {
			return err
		}
		return txn.Delete(recordKey(id))
	})
}

func (s *BadgerStore) DeleteAll(_ context.Context) error {
	return s.db.DropAll()
}

func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store: closed")
	}
	return nil
}
