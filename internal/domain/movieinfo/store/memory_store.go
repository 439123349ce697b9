// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

// MemoryStore keeps records in process memory in insertion order. When a
// snapshot path is configured the records are loaded on open and written
// atomically on Close.
type MemoryStore struct {
	mu           sync.RWMutex
	data         map[string]*model.MovieInfo
	order        []string
	snapshotPath string
}

// NewMemoryStore returns an empty in-memory store without persistence.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]*model.MovieInfo{}}
}

// OpenMemoryStore returns a memory store backed by a JSON snapshot file.
// A missing file yields an empty store.
func OpenMemoryStore(snapshotPath string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.snapshotPath = snapshotPath
	if snapshotPath == "" {
		return s, nil
	}

	buf, err := os.ReadFile(snapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory store: read snapshot: %w", err)
	}

	var recs []*model.MovieInfo
	if err := json.Unmarshal(buf, &recs); err != nil {
		return nil, fmt.Errorf("memory store: decode snapshot: %w", err)
	}
	for _, rec := range recs {
		if rec == nil || rec.ID == "" {
			continue
		}
		s.put(rec.Clone())
	}
	return s, nil
}

// put stores rec, keeping the original position of an existing id. Caller holds mu.
func (s *MemoryStore) put(rec *model.MovieInfo) {
	if _, ok := s.data[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.data[rec.ID] = rec
}

func (s *MemoryStore) Insert(_ context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	stored.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(stored)
	return stored.Clone(), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*model.MovieInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]*model.MovieInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.MovieInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.data[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) FindByYear(_ context.Context, year int) ([]*model.MovieInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.MovieInfo, 0)
	for _, id := range s.order {
		if rec := s.data[id]; rec.Year == year {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	if rec.ID == "" {
		return s.Insert(ctx, rec)
	}
	stored := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(stored)
	return stored.Clone(), nil
}

func (s *MemoryStore) Replace(_ context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[stored.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	s.put(stored)
	return stored.Clone(), nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]*model.MovieInfo{}
	s.order = nil
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close writes the snapshot, if configured.
func (s *MemoryStore) Close() error {
	if s.snapshotPath == "" {
		return nil
	}
	recs, _ := s.FindAll(context.Background())
	buf, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("memory store: encode snapshot: %w", err)
	}

	// renameio handles temp file creation, fsync and atomic rename.
	if err := renameio.WriteFile(s.snapshotPath, buf, 0o600); err != nil {
		return fmt.Errorf("memory store: write snapshot: %w", err)
	}
	return nil
}
