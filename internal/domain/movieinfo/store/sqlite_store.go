// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
	"github.com/ManuGH/movieinfo/internal/persistence/sqlite"
)

const (
	schemaVersion = 1
)

// SqliteStore implements ports.Store using SQLite. Records are listed in
// insertion (rowid) order.
type SqliteStore struct {
	DB *sql.DB
}

// NewSqliteStore opens dbPath, checks its integrity and applies the schema.
func NewSqliteStore(ctx context.Context, dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(dbPath, sqlite.MovieInfoConfig())
	if err != nil {
		return nil, err
	}

	issues, err := sqlite.VerifyIntegrity(ctx, db, "quick")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("movieinfo store: integrity check: %w", err)
	}
	if issues != nil {
		_ = db.Close()
		return nil, fmt.Errorf("movieinfo store: database corrupt: %s", strings.Join(issues, "; "))
	}

	s := &SqliteStore{DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("movieinfo store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}

func (s *SqliteStore) migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.DB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS movie_infos (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		cast_json TEXT NOT NULL,
		release_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_movie_infos_year ON movie_infos(year);
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

const selectColumns = "SELECT id, name, year, cast_json, release_date FROM movie_infos"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovieInfo(row rowScanner) (*model.MovieInfo, error) {
	var (
		rec         model.MovieInfo
		castJSON    string
		releaseDate sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Year, &castJSON, &releaseDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(castJSON), &rec.Cast); err != nil {
		return nil, fmt.Errorf("decode cast of %s: %w", rec.ID, err)
	}
	d, err := model.ParseDate(releaseDate.String)
	if err != nil {
		return nil, err
	}
	rec.ReleaseDate = d
	return &rec, nil
}

func (s *SqliteStore) query(ctx context.Context, query string, args ...any) ([]*model.MovieInfo, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.MovieInfo, 0)
	for rows.Next() {
		rec, err := scanMovieInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodeColumns(rec *model.MovieInfo) (string, sql.NullString, error) {
	cast := rec.Cast
	if cast == nil {
		cast = []string{}
	}
	castJSON, err := json.Marshal(cast)
	if err != nil {
		return "", sql.NullString{}, err
	}
	var releaseDate sql.NullString
	if !rec.ReleaseDate.IsZero() {
		releaseDate = sql.NullString{String: rec.ReleaseDate.String(), Valid: true}
	}
	return string(castJSON), releaseDate, nil
}

func (s *SqliteStore) Insert(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	stored.ID = uuid.NewString()
	if err := s.upsert(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *SqliteStore) upsert(ctx context.Context, rec *model.MovieInfo) error {
	castJSON, releaseDate, err := encodeColumns(rec)
	if err != nil {
		return err
	}
	query := `
	INSERT INTO movie_infos (id, name, year, cast_json, release_date)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		year = excluded.year,
		cast_json = excluded.cast_json,
		release_date = excluded.release_date
	`
	_, err = s.DB.ExecContext(ctx, query, rec.ID, rec.Name, rec.Year, castJSON, releaseDate)
	return err
}

func (s *SqliteStore) FindByID(ctx context.Context, id string) (*model.MovieInfo, error) {
	rec, err := scanMovieInfo(s.DB.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SqliteStore) FindAll(ctx context.Context) ([]*model.MovieInfo, error) {
	return s.query(ctx, selectColumns+" ORDER BY rowid")
}

func (s *SqliteStore) FindByYear(ctx context.Context, year int) ([]*model.MovieInfo, error) {
	return s.query(ctx, selectColumns+" WHERE year = ? ORDER BY rowid", year)
}

func (s *SqliteStore) Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	if rec.ID == "" {
		return s.Insert(ctx, rec)
	}
	stored := rec.Clone()
	if err := s.upsert(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *SqliteStore) Replace(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	castJSON, releaseDate, err := encodeColumns(stored)
	if err != nil {
		return nil, err
	}
	res, err := s.DB.ExecContext(ctx,
		"UPDATE movie_infos SET name = ?, year = ?, cast_json = ?, release_date = ? WHERE id = ?",
		stored.Name, stored.Year, castJSON, releaseDate, stored.ID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.ErrNotFound
	}
	return stored, nil
}

func (s *SqliteStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM movie_infos WHERE id = ?", id)
	return err
}

func (s *SqliteStore) DeleteAll(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM movie_infos")
	return err
}

func (s *SqliteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
