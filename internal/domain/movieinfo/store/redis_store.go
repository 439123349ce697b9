// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string // Redis server address (host:port)
	Password  string // Redis password (optional)
	DB        int    // Redis database number
	KeyPrefix string // namespace for all keys (default "movieinfo")
}

// RedisStore keeps records as JSON strings. The key layout is:
//   - <prefix>:rec:<id>    record JSON
//   - <prefix>:ids         sorted set of ids scored by first insert time
//   - <prefix>:year:<year> set of ids with that year
//
// Writes run in WATCH/MULTI transactions so the indexes never diverge from
// the records.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return newRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

func newRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "movieinfo"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) recKey(id string) string { return s.prefix + ":rec:" + id }
func (s *RedisStore) idsKey() string          { return s.prefix + ":ids" }
func (s *RedisStore) yearKey(year int) string { return s.prefix + ":year:" + strconv.Itoa(year) }

func decodeRecord(raw string) (*model.MovieInfo, error) {
	var rec model.MovieInfo
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c stringGetter, id string) (*model.MovieInfo, error) {
	raw, err := c.Get(ctx, s.recKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// write stores rec inside a watched transaction. When mustExist is set the
// write is aborted with ErrNotFound if the record is absent.
func (s *RedisStore) write(ctx context.Context, rec *model.MovieInfo, mustExist bool) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := s.recKey(rec.ID)

	txf := func(tx *redis.Tx) error {
		old, err := s.get(ctx, tx, rec.ID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			if mustExist {
				return ports.ErrNotFound
			}
			old = nil
		case err != nil:
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, 0)
			pipe.ZAddNX(ctx, s.idsKey(), redis.Z{Score: float64(time.Now().UnixNano()), Member: rec.ID})
			if old != nil && old.Year != rec.Year {
				pipe.SRem(ctx, s.yearKey(old.Year), rec.ID)
			}
			pipe.SAdd(ctx, s.yearKey(rec.Year), rec.ID)
			return nil
		})
		return err
	}
	return s.watch(ctx, txf, key)
}

func isRedisConflict(err error) bool { return errors.Is(err, redis.TxFailedErr) }

// watch runs txf under WATCH on keys, retrying when a watched key changed.
func (s *RedisStore) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	return retryOnConflict(ctx, BackendRedis, isRedisConflict, func() error {
		return s.client.Watch(ctx, txf, keys...)
	})
}

func (s *RedisStore) Insert(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	stored.ID = uuid.NewString()
	if err := s.write(ctx, stored, false); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (*model.MovieInfo, error) {
	return s.get(ctx, s.client, id)
}

// load fetches records for ids, skipping ids whose record vanished meanwhile.
func (s *RedisStore) load(ctx context.Context, ids []string) ([]*model.MovieInfo, error) {
	out := make([]*model.MovieInfo, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) FindAll(ctx context.Context) ([]*model.MovieInfo, error) {
	ids, err := s.client.ZRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) FindByYear(ctx context.Context, year int) ([]*model.MovieInfo, error) {
	ids, err := s.client.SMembers(ctx, s.yearKey(year)).Result()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	if rec.ID == "" {
		return s.Insert(ctx, rec)
	}
	stored := rec.Clone()
	if err := s.write(ctx, stored, false); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *RedisStore) Replace(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	if err := s.write(ctx, stored, true); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
	key := s.recKey(id)
	txf := func(tx *redis.Tx) error {
		old, err := s.get(ctx, tx, id)
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.idsKey(), id)
			pipe.SRem(ctx, s.yearKey(old.Year), id)
			return nil
		})
		return err
	}
	return s.watch(ctx, txf, key)
}

func (s *RedisStore) DeleteAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
