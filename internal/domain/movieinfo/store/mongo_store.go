// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/ports"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps records as documents in a MongoDB collection with a
// secondary index on year. Listing is ordered by id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// movieInfoDocument is the persisted document shape.
type movieInfoDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Year        int      `bson:"year"`
	Cast        []string `bson:"cast"`
	ReleaseDate string   `bson:"releaseDate,omitempty"`
}

func toDocument(rec *model.MovieInfo) movieInfoDocument {
	cast := rec.Cast
	if cast == nil {
		cast = []string{}
	}
	return movieInfoDocument{
		ID:          rec.ID,
		Name:        rec.Name,
		Year:        rec.Year,
		Cast:        cast,
		ReleaseDate: rec.ReleaseDate.String(),
	}
}

func fromDocument(d movieInfoDocument) (*model.MovieInfo, error) {
	releaseDate, err := model.ParseDate(d.ReleaseDate)
	if err != nil {
		return nil, err
	}
	cast := d.Cast
	if cast == nil {
		cast = []string{}
	}
	return &model.MovieInfo{
		ID:          d.ID,
		Name:        d.Name,
		Year:        d.Year,
		Cast:        cast,
		ReleaseDate: releaseDate,
	}, nil
}

// NewMongoStore connects to MongoDB, pings the primary and ensures the year index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "movieinfo"
	}
	if cfg.Collection == "" {
		cfg.Collection = "movie_infos"
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "year", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ensure year index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func byID(id string) bson.D { return bson.D{{Key: "_id", Value: id}} }

func (s *MongoStore) Insert(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	stored.ID = uuid.NewString()
	if _, err := s.coll.InsertOne(ctx, toDocument(stored)); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*model.MovieInfo, error) {
	var doc movieInfoDocument
	err := s.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func (s *MongoStore) find(ctx context.Context, filter bson.D) ([]*model.MovieInfo, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []movieInfoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.MovieInfo, 0, len(docs))
	for _, d := range docs {
		rec, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]*model.MovieInfo, error) {
	return s.find(ctx, bson.D{})
}

func (s *MongoStore) FindByYear(ctx context.Context, year int) ([]*model.MovieInfo, error) {
	return s.find(ctx, bson.D{{Key: "year", Value: year}})
}

func (s *MongoStore) Save(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	if rec.ID == "" {
		return s.Insert(ctx, rec)
	}
	stored := rec.Clone()
	if _, err := s.coll.ReplaceOne(ctx, byID(stored.ID), toDocument(stored), options.Replace().SetUpsert(true)); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *MongoStore) Replace(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error) {
	stored := rec.Clone()
	res, err := s.coll.ReplaceOne(ctx, byID(stored.ID), toDocument(stored))
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ports.ErrNotFound
	}
	return stored, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, byID(id))
	return err
}

func (s *MongoStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
