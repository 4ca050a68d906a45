package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/metrics"
	"asv-water-quality/internal/models"
)

// MongoStore коллекция наблюдений в MongoDB
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore подключается к MongoDB и проверяет соединение
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// BuildFilter переводит диапазоны полей в фильтр $gte/$lte
func BuildFilter(ranges []analytics.FieldRange) bson.M {
	filter := bson.M{}
	for _, fr := range ranges {
		if !fr.Bounded() {
			continue
		}
		rng := bson.M{}
		if fr.Min != nil {
			rng["$gte"] = *fr.Min
		}
		if fr.Max != nil {
			rng["$lte"] = *fr.Max
		}
		filter[fr.Field.Key] = rng
	}
	return filter
}

// Find выбирает записи по диапазонам полей; limit <= 0 означает без ограничения
func (s *MongoStore) Find(ctx context.Context, ranges []analytics.FieldRange, skip, limit int) ([]models.Record, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, BuildFilter(ranges), opts)
	if err != nil {
		metrics.MongoOperations.WithLabelValues("find", "error").Inc()
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		metrics.MongoOperations.WithLabelValues("find", "error").Inc()
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	metrics.MongoOperations.WithLabelValues("find", "success").Inc()

	records := make([]models.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, models.Record(d))
	}
	return records, nil
}

// InsertMany сохраняет записи одной пачкой
func (s *MongoStore) InsertMany(ctx context.Context, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, bson.M(r))
	}

	res, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		metrics.MongoOperations.WithLabelValues("insert_many", "error").Inc()
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, fmt.Errorf("failed to insert observations: %w", err)
	}
	metrics.MongoOperations.WithLabelValues("insert_many", "success").Inc()

	slog.Debug("inserted observations", "count", len(res.InsertedIDs))
	return len(res.InsertedIDs), nil
}

// Ping проверяет доступность MongoDB
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close закрывает соединение
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
