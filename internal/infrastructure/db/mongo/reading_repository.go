package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

type ReadingRepository struct {
	db *mongo.Database
}

func NewReadingRepository(db *mongo.Database) *ReadingRepository {
	return &ReadingRepository{db: db}
}

func (r *ReadingRepository) col() *mongo.Collection {
	return r.db.Collection(collectionReadings)
}

func (r *ReadingRepository) Insert(ctx context.Context, reading *domain.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionReadings)
	if err != nil {
		return err
	}
	reading.ID = id

	if _, err := r.col().InsertOne(ctx, reading); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Two retries of the same keyed upload raced past the fast path.
			return fmt.Errorf("%w: duplicate idempotency key", domain.ErrConflict)
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (r *ReadingRepository) FindByID(ctx context.Context, id int64) (*domain.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var reading domain.Reading
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&reading); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find reading: %w", err)
	}
	return &reading, nil
}

func (r *ReadingRepository) FindAll(ctx context.Context) ([]*domain.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	var readings []*domain.Reading
	if err := cur.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("decode readings: %w", err)
	}
	return readings, nil
}

// FindByDevice returns the device's readings newest first, optionally limited
// to one UTC calendar day (the dashboard's readings-by-date view).
func (r *ReadingRepository) FindByDevice(ctx context.Context, deviceID int64, day *time.Time) ([]*domain.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"device_id": deviceID}
	if day != nil {
		start := day.UTC().Truncate(24 * time.Hour)
		filter["timestamp"] = bson.M{"$gte": start, "$lt": start.Add(24 * time.Hour)}
	}

	cur, err := r.col().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list device readings: %w", err)
	}
	var readings []*domain.Reading
	if err := cur.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("decode device readings: %w", err)
	}
	return readings, nil
}

func (r *ReadingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var reading domain.Reading
	if err := r.col().FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&reading); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find reading by idempotency key: %w", err)
	}
	return &reading, nil
}

func (r *ReadingRepository) CountByTower(ctx context.Context, towerID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col().CountDocuments(ctx, bson.M{"celltower_id": towerID})
	if err != nil {
		return 0, fmt.Errorf("count tower readings: %w", err)
	}
	return n, nil
}

func (r *ReadingRepository) Update(ctx context.Context, reading *domain.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": reading.ID}, reading)
	if err != nil {
		return fmt.Errorf("update reading: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReadingRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
