package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/signaltracker/tracker-api/internal/api/metrics"
	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

type DeviceRepository struct {
	db *mongo.Database
}

func NewDeviceRepository(db *mongo.Database) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) col() *mongo.Collection {
	return r.db.Collection(collectionDevices)
}

func (r *DeviceRepository) Insert(ctx context.Context, d *domain.Device) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionDevices)
	if err != nil {
		return err
	}
	d.ID = id

	if _, err := r.col().InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) FindByID(ctx context.Context, id int64) (*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Device
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &d, nil
}

func (r *DeviceRepository) FindAll(ctx context.Context) ([]*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	var devices []*domain.Device
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	return devices, nil
}

func (r *DeviceRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col().Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list user devices: %w", err)
	}
	var devices []*domain.Device
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("decode user devices: %w", err)
	}
	return devices, nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domain.Device) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the device and its readings in one transaction.
func (r *DeviceRepository) Delete(ctx context.Context, id int64) (ports.CascadeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return ports.CascadeResult{}, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		readingsRes, err := r.db.Collection(collectionReadings).DeleteMany(sc, bson.M{"device_id": id})
		if err != nil {
			return nil, fmt.Errorf("cascade readings: %w", err)
		}

		deviceRes, err := r.db.Collection(collectionDevices).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete device: %w", err)
		}
		if deviceRes.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return ports.CascadeResult{Readings: readingsRes.DeletedCount}, nil
	})
	if err != nil {
		return ports.CascadeResult{}, err
	}

	cascade := result.(ports.CascadeResult)
	metrics.CascadeDeletesTotal.WithLabelValues("readings").Add(float64(cascade.Readings))
	return cascade, nil
}
