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

const (
	collectionUsers    = "users"
	collectionDevices  = "devices"
	collectionReadings = "readings"
)

type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) col() *mongo.Collection {
	return r.db.Collection(collectionUsers)
}

// Insert assigns the next user id and persists the row. The unique index on
// email is the final arbiter for concurrent registrations: a duplicate-key
// failure at commit time surfaces as Conflict, never as a raw driver error.
func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionUsers)
	if err != nil {
		return err
	}
	u.ID = id

	if _, err := r.col().InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col().FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user together with all owned devices and their readings
// in a single transaction, so a crash mid-cascade never leaves partial state.
func (r *UserRepository) Delete(ctx context.Context, id int64) (ports.CascadeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return ports.CascadeResult{}, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cur, err := r.db.Collection(collectionDevices).Find(sc, bson.M{"user_id": id})
		if err != nil {
			return nil, fmt.Errorf("find owned devices: %w", err)
		}
		var devices []domain.Device
		if err := cur.All(sc, &devices); err != nil {
			return nil, fmt.Errorf("decode owned devices: %w", err)
		}

		var cascade ports.CascadeResult
		if len(devices) > 0 {
			deviceIDs := make([]int64, len(devices))
			for i, d := range devices {
				deviceIDs[i] = d.ID
			}
			readingsRes, err := r.db.Collection(collectionReadings).DeleteMany(sc, bson.M{"device_id": bson.M{"$in": deviceIDs}})
			if err != nil {
				return nil, fmt.Errorf("cascade readings: %w", err)
			}
			cascade.Readings = readingsRes.DeletedCount

			devicesRes, err := r.db.Collection(collectionDevices).DeleteMany(sc, bson.M{"user_id": id})
			if err != nil {
				return nil, fmt.Errorf("cascade devices: %w", err)
			}
			cascade.Devices = devicesRes.DeletedCount
		}

		userRes, err := r.db.Collection(collectionUsers).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}
		if userRes.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return cascade, nil
	})
	if err != nil {
		return ports.CascadeResult{}, err
	}

	cascade := result.(ports.CascadeResult)
	metrics.CascadeDeletesTotal.WithLabelValues("devices").Add(float64(cascade.Devices))
	metrics.CascadeDeletesTotal.WithLabelValues("readings").Add(float64(cascade.Readings))
	return cascade, nil
}
