package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// indexes on users.email and celltowers.celltower_name are the final arbiter
// for duplicate detection; the service-level pre-checks only improve error
// messages under no contention.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collectionDevices: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionReadings: {
			{Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "celltower_id", Value: 1}}},
			{
				Keys: bson.D{{Key: "idempotency_key", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$gt": ""}}),
			},
		},
		collectionCellTowers: {
			{
				Keys:    bson.D{{Key: "celltower_name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
