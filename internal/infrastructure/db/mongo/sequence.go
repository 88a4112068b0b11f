package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// nextID atomically increments and returns the sequence for the named
// collection, giving entities the integer system-assigned identifiers the API
// exposes. The upsert bootstraps the counter on first use.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	res := db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return doc.Seq, nil
}
