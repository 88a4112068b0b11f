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

const collectionCellTowers = "celltowers"

type CellTowerRepository struct {
	db *mongo.Database
}

func NewCellTowerRepository(db *mongo.Database) *CellTowerRepository {
	return &CellTowerRepository{db: db}
}

func (r *CellTowerRepository) col() *mongo.Collection {
	return r.db.Collection(collectionCellTowers)
}

// Insert assigns the next tower id and persists the row. The unique index on
// celltower_name settles concurrent creates of the same tower.
func (r *CellTowerRepository) Insert(ctx context.Context, t *domain.CellTower) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionCellTowers)
	if err != nil {
		return err
	}
	t.ID = id

	if _, err := r.col().InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: celltower name already in use", domain.ErrConflict)
		}
		return fmt.Errorf("insert celltower: %w", err)
	}
	return nil
}

func (r *CellTowerRepository) FindByID(ctx context.Context, id int64) (*domain.CellTower, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.CellTower
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find celltower: %w", err)
	}
	return &t, nil
}

func (r *CellTowerRepository) FindByName(ctx context.Context, name string) (*domain.CellTower, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.CellTower
	if err := r.col().FindOne(ctx, bson.M{"celltower_name": name}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find celltower by name: %w", err)
	}
	return &t, nil
}

func (r *CellTowerRepository) FindAll(ctx context.Context) ([]*domain.CellTower, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list celltowers: %w", err)
	}
	var towers []*domain.CellTower
	if err := cur.All(ctx, &towers); err != nil {
		return nil, fmt.Errorf("decode celltowers: %w", err)
	}
	return towers, nil
}

func (r *CellTowerRepository) Update(ctx context.Context, t *domain.CellTower) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: celltower name already in use", domain.ErrConflict)
		}
		return fmt.Errorf("update celltower: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the tower unless readings still reference it. The reference
// check and the delete share a transaction so a concurrent reading create
// cannot slip between them.
func (r *CellTowerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		n, err := r.db.Collection(collectionReadings).CountDocuments(sc, bson.M{"celltower_id": id})
		if err != nil {
			return nil, fmt.Errorf("count tower readings: %w", err)
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: celltower still referenced by %d readings", domain.ErrConflict, n)
		}

		res, err := r.db.Collection(collectionCellTowers).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete celltower: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, nil
	})
	return err
}
