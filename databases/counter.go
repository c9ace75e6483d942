package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterCollection = "counters"

// CounterDatabase hands out sequential numbers for human-readable report
// numbers. Backed by an atomic $inc upsert so two concurrent creates never
// share a sequence value.
type CounterDatabase interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

// Counter is the persisted sequence document
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (c *counterDatabase) NextSequence(ctx context.Context, name string) (int64, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after).SetUpsert(true)

	var doc Counter
	err := c.db.Collection(counterCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
