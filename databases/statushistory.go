package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayos-surigao/ayos-api/models"
)

const statusHistoryCollection = "status_history"

// StatusHistoryDatabase contains the methods to use with the status history
// collection. The collection is append-only; there is deliberately no
// update or delete here.
type StatusHistoryDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusHistoryEntry, error)
	InsertOne(ctx context.Context, entry models.StatusHistoryEntry) (interface{}, error)
}

type statusHistoryDatabase struct {
	db DatabaseHelper
}

// NewStatusHistoryDatabase initializes a new instance of status history database
// with the provided db connection
func NewStatusHistoryDatabase(db DatabaseHelper) StatusHistoryDatabase {
	return &statusHistoryDatabase{
		db: db,
	}
}

func (c *statusHistoryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusHistoryEntry, error) {
	cursor, err := c.db.Collection(statusHistoryCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var entries []models.StatusHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *statusHistoryDatabase) InsertOne(ctx context.Context, entry models.StatusHistoryEntry) (interface{}, error) {
	return c.db.Collection(statusHistoryCollection).InsertOne(ctx, entry)
}
