package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayos-surigao/ayos-api/models"
)

const reportCollection = "reports"

// ReportDatabase contains the methods to use with the report collection
type ReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Report, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Report, error)
	InsertOne(ctx context.Context, report models.Report) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Report, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type reportDatabase struct {
	db DatabaseHelper
}

// NewReportDatabase initializes a new instance of report database with the provided db connection
func NewReportDatabase(db DatabaseHelper) ReportDatabase {
	return &reportDatabase{
		db: db,
	}
}

func (c *reportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Report, error) {
	report := &models.Report{}
	err := c.db.Collection(reportCollection).FindOne(ctx, filter).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *reportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Report, error) {
	cursor, err := c.db.Collection(reportCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *reportDatabase) InsertOne(ctx context.Context, report models.Report) (interface{}, error) {
	return c.db.Collection(reportCollection).InsertOne(ctx, report)
}

func (c *reportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	return c.db.Collection(reportCollection).UpdateOne(ctx, filter, update)
}

// FindOneAndUpdate performs the conditional update used for optimistic
// concurrency: the filter includes the status the caller read, and a
// mongo.ErrNoDocuments result means another writer got there first.
// Returns the post-update document.
func (c *reportDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Report, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	report := &models.Report{}
	err := c.db.Collection(reportCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *reportDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(reportCollection).CountDocuments(ctx, filter)
}
