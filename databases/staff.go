package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayos-surigao/ayos-api/models"
)

const staffCollection = "staff"

// StaffDatabase contains the methods to use with the staff collection
type StaffDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.OperationsStaff, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OperationsStaff, error)
	InsertOne(ctx context.Context, staff models.OperationsStaff) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
}

type staffDatabase struct {
	db DatabaseHelper
}

// NewStaffDatabase initializes a new instance of staff database with the provided db connection
func NewStaffDatabase(db DatabaseHelper) StaffDatabase {
	return &staffDatabase{
		db: db,
	}
}

func (c *staffDatabase) FindOne(ctx context.Context, filter interface{}) (*models.OperationsStaff, error) {
	staff := &models.OperationsStaff{}
	err := c.db.Collection(staffCollection).FindOne(ctx, filter).Decode(&staff)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *staffDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OperationsStaff, error) {
	cursor, err := c.db.Collection(staffCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var staff []models.OperationsStaff
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *staffDatabase) InsertOne(ctx context.Context, staff models.OperationsStaff) (interface{}, error) {
	return c.db.Collection(staffCollection).InsertOne(ctx, staff)
}

func (c *staffDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	return c.db.Collection(staffCollection).UpdateOne(ctx, filter, update)
}
