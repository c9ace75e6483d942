package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayos-surigao/ayos-api/models"
)

const commentCollection = "comments"

// CommentDatabase contains the methods to use with the comment collection
type CommentDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error)
	InsertOne(ctx context.Context, comment models.Comment) (interface{}, error)
}

type commentDatabase struct {
	db DatabaseHelper
}

// NewCommentDatabase initializes a new instance of comment database with the provided db connection
func NewCommentDatabase(db DatabaseHelper) CommentDatabase {
	return &commentDatabase{
		db: db,
	}
}

func (c *commentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error) {
	cursor, err := c.db.Collection(commentCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *commentDatabase) InsertOne(ctx context.Context, comment models.Comment) (interface{}, error) {
	return c.db.Collection(commentCollection).InsertOne(ctx, comment)
}
