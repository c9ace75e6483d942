package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment holds the structure for the comments collection in mongo.
// Internal comments are operator-only notes and are filtered out of
// reporter-facing responses.
type Comment struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReportID   primitive.ObjectID `json:"reportId" bson:"reportId"`
	AuthorID   string             `json:"authorId" bson:"authorId"`
	AuthorName string             `json:"authorName,omitempty" bson:"authorName,omitempty"`
	Body       string             `json:"body" bson:"body"`
	IsInternal bool               `json:"isInternal" bson:"isInternal"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
