package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockCollection = "scheduler_locks"

// SchedulerLockDatabase is a coarse distributed lock so cron jobs run on
// exactly one instance when the API is scaled out.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database
// with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock claims the named lock for this instance if it is free or
// expired. A duplicate-key error means another instance holds it.
func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id": jobName,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": now}},
			{"lockedBy": instanceID},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"lockedBy":  instanceID,
			"lockedAt":  now,
			"expiresAt": now.Add(ttl),
		},
	}
	_, err := c.db.Collection(schedulerLockCollection).UpdateOne(ctx, filter, update, updateUpsert())
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func updateUpsert() *options.UpdateOptions {
	return options.Update().SetUpsert(true)
}

func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	_, err := c.db.Collection(schedulerLockCollection).UpdateOne(ctx,
		bson.M{"_id": jobName, "lockedBy": instanceID},
		bson.M{"$set": bson.M{"expiresAt": time.Now().UTC()}},
	)
	return err
}
