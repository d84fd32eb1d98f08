package repository

import (
	"context"
	"errors"
	"fmt"

	"wellbeing/model"
	"wellbeing/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SnapshotRepo is append-only; snapshots are never updated or deleted.
type SnapshotRepo struct {
	MongoCollection *mongo.Collection
}

func NewSnapshotRepo(db *mongo.Database) *SnapshotRepo {
	return &SnapshotRepo{MongoCollection: db.Collection(SessionDataCollection)}
}

func (r *SnapshotRepo) AppendSnapshot(ctx context.Context, point *model.SessionData) error {
	timer := utils.TrackDBOperation("insert", SessionDataCollection)
	defer timer.ObserveDuration()

	if point == nil || point.ID == "" || point.SessionID == "" {
		utils.TrackError("database", "invalid_snapshot")
		return errors.New("invalid snapshot: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, point); err != nil {
		utils.TrackError("database", "snapshot_insert_failed")
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) ListSnapshots(ctx context.Context, sessionID string) ([]*model.SessionData, error) {
	timer := utils.TrackDBOperation("find", SessionDataCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		utils.TrackError("database", "snapshot_list_failed")
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	points := []*model.SessionData{}
	if err := cursor.All(ctx, &points); err != nil {
		utils.TrackError("database", "snapshot_decode_failed")
		return nil, fmt.Errorf("failed to decode snapshots: %w", err)
	}
	return points, nil
}
