package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellbeing/model"
	"wellbeing/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MonitoringRepo struct {
	MongoCollection *mongo.Collection
}

func NewMonitoringRepo(db *mongo.Database) *MonitoringRepo {
	return &MonitoringRepo{MongoCollection: db.Collection(MonitoringCollection)}
}

func (r *MonitoringRepo) CreateSession(ctx context.Context, session *model.MonitoringSession) error {
	timer := utils.TrackDBOperation("insert", MonitoringCollection)
	defer timer.ObserveDuration()

	if session == nil || session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_monitoring_session")
		return errors.New("invalid monitoring session: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "monitoring_session_creation_failed")
		return fmt.Errorf("failed to create monitoring session: %w", err)
	}
	return nil
}

func (r *MonitoringRepo) GetSession(ctx context.Context, sessionID string) (*model.MonitoringSession, error) {
	timer := utils.TrackDBOperation("find", MonitoringCollection)
	defer timer.ObserveDuration()

	var session model.MonitoringSession
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackError("database", "monitoring_session_fetch_failed")
		return nil, fmt.Errorf("failed to fetch monitoring session: %w", err)
	}
	return &session, nil
}

func (r *MonitoringRepo) UpdateSummary(ctx context.Context, sessionID string, summary model.SessionSummary) error {
	timer := utils.TrackDBOperation("update", MonitoringCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{
			"total_blinks":      summary.TotalBlinks,
			"keyboard_activity": summary.KeyboardActivity,
			"mouse_activity":    summary.MouseActivity,
			"avg_ear":           summary.AvgEAR,
		}},
	)
	if err != nil {
		utils.TrackError("database", "monitoring_summary_update_failed")
		return fmt.Errorf("failed to update monitoring session: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("monitoring session not found")
	}
	return nil
}

// MarkEnded only matches while end_time is still null, so a second call
// leaves the first timestamp in place.
func (r *MonitoringRepo) MarkEnded(ctx context.Context, sessionID string, at time.Time) (*model.MonitoringSession, error) {
	timer := utils.TrackDBOperation("update", MonitoringCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": sessionID, "end_time": nil},
		bson.M{"$set": bson.M{"end_time": at}},
	)
	if err != nil {
		utils.TrackError("database", "monitoring_end_failed")
		return nil, fmt.Errorf("failed to end monitoring session: %w", err)
	}
	return r.GetSession(ctx, sessionID)
}

func (r *MonitoringRepo) SaveReport(ctx context.Context, sessionID, report string) error {
	timer := utils.TrackDBOperation("update", MonitoringCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{"report": report}},
	)
	if err != nil {
		utils.TrackError("database", "report_save_failed")
		return fmt.Errorf("failed to save report: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("monitoring session not found")
	}
	return nil
}

func (r *MonitoringRepo) ListUserSessions(ctx context.Context, userID string, limit int64) ([]*model.MonitoringSession, error) {
	timer := utils.TrackDBOperation("find", MonitoringCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "monitoring_list_failed")
		return nil, fmt.Errorf("failed to list monitoring sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []*model.MonitoringSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		utils.TrackError("database", "monitoring_decode_failed")
		return nil, fmt.Errorf("failed to decode monitoring sessions: %w", err)
	}
	return sessions, nil
}
