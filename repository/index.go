package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique").SetUnique(true),
			},
		},
		MonitoringCollection: {
			// History and dashboard listings
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "start_time", Value: -1},
				},
				Options: options.Index().SetName("user_sessions_start"),
			},
		},
		SessionDataCollection: {
			{
				Keys: bson.D{
					{Key: "session_id", Value: 1},
					{Key: "timestamp", Value: 1},
				},
				Options: options.Index().SetName("session_timeline"),
			},
		},
		TodosCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_completed", Value: 1},
					{Key: "due_date", Value: 1},
				},
				Options: options.Index().SetName("user_todos_due"),
			},
		},
		LoginSessionsCollection: {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetName("session_id_unique").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_active", Value: 1},
					{Key: "last_activity_at", Value: -1},
				},
				Options: options.Index().SetName("user_active_sessions"),
			},
			// Expired login sessions are removed by the TTL monitor.
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("session_expiry").SetExpireAfterSeconds(0),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}

	log.Println("Successfully created all indexes")
	return nil
}
