package repository

import (
	"context"
	"errors"
	"fmt"

	"wellbeing/model"
	"wellbeing/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UsersRepo struct {
	MongoCollection *mongo.Collection
}

func NewUsersRepo(db *mongo.Database) *UsersRepo {
	return &UsersRepo{MongoCollection: db.Collection(UsersCollection)}
}

func (r *UsersRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", UsersCollection)
	defer timer.ObserveDuration()

	if user == nil || user.UserID == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("user id and password required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("failed to add user to database: %w", err)
	}
	return nil
}

func (r *UsersRepo) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UsersRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *UsersRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UsersRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UsersRepo) update(ctx context.Context, userID string, set bson.M) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.TrackError("database", "user_update_failed")
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, userID, username, email string) error {
	return r.update(ctx, userID, bson.M{"username": username, "email": email})
}

func (r *UsersRepo) SaveCalibration(ctx context.Context, userID string, threshold float64) error {
	return r.update(ctx, userID, bson.M{
		"calibration_threshold": threshold,
		"is_calibrated":         true,
	})
}

func (r *UsersRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	return r.update(ctx, userID, bson.M{
		"two_factor_secret":  secret,
		"two_factor_enabled": enabled,
	})
}
