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

type TodosRepo struct {
	MongoCollection *mongo.Collection
}

func NewTodosRepo(db *mongo.Database) *TodosRepo {
	return &TodosRepo{MongoCollection: db.Collection(TodosCollection)}
}

func (r *TodosRepo) CreateTodo(ctx context.Context, todo *model.TodoItem) error {
	timer := utils.TrackDBOperation("insert", TodosCollection)
	defer timer.ObserveDuration()

	if todo == nil || todo.TodoID == "" || todo.UserID == "" {
		utils.TrackError("database", "invalid_todo")
		return errors.New("invalid todo: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, todo); err != nil {
		utils.TrackError("database", "todo_creation_failed")
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (r *TodosRepo) GetTodo(ctx context.Context, todoID string) (*model.TodoItem, error) {
	timer := utils.TrackDBOperation("find", TodosCollection)
	defer timer.ObserveDuration()

	var todo model.TodoItem
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": todoID}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackError("database", "todo_fetch_failed")
		return nil, fmt.Errorf("failed to fetch todo: %w", err)
	}
	return &todo, nil
}

// ListUserTodos sorts on the YYYY-MM-DD string, which orders the same as
// the dates themselves.
func (r *TodosRepo) ListUserTodos(ctx context.Context, userID string, pendingOnly bool, limit int64) ([]*model.TodoItem, error) {
	timer := utils.TrackDBOperation("find", TodosCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	if pendingOnly {
		filter["is_completed"] = false
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "due_date", Value: 1},
		{Key: "created_at", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "todo_list_failed")
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer cursor.Close(ctx)

	todos := []*model.TodoItem{}
	if err := cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}
	return todos, nil
}

func (r *TodosRepo) SetCompleted(ctx context.Context, todoID string, completed bool) error {
	timer := utils.TrackDBOperation("update", TodosCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": todoID},
		bson.M{"$set": bson.M{"is_completed": completed}},
	)
	if err != nil {
		utils.TrackError("database", "todo_update_failed")
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("todo not found")
	}
	return nil
}

func (r *TodosRepo) DeleteTodo(ctx context.Context, todoID string) error {
	timer := utils.TrackDBOperation("delete", TodosCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": todoID})
	if err != nil {
		utils.TrackError("database", "todo_deletion_failed")
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.DeletedCount == 0 {
		return errors.New("todo not found")
	}
	return nil
}
