package model

import "time"

type TodoItem struct {
	TodoID      string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Task        string    `bson:"task" json:"task"`
	DueDate     string    `bson:"due_date" json:"due_date"` // YYYY-MM-DD
	IsCompleted bool      `bson:"is_completed" json:"is_completed"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type TodoRequest struct {
	Task    string `json:"task" form:"task"`
	DueDate string `json:"due_date" form:"due_date" binding:"omitempty,duedate"`
}
