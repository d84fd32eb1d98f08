package dto

import (
	"fmt"
	"time"

	"wellbeing/model"
	"wellbeing/utils"
)

type TodoResponse struct {
	ID           string    `json:"id"`
	Task         string    `json:"task"`
	DueDate      string    `json:"due_date"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	TimeUntilDue string    `json:"time_until_due,omitempty"`
}

func ToTodoResponse(todo *model.TodoItem, today time.Time) TodoResponse {
	response := TodoResponse{
		ID:          todo.TodoID,
		Task:        todo.Task,
		DueDate:     todo.DueDate,
		IsCompleted: todo.IsCompleted,
		CreatedAt:   todo.CreatedAt,
	}
	if !todo.IsCompleted {
		response.TimeUntilDue = timeUntilDue(todo.DueDate, today)
	}
	return response
}

func ToTodoResponses(todos []*model.TodoItem, today time.Time) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, ToTodoResponse(t, today))
	}
	return out
}

func timeUntilDue(dueDate string, today time.Time) string {
	due, err := time.Parse(utils.DueDateLayout, dueDate)
	if err != nil {
		return ""
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(day).Hours() / 24)

	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}
