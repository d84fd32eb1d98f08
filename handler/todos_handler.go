package handler

import (
	"errors"
	"log"
	"time"

	"wellbeing/dto"
	"wellbeing/model"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	service *usecase.TodosService
	now     func() time.Time
}

func NewTodoHandler(service *usecase.TodosService) *TodoHandler {
	return &TodoHandler{service: service, now: time.Now}
}

func (h *TodoHandler) GetTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.GetUserTodos(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to list todos for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch todos")
		return
	}
	utils.Success(c, gin.H{"todos": dto.ToTodoResponses(todos, h.now().UTC())})
}

// CreateTodo accepts JSON or form posts. Incomplete input adds nothing and
// sends the caller back to the list.
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req model.TodoRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RedirectTo(c, PlannerPath)
		return
	}

	todo, err := h.service.CreateTodo(c.Request.Context(), userID, req)
	if errors.Is(err, usecase.ErrInvalidTodo) {
		utils.RedirectTo(c, PlannerPath)
		return
	}
	if err != nil {
		log.Printf("failed to create todo for %s: %v", userID, err)
		utils.InternalError(c, "Failed to create todo")
		return
	}
	utils.Created(c, dto.ToTodoResponse(todo, h.now().UTC()))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	err := h.service.DeleteTodo(c.Request.Context(), userID, c.Param("id"))
	if h.handleOwnershipError(c, err) {
		return
	}
	utils.Success(c, gin.H{"message": "Todo deleted"})
}

func (h *TodoHandler) ToggleTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todo, err := h.service.ToggleTodo(c.Request.Context(), userID, c.Param("id"))
	if h.handleOwnershipError(c, err) {
		return
	}
	utils.Success(c, dto.ToTodoResponse(todo, h.now().UTC()))
}

// handleOwnershipError writes the response for a failed item operation and
// reports whether it did.
func (h *TodoHandler) handleOwnershipError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, usecase.ErrNotOwner):
		utils.RedirectTo(c, PlannerPath)
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "Todo not found")
	default:
		log.Printf("todo operation failed: %v", err)
		utils.InternalError(c, "Todo operation failed")
	}
	return true
}
