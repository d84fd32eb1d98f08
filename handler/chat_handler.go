package handler

import (
	"errors"
	"log"
	"net/http"

	"wellbeing/model"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *usecase.ChatService
}

func NewChatHandler(chat *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatWithCoach always answers {"reply": ...}; generation problems are
// reported inside the reply.
func (h *ChatHandler) ChatWithCoach(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), userID, req.Message)
	switch {
	case errors.Is(err, usecase.ErrEmptyMessage):
		utils.BadRequest(c, "Message is required")
		return
	case err != nil:
		log.Printf("coach chat failed for %s: %v", userID, err)
		reply = "AI Error: " + err.Error()
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
