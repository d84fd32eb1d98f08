package handler

import (
	"log"

	"wellbeing/dto"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	logins *usecase.LoginSessionService
}

func NewSessionHandler(logins *usecase.LoginSessionService) *SessionHandler {
	return &SessionHandler{logins: logins}
}

func (h *SessionHandler) GetActiveSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	sessions, err := h.logins.Active(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to list sessions: %v", err)
		utils.InternalError(c, "Failed to list sessions")
		return
	}
	utils.Success(c, gin.H{
		"sessions": dto.ToLoginSessionResponses(sessions, c.GetString("session_id")),
	})
}

func (h *SessionHandler) LogoutAllSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.logins.EndAll(c.Request.Context(), userID); err != nil {
		log.Printf("failed to end sessions for %s: %v", userID, err)
		utils.InternalError(c, "Failed to end sessions")
		return
	}
	utils.Success(c, gin.H{"message": "All sessions ended"})
}
