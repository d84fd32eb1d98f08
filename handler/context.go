package handler

import (
	"github.com/gin-gonic/gin"
)

// Redirect targets for requests that lack context or touch another user's
// data.
const (
	DashboardPath = "/api/dashboard"
	PlannerPath   = "/api/planner"
)

// currentUserID returns the id set by AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	return userID, userID != ""
}
