package handler

import (
	"errors"
	"log"
	"time"

	"wellbeing/dto"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *usecase.DashboardService
	now       func() time.Time
}

func NewDashboardHandler(dashboard *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, now: time.Now}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	dashboard, err := h.dashboard.Dashboard(c.Request.Context(), userID)
	if errors.Is(err, usecase.ErrNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		log.Printf("dashboard failed for %s: %v", userID, err)
		utils.InternalError(c, "Failed to load dashboard")
		return
	}
	utils.Success(c, dto.ToDashboardResponse(dashboard, h.now().UTC()))
}

func (h *DashboardHandler) GetUserStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	stats, err := h.dashboard.Stats(c.Request.Context(), userID)
	if errors.Is(err, usecase.ErrNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		log.Printf("stats failed for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user stats")
		return
	}
	utils.Success(c, stats)
}
