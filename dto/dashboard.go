package dto

import (
	"time"

	"wellbeing/usecase"
)

type DashboardResponse struct {
	Username       string                   `json:"username"`
	IsCalibrated   bool                     `json:"is_calibrated"`
	RecentSessions []SessionSummaryResponse `json:"recent_sessions"`
	UpcomingTodos  []TodoResponse           `json:"upcoming_todos"`
	PlantHealth    int                      `json:"plant_health"`
	PlantStatus    usecase.PlantStatus      `json:"plant_status"`
}

func ToDashboardResponse(d *usecase.Dashboard, today time.Time) DashboardResponse {
	return DashboardResponse{
		Username:       d.User.Username,
		IsCalibrated:   d.User.IsCalibrated,
		RecentSessions: ToSessionSummaries(d.RecentSessions),
		UpcomingTodos:  ToTodoResponses(d.UpcomingTodos, today),
		PlantHealth:    d.Plant.Health,
		PlantStatus:    d.Plant.Status,
	}
}
