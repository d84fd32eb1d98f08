package handler

import (
	"errors"
	"log"
	"net/http"

	"wellbeing/dto"
	"wellbeing/model"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type MonitorHandler struct {
	users     *usecase.UserService
	telemetry *usecase.TelemetryService
	reports   *usecase.ReportService
}

func NewMonitorHandler(users *usecase.UserService, telemetry *usecase.TelemetryService, reports *usecase.ReportService) *MonitorHandler {
	return &MonitorHandler{users: users, telemetry: telemetry, reports: reports}
}

// SaveCalibration answers with the bare status body the calibration page
// script reads.
func (h *MonitorHandler) SaveCalibration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.StatusOnly(c, http.StatusUnauthorized, "error")
		return
	}

	var req model.CalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.StatusOnly(c, http.StatusBadRequest, "error")
		return
	}

	if err := h.users.SaveCalibration(c.Request.Context(), userID, req.Threshold); err != nil {
		if !errors.Is(err, usecase.ErrInvalidThreshold) {
			log.Printf("calibration save failed for %s: %v", userID, err)
		}
		utils.StatusOnly(c, http.StatusBadRequest, "error")
		return
	}
	utils.StatusOnly(c, http.StatusOK, "saved")
}

func (h *MonitorHandler) StartMonitor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	start, err := h.telemetry.StartSession(c.Request.Context(), userID, c.Request.UserAgent())
	if errors.Is(err, usecase.ErrNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		log.Printf("failed to start monitoring for %s: %v", userID, err)
		utils.InternalError(c, "Failed to start monitoring")
		return
	}
	utils.Created(c, dto.MonitorStartResponse{
		SessionID: start.Session.SessionID,
		StartTime: start.Session.StartTime,
		Threshold: start.Threshold,
	})
}

// UpdateSession is the polling telemetry endpoint.
func (h *MonitorHandler) UpdateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.StatusOnly(c, http.StatusBadRequest, "error")
		return
	}

	var payload model.TelemetryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.TrackTelemetry("http", "invalid")
		utils.StatusOnly(c, http.StatusBadRequest, "error")
		return
	}

	if err := h.telemetry.Ingest(c.Request.Context(), userID, payload); err != nil {
		if !errors.Is(err, usecase.ErrNoActiveSession) && !errors.Is(err, usecase.ErrSessionEnded) {
			log.Printf("telemetry ingest failed for %s: %v", userID, err)
		}
		utils.TrackTelemetry("http", "error")
		utils.StatusOnly(c, http.StatusBadRequest, "error")
		return
	}
	utils.TrackTelemetry("http", "success")
	utils.StatusOnly(c, http.StatusOK, "success")
}

func (h *MonitorHandler) GenerateReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RedirectTo(c, DashboardPath)
		return
	}

	report, err := h.reports.GenerateReport(c.Request.Context(), userID)
	if errors.Is(err, usecase.ErrNoActiveSession) {
		utils.RedirectTo(c, DashboardPath)
		return
	}
	if err != nil {
		log.Printf("report generation failed for %s: %v", userID, err)
		utils.InternalError(c, "Failed to generate report")
		return
	}
	utils.Success(c, dto.ToReportResponse(report))
}

// ViewReport never reveals whether another user's session exists; it just
// sends the caller back to their dashboard.
func (h *MonitorHandler) ViewReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RedirectTo(c, DashboardPath)
		return
	}

	report, err := h.reports.ViewReport(c.Request.Context(), userID, c.Param("id"))
	switch {
	case errors.Is(err, usecase.ErrNotOwner):
		utils.RedirectTo(c, DashboardPath)
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "Session not found")
	case err != nil:
		log.Printf("report lookup failed: %v", err)
		utils.InternalError(c, "Failed to load report")
	default:
		utils.Success(c, dto.ToReportResponse(report))
	}
}

func (h *MonitorHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	sessions, err := h.reports.History(c.Request.Context(), userID)
	if err != nil {
		log.Printf("history lookup failed for %s: %v", userID, err)
		utils.InternalError(c, "Failed to load history")
		return
	}
	utils.Success(c, gin.H{"sessions": dto.ToSessionSummaries(sessions)})
}
