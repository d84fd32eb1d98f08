package dto

import (
	"time"

	"wellbeing/model"
	"wellbeing/usecase"
)

type SessionSummaryResponse struct {
	ID               string     `json:"id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TotalBlinks      int        `json:"total_blinks"`
	AvgEAR           float64    `json:"avg_ear"`
	KeyboardActivity int        `json:"keyboard_activity"`
	MouseActivity    int        `json:"mouse_activity"`
	Device           string     `json:"device,omitempty"`
	HasReport        bool       `json:"has_report"`
}

func ToSessionSummary(s *model.MonitoringSession) SessionSummaryResponse {
	return SessionSummaryResponse{
		ID:               s.SessionID,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		TotalBlinks:      s.TotalBlinks,
		AvgEAR:           s.AvgEAR,
		KeyboardActivity: s.KeyboardActivity,
		MouseActivity:    s.MouseActivity,
		Device:           s.Device,
		HasReport:        s.Report != nil,
	}
}

func ToSessionSummaries(sessions []*model.MonitoringSession) []SessionSummaryResponse {
	out := make([]SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionSummary(s))
	}
	return out
}

type MonitorStartResponse struct {
	SessionID string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	Threshold float64   `json:"threshold"`
}

type ReportResponse struct {
	Session         SessionSummaryResponse `json:"session"`
	ReportHTML      string                 `json:"report_html"`
	Chart           usecase.ChartSeries    `json:"chart"`
	DurationMinutes float64                `json:"duration_minutes"`
	BlinkRate       float64                `json:"blink_rate"`
	DominantEmotion string                 `json:"dominant_emotion"`
	Emotions        map[string]int         `json:"emotions"`
	Activity        usecase.ActivityLevel  `json:"activity_level"`
}

func ToReportResponse(r *usecase.Report) ReportResponse {
	return ReportResponse{
		Session:         ToSessionSummary(r.Session),
		ReportHTML:      r.HTML,
		Chart:           r.Chart,
		DurationMinutes: r.DurationMinutes,
		BlinkRate:       r.BlinkRate,
		DominantEmotion: r.Emotions.Dominant,
		Emotions:        r.Emotions.Breakdown(),
		Activity:        r.Activity,
	}
}
