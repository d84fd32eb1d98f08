package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wellbeing/model"
	"wellbeing/services"
	"wellbeing/utils"
)

// Report is a finished (or previously finished) session with everything
// the report page renders.
type Report struct {
	Session         *model.MonitoringSession
	HTML            string
	Chart           ChartSeries
	DurationMinutes float64
	BlinkRate       float64
	Emotions        EmotionSummary
	Activity        ActivityLevel
}

type ReportService struct {
	telemetry *TelemetryService
	sessions  MonitoringStore
	snapshots SnapshotStore
	active    ActiveMonitorTracker
	generator TextGenerator
	now       func() time.Time
}

func NewReportService(telemetry *TelemetryService, sessions MonitoringStore, snapshots SnapshotStore, active ActiveMonitorTracker, generator TextGenerator) *ReportService {
	return &ReportService{
		telemetry: telemetry,
		sessions:  sessions,
		snapshots: snapshots,
		active:    active,
		generator: generator,
		now:       time.Now,
	}
}

// GenerateReport ends the caller's active session and stores an AI written
// report for it. Generation failures are recorded as an error fragment in
// place of the report; the session is ended either way.
func (s *ReportService) GenerateReport(ctx context.Context, userID string) (*Report, error) {
	active, err := s.telemetry.ActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.MarkEnded(ctx, active.SessionID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to end monitoring session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	points, err := s.snapshots.ListSnapshots(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshots: %w", err)
	}

	report := assembleReport(session, points)
	prompt := BuildReportPrompt(ReportInput{
		DurationMinutes: report.DurationMinutes,
		TotalBlinks:     session.TotalBlinks,
		BlinkRate:       report.BlinkRate,
		AvgEAR:          session.AvgEAR,
		Emotions:        report.Emotions,
		Activity:        report.Activity,
		TotalKeys:       session.KeyboardActivity,
		TotalMouse:      session.MouseActivity,
	})

	status := "success"
	text, err := s.generator.GenerateText(ctx, prompt)
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		status = "missing_key"
		report.HTML = missingKeyFragment
	case err != nil:
		status = "error"
		log.Printf("report generation failed for session %s: %v", session.SessionID, err)
		report.HTML = reportErrorFragment(err)
	default:
		report.HTML = services.FormatReportHTML(text)
	}
	utils.TrackReport(status)

	if err := s.sessions.SaveReport(ctx, session.SessionID, report.HTML); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	stored := report.HTML
	session.Report = &stored

	if err := s.active.Clear(ctx, userID); err != nil {
		log.Printf("failed to clear active session for user %s: %v", userID, err)
	}
	return report, nil
}

// ViewReport loads a past session report for its owner.
func (s *ReportService) ViewReport(ctx context.Context, userID, sessionID string) (*Report, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monitoring session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.UserID != userID {
		return nil, ErrNotOwner
	}

	points, err := s.snapshots.ListSnapshots(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshots: %w", err)
	}

	report := assembleReport(session, points)
	if session.Report != nil {
		report.HTML = *session.Report
	}
	return report, nil
}

// History lists every session of the user, newest first.
func (s *ReportService) History(ctx context.Context, userID string) ([]*model.MonitoringSession, error) {
	sessions, err := s.sessions.ListUserSessions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func assembleReport(session *model.MonitoringSession, points []*model.SessionData) *Report {
	end := session.StartTime
	if session.EndTime != nil {
		end = *session.EndTime
	}
	duration := SessionDurationMinutes(session.StartTime, end)

	return &Report{
		Session:         session,
		Chart:           BuildChart(points),
		DurationMinutes: duration,
		BlinkRate:       BlinkRate(session.TotalBlinks, duration),
		Emotions:        SummarizeEmotions(points),
		Activity:        ClassifyActivity(session.KeyboardActivity, session.MouseActivity),
	}
}
