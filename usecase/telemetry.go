package usecase

import (
	"context"
	"fmt"
	"time"

	"wellbeing/model"
	"wellbeing/utils"
)

// TelemetryService owns the monitoring lifecycle up to report generation:
// opening a session and folding client snapshots into it.
type TelemetryService struct {
	sessions  MonitoringStore
	snapshots SnapshotStore
	users     UserStore
	active    ActiveMonitorTracker
	now       func() time.Time
}

func NewTelemetryService(sessions MonitoringStore, snapshots SnapshotStore, users UserStore, active ActiveMonitorTracker) *TelemetryService {
	return &TelemetryService{
		sessions:  sessions,
		snapshots: snapshots,
		users:     users,
		active:    active,
		now:       time.Now,
	}
}

// MonitorStart is returned when a new monitoring session opens.
type MonitorStart struct {
	Session   *model.MonitoringSession
	Threshold float64
}

// StartSession opens a monitoring session and makes it the caller's active
// one. A previously active session is simply superseded.
func (s *TelemetryService) StartSession(ctx context.Context, userID, userAgent string) (*MonitorStart, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	session := &model.MonitoringSession{
		SessionID: utils.NewID(),
		UserID:    userID,
		StartTime: s.now().UTC(),
		Device:    utils.DeviceLabel(userAgent),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create monitoring session: %w", err)
	}
	if err := s.active.SetActive(ctx, userID, session.SessionID); err != nil {
		return nil, fmt.Errorf("failed to mark session active: %w", err)
	}

	threshold := user.CalibrationThreshold
	if threshold == 0 {
		threshold = model.DefaultCalibrationThreshold
	}
	return &MonitorStart{Session: session, Threshold: threshold}, nil
}

// ActiveSession resolves the caller's active session. It returns
// ErrNoActiveSession when the marker is missing or points at a record the
// caller does not own.
func (s *TelemetryService) ActiveSession(ctx context.Context, userID string) (*model.MonitoringSession, error) {
	sessionID, err := s.active.Active(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read active session: %w", err)
	}
	if sessionID == "" {
		return nil, ErrNoActiveSession
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monitoring session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// Ingest overwrites the session's running counters with the payload and
// appends one snapshot. Counters are cumulative on the client, so the last
// write wins.
func (s *TelemetryService) Ingest(ctx context.Context, userID string, payload model.TelemetryPayload) error {
	session, err := s.ActiveSession(ctx, userID)
	if err != nil {
		return err
	}
	if session.Ended() {
		return ErrSessionEnded
	}

	summary := model.SessionSummary{
		TotalBlinks:      payload.Blinks,
		KeyboardActivity: payload.Keys,
		MouseActivity:    payload.Mouse,
		AvgEAR:           payload.SessionAvgEAR,
	}
	if err := s.sessions.UpdateSummary(ctx, session.SessionID, summary); err != nil {
		return fmt.Errorf("failed to update session summary: %w", err)
	}

	point := &model.SessionData{
		ID:                 utils.NewID(),
		SessionID:          session.SessionID,
		Timestamp:          s.now().UTC(),
		EARValue:           payload.CurrentEAR,
		BlinkCountSnapshot: payload.Blinks,
		DetectedEmotion:    payload.EmotionLabel(),
		StressScore:        0,
	}
	if err := s.snapshots.AppendSnapshot(ctx, point); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}
