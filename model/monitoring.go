package model

import "time"

// NeutralEmotion is the label used when a client reports no emotion.
const NeutralEmotion = "Neutral"

// MonitoringSession is the summary record of one monitoring interval.
// Counters hold the latest cumulative values reported by the client.
type MonitoringSession struct {
	SessionID        string     `bson:"_id" json:"id"`
	UserID           string     `bson:"user_id" json:"user_id"`
	StartTime        time.Time  `bson:"start_time" json:"start_time"`
	EndTime          *time.Time `bson:"end_time" json:"end_time,omitempty"`
	TotalBlinks      int        `bson:"total_blinks" json:"total_blinks"`
	AvgEAR           float64    `bson:"avg_ear" json:"avg_ear"`
	AvgStressScore   float64    `bson:"avg_stress_score" json:"avg_stress_score"`
	KeyboardActivity int        `bson:"keyboard_activity" json:"keyboard_activity"`
	MouseActivity    int        `bson:"mouse_activity" json:"mouse_activity"`
	Report           *string    `bson:"report,omitempty" json:"report,omitempty"`
	Device           string     `bson:"device,omitempty" json:"device,omitempty"`
}

func (s *MonitoringSession) Ended() bool {
	return s.EndTime != nil
}

// SessionSummary is the overwrite applied by each telemetry update.
type SessionSummary struct {
	TotalBlinks      int
	KeyboardActivity int
	MouseActivity    int
	AvgEAR           float64
}

// SessionData is one immutable telemetry snapshot.
type SessionData struct {
	ID                 string    `bson:"_id" json:"id"`
	SessionID          string    `bson:"session_id" json:"session_id"`
	Timestamp          time.Time `bson:"timestamp" json:"timestamp"`
	EARValue           float64   `bson:"ear_value" json:"ear_value"`
	BlinkCountSnapshot int       `bson:"blink_count_snapshot" json:"blink_count_snapshot"`
	DetectedEmotion    string    `bson:"detected_emotion" json:"detected_emotion"`
	StressScore        float64   `bson:"stress_score" json:"stress_score"`
}

// TelemetryPayload is what the webcam client posts every few seconds.
// Emotion is a pointer so an absent field can default to Neutral while an
// explicit empty string is stored as-is.
type TelemetryPayload struct {
	Blinks        int     `json:"blinks" binding:"min=0"`
	Keys          int     `json:"keys" binding:"min=0"`
	Mouse         int     `json:"mouse" binding:"min=0"`
	Emotion       *string `json:"emotion"`
	SessionAvgEAR float64 `json:"session_avg_ear"`
	CurrentEAR    float64 `json:"current_ear"`
}

func (p TelemetryPayload) EmotionLabel() string {
	if p.Emotion == nil {
		return NeutralEmotion
	}
	return *p.Emotion
}

type CalibrationRequest struct {
	Threshold *float64 `json:"threshold"`
}

type ChatRequest struct {
	Message string `json:"message"`
}
