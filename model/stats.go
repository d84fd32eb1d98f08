package model

type UserStats struct {
	MonitoringStats struct {
		TotalSessions int     `json:"total_sessions"`
		TotalBlinks   int     `json:"total_blinks"`
		AvgBlinks     float64 `json:"avg_blinks"`
		Reports       int     `json:"reports"`
	} `json:"monitoring_stats"`
	TodoStats struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
	} `json:"todo_stats"`
	ActivityStats struct {
		CalibrationThreshold float64 `json:"calibration_threshold"`
		IsCalibrated         bool    `json:"is_calibrated"`
		ActiveLogins         int     `json:"active_logins"`
	} `json:"activity_stats"`
}
