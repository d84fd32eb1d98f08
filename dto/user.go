package dto

import (
	"time"

	"wellbeing/model"
)

type UserLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

type UserProfileResponse struct {
	UserID               string              `json:"user_id"`
	Username             string              `json:"username"`
	Email                string              `json:"email"`
	CreatedAt            time.Time           `json:"created_at"`
	ConsentSignature     string              `json:"consent_signature"`
	ConsentDate          time.Time           `json:"consent_date"`
	CalibrationThreshold float64             `json:"calibration_threshold"`
	IsCalibrated         bool                `json:"is_calibrated"`
	TwoFactorEnabled     bool                `json:"two_factor_enabled"`
	Links                map[string]UserLink `json:"_links,omitempty"`
}

func ToUserProfileResponse(user *model.User, links map[string]UserLink) UserProfileResponse {
	return UserProfileResponse{
		UserID:               user.UserID,
		Username:             user.Username,
		Email:                user.Email,
		CreatedAt:            user.CreatedAt,
		ConsentSignature:     user.ConsentSignature,
		ConsentDate:          user.ConsentDate,
		CalibrationThreshold: user.CalibrationThreshold,
		IsCalibrated:         user.IsCalibrated,
		TwoFactorEnabled:     user.TwoFactorEnabled,
		Links:                links,
	}
}

// ProfileLinks points a freshly authenticated client at its next steps.
func ProfileLinks() map[string]UserLink {
	return map[string]UserLink{
		"self":        {Href: "/api/user/profile", Method: "GET"},
		"calibration": {Href: "/api/save_calibration", Method: "POST"},
		"dashboard":   {Href: "/api/dashboard", Method: "GET"},
		"monitor":     {Href: "/api/monitor/start", Method: "POST"},
	}
}

type AuthResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	TokenType    string              `json:"token_type"`
	SessionID    string              `json:"session_id,omitempty"`
	Next         string              `json:"next,omitempty"`
	User         UserProfileResponse `json:"user"`
}

type LoginSessionResponse struct {
	SessionID      string    `json:"session_id"`
	DeviceInfo     string    `json:"device_info"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Current        bool      `json:"current"`
}

func ToLoginSessionResponses(sessions []*model.Session, currentID string) []LoginSessionResponse {
	out := make([]LoginSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, LoginSessionResponse{
			SessionID:      s.SessionID,
			DeviceInfo:     s.DeviceInfo,
			IPAddress:      s.IPAddress,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			Current:        s.SessionID == currentID,
		})
	}
	return out
}
