package model

import "time"

const (
	DefaultCalibrationThreshold = 0.26
	UnsignedConsent             = "Not Signed"
)

type User struct {
	UserID               string    `bson:"user_id" json:"user_id"`
	Username             string    `bson:"username" json:"username"`
	Email                string    `bson:"email" json:"email"`
	Password             string    `bson:"password" json:"-"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`
	ConsentSignature     string    `bson:"consent_signature" json:"consent_signature"`
	ConsentDate          time.Time `bson:"consent_date" json:"consent_date"`
	CalibrationThreshold float64   `bson:"calibration_threshold" json:"calibration_threshold"`
	IsCalibrated         bool      `bson:"is_calibrated" json:"is_calibrated"`
	TwoFactorSecret      string    `bson:"two_factor_secret,omitempty" json:"-"`
	TwoFactorEnabled     bool      `bson:"two_factor_enabled" json:"two_factor_enabled"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email,max=150"`
	Password  string `json:"password" binding:"required,password"`
	Signature string `json:"signature" binding:"max=150"`
}

type LoginRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"two_factor_code"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email,max=150"`
}
