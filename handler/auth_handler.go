package handler

import (
	"errors"
	"log"
	"strings"
	"time"

	"wellbeing/dto"
	"wellbeing/middleware"
	"wellbeing/model"
	"wellbeing/services"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users     *usecase.UserService
	logins    *usecase.LoginSessionService
	tokens    *services.TokenService
	blacklist *services.TokenBlacklist
}

func NewAuthHandler(users *usecase.UserService, logins *usecase.LoginSessionService, tokens *services.TokenService, blacklist *services.TokenBlacklist) *AuthHandler {
	return &AuthHandler{users: users, logins: logins, tokens: tokens, blacklist: blacklist}
}

// issue opens a login session and signs a token pair bound to it.
func (h *AuthHandler) issue(c *gin.Context, user *model.User) (*dto.AuthResponse, error) {
	session, err := h.logins.Open(c.Request.Context(), user.UserID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		return nil, err
	}
	access, err := h.tokens.GenerateToken(user.UserID, session.SessionID)
	if err != nil {
		return nil, err
	}
	refresh, err := h.tokens.GenerateRefreshToken(user.UserID, session.SessionID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		SessionID:    session.SessionID,
		User:         dto.ToUserProfileResponse(user, dto.ProfileLinks()),
	}, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_registration")
		utils.BadRequest(c, "Invalid registration data")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, usecase.ErrEmailTaken):
		utils.Conflict(c, "Email already registered")
		return
	case errors.Is(err, usecase.ErrUsernameTaken):
		utils.Conflict(c, "Username already exists")
		return
	case err != nil:
		log.Printf("registration failed: %v", err)
		utils.TrackError("auth", "registration_failed")
		utils.InternalError(c, "Failed to register user")
		return
	}

	resp, err := h.issue(c, user)
	if err != nil {
		log.Printf("token issue after registration failed: %v", err)
		utils.InternalError(c, "Failed to sign in new user")
		return
	}
	resp.Next = "calibration"
	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req)
	switch {
	case errors.Is(err, usecase.ErrTwoFactorRequired):
		utils.TrackAuthAttempt("pending", "2fa_required")
		utils.Success(c, gin.H{"requires_2fa": true, "message": "2FA code required"})
		return
	case errors.Is(err, usecase.ErrInvalidTwoFactor):
		utils.TrackAuthAttempt("failure", "invalid_2fa")
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	case errors.Is(err, usecase.ErrInvalidLogin):
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid email or password")
		return
	case err != nil:
		log.Printf("login failed: %v", err)
		utils.InternalError(c, "Failed to log in")
		return
	}

	resp, err := h.issue(c, user)
	if err != nil {
		log.Printf("token issue failed for user %s: %v", user.UserID, err)
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}
	if !user.IsCalibrated {
		resp.Next = "calibration"
	}
	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, resp)
}

// Refresh exchanges a refresh token for a new pair on the same login
// session. The old refresh token is revoked.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := middleware.BearerToken(c)
	if refreshToken == "" {
		utils.Unauthorized(c, "Missing refresh token")
		return
	}
	if h.blacklist.IsRevoked(c.Request.Context(), refreshToken) {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Refresh token has been invalidated")
		return
	}

	claims, err := h.tokens.Parse(refreshToken, services.TokenTypeRefresh)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}
	if claims.SessionID != "" && !h.logins.Validate(c.Request.Context(), claims.SessionID) {
		utils.Unauthorized(c, "Session has ended")
		return
	}

	access, err := h.tokens.GenerateToken(claims.UserID, claims.SessionID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refresh, err := h.tokens.GenerateRefreshToken(claims.UserID, claims.SessionID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}
	if claims.ExpiresAt != nil {
		if err := h.blacklist.Revoke(c.Request.Context(), refreshToken, claims.ExpiresAt.Time); err != nil {
			log.Printf("failed to revoke refresh token: %v", err)
		}
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
	})
}

// Logout revokes the access token (and the refresh token when sent in the
// body) and ends the login session.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.GetString("token")
	expiresAt, _ := c.Get("token_expires_at")
	if exp, ok := expiresAt.(time.Time); ok && token != "" {
		if err := h.blacklist.Revoke(ctx, token, exp); err != nil {
			log.Printf("failed to revoke access token: %v", err)
		}
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && strings.TrimSpace(body.RefreshToken) != "" {
		if claims, err := h.tokens.Parse(body.RefreshToken, services.TokenTypeRefresh); err == nil && claims.ExpiresAt != nil {
			if err := h.blacklist.Revoke(ctx, body.RefreshToken, claims.ExpiresAt.Time); err != nil {
				log.Printf("failed to revoke refresh token: %v", err)
			}
		}
	}

	if sessionID := c.GetString("session_id"); sessionID != "" {
		if err := h.logins.End(ctx, sessionID); err != nil {
			log.Printf("failed to end login session %s: %v", sessionID, err)
		}
	}

	utils.Success(c, gin.H{"message": "Logged out"})
}
