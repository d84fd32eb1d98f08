package handler

import (
	"errors"
	"log"

	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type TwoFactorHandler struct {
	users *usecase.UserService
}

func NewTwoFactorHandler(users *usecase.UserService) *TwoFactorHandler {
	return &TwoFactorHandler{users: users}
}

type twoFactorCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

func (h *TwoFactorHandler) Setup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	setup, err := h.users.SetupTwoFactor(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, setup)
}

func (h *TwoFactorHandler) Enable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "A 6 digit code is required")
		return
	}

	if err := h.users.EnableTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		h.fail(c, err)
		return
	}
	utils.TrackAuthAttempt("success", "2fa_enable")
	utils.Success(c, gin.H{"two_factor_enabled": true})
}

func (h *TwoFactorHandler) Disable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "A 6 digit code is required")
		return
	}

	if err := h.users.DisableTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, gin.H{"two_factor_enabled": false})
}

func (h *TwoFactorHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "User not found")
	case errors.Is(err, usecase.ErrTwoFactorState):
		utils.BadRequest(c, "Two factor authentication is not in a state that allows this")
	case errors.Is(err, usecase.ErrInvalidTwoFactor):
		utils.TrackAuthAttempt("failure", "invalid_2fa")
		utils.Unauthorized(c, "Invalid 2FA code")
	default:
		log.Printf("two factor operation failed: %v", err)
		utils.InternalError(c, "Two factor operation failed")
	}
}
