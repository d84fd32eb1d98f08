package handler

import (
	"errors"
	"log"

	"wellbeing/dto"
	"wellbeing/model"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users *usecase.UserService
}

func NewProfileHandler(users *usecase.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := h.users.Profile(c.Request.Context(), userID)
	if errors.Is(err, usecase.ErrNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		log.Printf("profile lookup failed: %v", err)
		utils.InternalError(c, "Failed to load profile")
		return
	}
	utils.Success(c, dto.ToUserProfileResponse(user, dto.ProfileLinks()))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid profile data")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "User not found")
	case errors.Is(err, usecase.ErrEmailTaken):
		utils.Conflict(c, "Email already registered")
	case errors.Is(err, usecase.ErrUsernameTaken):
		utils.Conflict(c, "Username already exists")
	case err != nil:
		log.Printf("profile update failed: %v", err)
		utils.InternalError(c, "Failed to update profile")
	default:
		utils.Success(c, dto.ToUserProfileResponse(user, nil))
	}
}
