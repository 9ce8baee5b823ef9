package api

import (
	"errors"
	"fmt"
	"net/http"

	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request Structs ---

type UpdateProfileRequest struct {
	Name              *string  `json:"name"`
	Username          *string  `json:"username"`
	Bio               *string  `json:"bio"`
	Age               *int     `json:"age" binding:"omitempty,gt=0"`
	Gender            *string  `json:"gender"`
	HeightCm          *float64 `json:"heightCm" binding:"omitempty,gt=0"`
	WeightKg          *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	Goal              *string  `json:"goal"`
	ActivityLevel     *string  `json:"activityLevel"`
	DietaryPreference *string  `json:"dietaryPreference"`
	CuisinePrefs      []string `json:"cuisinePrefs"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// UpdateProfile applies a partial update to the caller's profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.profileService.Update(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:              req.Name,
		Username:          req.Username,
		Bio:               req.Bio,
		Age:               req.Age,
		Gender:            req.Gender,
		HeightCm:          req.HeightCm,
		WeightKg:          req.WeightKg,
		Goal:              req.Goal,
		ActivityLevel:     req.ActivityLevel,
		DietaryPreference: req.DietaryPreference,
		CuisinePrefs:      req.CuisinePrefs,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while updating profile")
		}
		return
	}

	c.JSON(http.StatusOK, mapUserResponse(c, h.profileService, user))
}

// RequestAvatarUploadURL returns a presigned PUT URL for a new profile picture.
func (h *ProfileHandler) RequestAvatarUploadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.profileService.RequestAvatarUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmAvatar records the uploaded object key against the caller's profile.
func (h *ProfileHandler) ConfirmAvatar(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.profileService.ConfirmAvatar(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while confirming avatar")
		}
		return
	}

	c.JSON(http.StatusOK, mapUserResponse(c, h.profileService, user))
}

// GetByUsername returns the public summary of another user.
func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		abortWithError(c, http.StatusBadRequest, "Username parameter is required")
		return
	}

	user, err := h.profileService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while fetching user")
		}
		return
	}

	c.JSON(http.StatusOK, h.profileService.Summarize(c.Request.Context(), user))
}
