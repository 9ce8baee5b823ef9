package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"formaai/backend/internal/domain"
	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, profileService service.ProfileService) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService}
}

// --- Request/Response Structs ---

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Username          string      `json:"username,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	Tier              domain.Tier `json:"tier"`
	ProfilePicURL     string      `json:"profilePicUrl,omitempty"`
	Age               int         `json:"age,omitempty"`
	Gender            string      `json:"gender,omitempty"`
	HeightCm          float64     `json:"heightCm,omitempty"`
	WeightKg          float64     `json:"weightKg,omitempty"`
	Goal              string      `json:"goal,omitempty"`
	ActivityLevel     string      `json:"activityLevel,omitempty"`
	DietaryPreference string      `json:"dietaryPreference,omitempty"`
	CuisinePrefs      []string    `json:"cuisinePrefs,omitempty"`
	ProfileComplete   bool        `json:"profileComplete"`
	Following         []string    `json:"following,omitempty"`
	Followers         []string    `json:"followers,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Signup creates a new account and logs the user straight in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) || errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  mapUserResponse(c, h.profileService, user),
	})
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  mapUserResponse(c, h.profileService, user),
	})
}

// Me returns the authenticated user's full profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	user, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusOK, mapUserResponse(c, h.profileService, user))
}

// mapUserResponse converts a domain User to a UserResponse DTO, resolving the
// avatar object key to a temporary URL.
func mapUserResponse(c *gin.Context, profiles service.ProfileService, user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:                user.ID.Hex(),
		Name:              user.Name,
		Email:             user.Email,
		Username:          user.Username,
		Bio:               user.Bio,
		Tier:              user.Tier,
		ProfilePicURL:     profiles.AvatarURL(c.Request.Context(), user),
		Age:               user.Age,
		Gender:            user.Gender,
		HeightCm:          user.HeightCm,
		WeightKg:          user.WeightKg,
		Goal:              user.Goal,
		ActivityLevel:     user.ActivityLevel,
		DietaryPreference: user.DietaryPreference,
		CuisinePrefs:      user.CuisinePrefs,
		ProfileComplete:   user.ProfileComplete,
		CreatedAt:         user.CreatedAt,
	}
	for _, id := range user.Following {
		resp.Following = append(resp.Following, id.Hex())
	}
	for _, id := range user.Followers {
		resp.Followers = append(resp.Followers, id.Hex())
	}
	return resp
}
