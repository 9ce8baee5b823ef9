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

// LogHandler holds the progress log service dependency.
type LogHandler struct {
	logService service.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// --- Request Structs ---

type CreateLogRequest struct {
	Date      time.Time             `json:"date" binding:"required"`
	Meals     []domain.MealEntry    `json:"meals"`
	Workouts  []domain.WorkoutEntry `json:"workouts"`
	WeightKg  *float64              `json:"weight"`
	BodyStats *domain.BodyStats     `json:"bodyStats"`
}

// --- Handler Methods ---

// CreateLog persists a new progress log. A significant weight change
// regenerates the user's plan within this request, but a regeneration
// failure never fails the log write.
func (h *LogHandler) CreateLog(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.logService.CreateLog(c.Request.Context(), userID, service.CreateLogInput{
		Date:      req.Date,
		Meals:     req.Meals,
		Workouts:  req.Workouts,
		WeightKg:  req.WeightKg,
		BodyStats: req.BodyStats,
	})
	if err != nil {
		if errors.Is(err, service.ErrLogValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while creating log")
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetLogs returns all of the authenticated user's logs, oldest first.
func (h *LogHandler) GetLogs(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	logs, err := h.logService.GetLogs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Server error while fetching logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
