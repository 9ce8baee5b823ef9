package api

import (
	"errors"
	"net/http"

	"formaai/backend/internal/ai"
	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Handler Methods ---

// GeneratePlan creates a new plan on explicit user request. Unlike the
// automatic trigger, generation failures here surface to the caller.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, ai.ErrGeneration) || errors.Is(err, ai.ErrMalformedPlan) {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate your personalized plan from the AI service")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while generating plan")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// CurrentPlan returns the most recent plan for the authenticated user.
func (h *PlanHandler) CurrentPlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plan, err := h.planService.CurrentPlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "No diet plan found for this user. Generate one first.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while fetching plan")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}
