package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/earn-your-wings-api/internal/catalog"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
)

// CompetencyHandler serves the static catalog and per-user competency views.
type CompetencyHandler struct {
	userService     *services.UserService
	progressService *services.ProgressService
}

func NewCompetencyHandler(userService *services.UserService, progressService *services.ProgressService) *CompetencyHandler {
	return &CompetencyHandler{
		userService:     userService,
		progressService: progressService,
	}
}

// ListCompetencies returns the competency framework.
func (h *CompetencyHandler) ListCompetencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"competencies": catalog.Areas(),
	})
}

// GetUserCompetencies returns a user's organized progress. The aggregator
// recomputes before reading, so the view always reflects the latest
// completions.
func (h *CompetencyHandler) GetUserCompetencies(c *gin.Context) {
	userID := c.Param("id")

	if _, err := h.userService.GetUser(userID); err != nil {
		respondServiceError(c, err)
		return
	}

	organized, err := h.progressService.OrganizedProgress(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"competencies": organized,
	})
}
