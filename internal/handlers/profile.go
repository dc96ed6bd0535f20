package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/apierror"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/service"
)

// ProfileHandler exposes the aggregate life area score updates
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateLifeScores merges a partial score update into the user's profile
// PUT /api/v1/profile/life-scores
func (h *ProfileHandler) UpdateLifeScores(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var updates models.PartialLifeAreaScores
	if err := c.ShouldBindJSON(&updates); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c),
			"request body is not a valid partial score update",
			"Please check the scores you submitted",
		))
		return
	}

	scores, err := h.profileService.UpdateLifeAreaScores(c.Request.Context(), userID, updates)
	if err != nil {
		writeServiceError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, scores)
}
