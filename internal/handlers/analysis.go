package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/apierror"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/service"
)

// AnalysisHandler exposes the correlation and pattern pipelines
type AnalysisHandler struct {
	correlationService service.CorrelationService
	patternService     service.PatternService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(correlationService service.CorrelationService, patternService service.PatternService) *AnalysisHandler {
	return &AnalysisHandler{
		correlationService: correlationService,
		patternService:     patternService,
	}
}

// authedUserID pulls the verified identity set by the auth middleware.
// The second return is false when it is missing, which the caller must
// treat as unauthorized.
func authedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID.(string), true
}

// writeServiceError maps service failures onto problem responses. An
// invalid user id is an input-validation error, not an internal one.
func writeServiceError(c *gin.Context, err error, userID string) {
	if errors.Is(err, service.ErrInvalidUserID) {
		apierror.WriteProblem(c, apierror.NewInvalidUserIDError(apierror.GetRequestID(c), userID))
		return
	}
	logger.Ctx(c.Request.Context()).Error("analysis request failed", logger.Err(err))
	apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
}

// RefreshCorrelations runs the correlation pipeline for the caller
// POST /api/v1/analysis/correlations/refresh
func (h *AnalysisHandler) RefreshCorrelations(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	response, err := h.correlationService.RunCorrelations(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCorrelations returns the stored significant correlations
// GET /api/v1/analysis/correlations
func (h *AnalysisHandler) GetCorrelations(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	results, err := h.correlationService.GetTopCorrelations(c.Request.Context(), userID, 10)
	if err != nil {
		writeServiceError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"correlations": results})
}

// RefreshPatterns runs the pattern detection pipeline for the caller
// POST /api/v1/analysis/patterns/refresh
func (h *AnalysisHandler) RefreshPatterns(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	response, err := h.patternService.RunPatternDetection(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetPatterns returns the stored active patterns
// GET /api/v1/analysis/patterns
func (h *AnalysisHandler) GetPatterns(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	patterns, err := h.patternService.GetActivePatterns(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}
