package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/service"
)

type RecommendationHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

func NewRecommendationHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// @Summary Get lens recommendations
// @Description Scores the catalog against a questionnaire session and returns the ranked lenses with the four-lens selection
// @Tags Recommendations
// @Produce json
// @Param session_id path string true "Questionnaire session ID"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sessions/{session_id}/recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.Error(ierr.NewError("session_id is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.recommendationService.GenerateRecommendations(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Invalidate cached recommendations
// @Description Drops the cached result of a session after its answers change
// @Tags Recommendations
// @Param session_id path string true "Questionnaire session ID"
// @Success 204
// @Router /sessions/{session_id}/recommendations [delete]
func (h *RecommendationHandler) InvalidateRecommendations(c *gin.Context) {
	h.recommendationService.InvalidateSession(c.Request.Context(), c.Param("session_id"))
	c.Status(http.StatusNoContent)
}
