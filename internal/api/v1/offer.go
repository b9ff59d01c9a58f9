package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/api/dto"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/service"
)

type OfferHandler struct {
	offerService service.OfferService
	logger       *logger.Logger
}

func NewOfferHandler(offerService service.OfferService, logger *logger.Logger) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		logger:       logger,
	}
}

// @Summary Calculate offers
// @Description Prices a frame and lens pair and applies the best combination of offers, category discount and coupon
// @Tags Offers
// @Accept json
// @Produce json
// @Param X-Store-ID header string false "Store whose lens prices apply"
// @Param request body dto.CalculateOffersRequest true "Frame, lens and customer details"
// @Success 200 {object} dto.OfferCalculationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /offers/calculate [post]
func (h *OfferHandler) CalculateOffers(c *gin.Context) {
	var req dto.CalculateOffersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.offerService.CalculateOffers(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
