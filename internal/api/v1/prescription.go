package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/api/dto"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/service"
)

type PrescriptionHandler struct {
	prescriptionService service.PrescriptionService
	logger              *logger.Logger
}

func NewPrescriptionHandler(prescriptionService service.PrescriptionService, logger *logger.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionService: prescriptionService,
		logger:              logger,
	}
}

// @Summary Validate a prescription
// @Description Checks a prescription against the supported ranges and previews the recommended lens index
// @Tags Prescriptions
// @Accept json
// @Produce json
// @Param request body dto.ValidatePrescriptionRequest true "Prescription and optional frame"
// @Success 200 {object} dto.ValidatePrescriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /prescriptions/validate [post]
func (h *PrescriptionHandler) ValidatePrescription(c *gin.Context) {
	var req dto.ValidatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.prescriptionService.Validate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
