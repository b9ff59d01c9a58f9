package dto

import (
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/types"
)

// ValidatePrescriptionRequest checks a prescription and previews its index tier
type ValidatePrescriptionRequest struct {
	Prescription prescription.Prescription `json:"prescription"`
	Frame        *frame.Frame              `json:"frame,omitempty"`
}

// ValidatePrescriptionResponse lists out of range powers. Violations do not
// block anything; the caller decides what to do with them.
type ValidatePrescriptionResponse struct {
	Valid            bool                     `json:"valid"`
	Violations       []prescription.Violation `json:"violations"`
	MaxPower         *float64                 `json:"max_power,omitempty"`
	VisionType       types.VisionType         `json:"vision_type"`
	RecommendedIndex string                   `json:"recommended_index"`
}
