package service

import (
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/types"
)

// Upper maxPower bound of each base index tier
const (
	tier156MaxPower = 3.0
	tier160MaxPower = 5.0
	tier167MaxPower = 8.0

	rimlessEscalationPower = 2.0
	halfRimEscalationPower = 4.0
)

// RecommendIndex maps the prescription's maximum power and the frame rim type
// to a lens index tier. ok=false means there is no prescription data and
// always yields the 1.56 tier.
func RecommendIndex(maxPower float64, ok bool, f *frame.Frame) types.IndexTier {
	if !ok {
		return types.IndexTier156
	}

	var tier types.IndexTier
	switch {
	case maxPower <= tier156MaxPower:
		tier = types.IndexTier156
	case maxPower <= tier160MaxPower:
		tier = types.IndexTier160
	case maxPower <= tier167MaxPower:
		tier = types.IndexTier167
	default:
		tier = types.IndexTier174
	}

	if tier == types.IndexTier156 {
		switch {
		case f.IsRimless() && maxPower > rimlessEscalationPower:
			tier = types.IndexTier160
		case f.IsHalfRim() && maxPower > halfRimEscalationPower:
			tier = types.IndexTier167
		}
	}

	return tier
}

// IsInvalidLensForFrame reports lens/frame pairs that cannot be sold together.
// A 1.56 lens is too thick for a rimless mount.
func IsInvalidLensForFrame(tier types.IndexTier, f *frame.Frame) bool {
	return tier == types.IndexTier156 && f.IsRimless()
}
