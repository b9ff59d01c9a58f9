package types

import (
	"fmt"

	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// IndexTier is the refractive-index tier of a lens. Higher tiers are thinner
// for the same optical power, so the ordinal value is meaningful: tiers compare
// with < and >.
type IndexTier int

const (
	IndexTierUnknown IndexTier = 0
	IndexTier156     IndexTier = 1
	IndexTier160     IndexTier = 2
	IndexTier167     IndexTier = 3
	IndexTier174     IndexTier = 4
)

var indexTierValues = map[IndexTier]string{
	IndexTier156: "1.56",
	IndexTier160: "1.60",
	IndexTier167: "1.67",
	IndexTier174: "1.74",
}

// String returns the refractive index, e.g. "1.67"
func (t IndexTier) String() string {
	if v, ok := indexTierValues[t]; ok {
		return v
	}
	return fmt.Sprintf("IndexTier(%d)", int(t))
}

func (t IndexTier) Validate() error {
	if _, ok := indexTierValues[t]; !ok {
		return ierr.NewError("invalid lens index tier").
			WithHintf("Lens index tier must be between %d and %d", IndexTier156, IndexTier174).
			WithReportableDetails(map[string]any{
				"tier": int(t),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// VisionType classifies the prescription and the lenses that can serve it
type VisionType string

const (
	VisionTypeSingleVision VisionType = "SINGLE_VISION"
	VisionTypeMultifocal   VisionType = "MULTIFOCAL"
)

func (v VisionType) Validate() error {
	allowed := []VisionType{VisionTypeSingleVision, VisionTypeMultifocal}
	if !lo.Contains(allowed, v) {
		return ierr.NewError("invalid vision type").
			WithHint("Vision type must be SINGLE_VISION or MULTIFOCAL").
			WithReportableDetails(map[string]any{
				"allowed":     allowed,
				"vision_type": v,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RimType is the construction of the frame, which limits how thick a lens may be
type RimType string

const (
	RimTypeFull     RimType = "FULL_RIM"
	RimTypeHalf     RimType = "HALF_RIM"
	RimTypeRimless  RimType = "RIMLESS"
	RimTypeNotGiven RimType = ""
)

func (r RimType) Validate() error {
	allowed := []RimType{RimTypeFull, RimTypeHalf, RimTypeRimless, RimTypeNotGiven}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid rim type").
			WithHint("Rim type must be FULL_RIM, HALF_RIM or RIMLESS").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"rim_type": r,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
