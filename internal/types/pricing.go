package types

import (
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// StackingPolicy decides how several matching RX add-on bands combine.
// Switching it changes customer pricing, so it is configured explicitly.
type StackingPolicy string

const (
	// StackingPolicyHighestOnly applies only the largest matching charge
	StackingPolicyHighestOnly StackingPolicy = "HIGHEST_ONLY"
	// StackingPolicySumAll adds every matching charge
	StackingPolicySumAll StackingPolicy = "SUM_ALL"
)

func (p StackingPolicy) Validate() error {
	allowed := []StackingPolicy{StackingPolicyHighestOnly, StackingPolicySumAll}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid add-on stacking policy").
			WithHint("Stacking policy must be HIGHEST_ONLY or SUM_ALL").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"policy":  p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LensSlot labels one of the four lenses surfaced to the customer
type LensSlot string

const (
	LensSlotBestMatch   LensSlot = "BEST_MATCH"
	LensSlotPremium     LensSlot = "PREMIUM"
	LensSlotValue       LensSlot = "VALUE"
	LensSlotAntiWalkout LensSlot = "ANTI_WALKOUT"
)
