package frame

import (
	"strings"

	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// Frame is the customer's chosen frame. It is read-only input to pricing.
type Frame struct {
	Brand       string          `json:"brand"`
	SubCategory string          `json:"sub_category,omitempty"`
	RimType     types.RimType   `json:"rim_type,omitempty"`
	MRP         decimal.Decimal `json:"mrp"`
}

func (f *Frame) Validate() error {
	if f == nil {
		return nil
	}
	if f.MRP.IsNegative() {
		return ierr.NewError("frame MRP cannot be negative").
			WithHint("Frame MRP must be zero or more").
			WithReportableDetails(map[string]any{
				"mrp": f.MRP.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return f.RimType.Validate()
}

func (f *Frame) IsRimless() bool {
	return f != nil && f.RimType == types.RimTypeRimless
}

func (f *Frame) IsHalfRim() bool {
	return f != nil && f.RimType == types.RimTypeHalf
}

// BrandCode returns the normalized brand used for rule and discount matching
func (f *Frame) BrandCode() string {
	if f == nil {
		return ""
	}
	return NormalizeCode(f.Brand)
}

// NormalizeCode upper-cases and trims brand and category codes so
// configuration typed by hand matches catalog values
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
