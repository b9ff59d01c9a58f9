package prescription

import (
	"testing"

	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestMaxPower(t *testing.T) {
	tests := []struct {
		name   string
		rx     *Prescription
		want   float64
		wantOK bool
	}{
		{
			name:   "nil prescription",
			rx:     nil,
			wantOK: false,
		},
		{
			name:   "no fields",
			rx:     &Prescription{},
			wantOK: false,
		},
		{
			name:   "all zero powers are not data",
			rx:     &Prescription{RightSphere: lo.ToPtr(0.0), LeftSphere: lo.ToPtr(0.0), RightCylinder: lo.ToPtr(0.0)},
			wantOK: false,
		},
		{
			name:   "sphere only",
			rx:     &Prescription{RightSphere: lo.ToPtr(-2.5), LeftSphere: lo.ToPtr(-1.75)},
			want:   2.5,
			wantOK: true,
		},
		{
			name:   "transposed term dominates",
			rx:     &Prescription{RightSphere: lo.ToPtr(-4.0), RightCylinder: lo.ToPtr(-2.0)},
			want:   6.0,
			wantOK: true,
		},
		{
			name:   "cylinder only",
			rx:     &Prescription{LeftCylinder: lo.ToPtr(-1.5)},
			want:   1.5,
			wantOK: true,
		},
		{
			name:   "plus sphere with minus cylinder",
			rx:     &Prescription{RightSphere: lo.ToPtr(3.0), RightCylinder: lo.ToPtr(-1.0)},
			want:   3.0,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rx.MaxPower()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestVisionType(t *testing.T) {
	multifocal := types.VisionTypeMultifocal
	single := types.VisionTypeSingleVision

	assert.Equal(t, types.VisionTypeSingleVision, (&Prescription{}).VisionType())
	assert.Equal(t, types.VisionTypeSingleVision, (&Prescription{Addition: lo.ToPtr(0.75)}).VisionType())
	assert.Equal(t, types.VisionTypeMultifocal, (&Prescription{Addition: lo.ToPtr(1.0)}).VisionType())
	assert.Equal(t, types.VisionTypeMultifocal, (&Prescription{VisionTypeOverride: &multifocal}).VisionType())
	assert.Equal(t, types.VisionTypeSingleVision, (&Prescription{Addition: lo.ToPtr(2.0), VisionTypeOverride: &single}).VisionType())
}

func TestCombinedPowerAndWorseEye(t *testing.T) {
	rx := &Prescription{
		RightSphere:   lo.ToPtr(-2.0),
		RightCylinder: lo.ToPtr(-0.5),
		LeftSphere:    lo.ToPtr(-3.0),
		LeftCylinder:  lo.ToPtr(-1.0),
	}
	assert.InDelta(t, 4.0, rx.CombinedPower(), 1e-9)
	assert.InDelta(t, -3.0, rx.WorseEye().SphereValue(), 1e-9)

	tie := &Prescription{RightSphere: lo.ToPtr(-2.0), LeftSphere: lo.ToPtr(2.0)}
	assert.InDelta(t, -2.0, tie.WorseEye().SphereValue(), 1e-9, "ties resolve to the right eye")
}

func TestValidate(t *testing.T) {
	rx := &Prescription{
		RightSphere:   lo.ToPtr(-21.0),
		RightCylinder: lo.ToPtr(0.5),
		LeftSphere:    lo.ToPtr(-5.0),
		Addition:      lo.ToPtr(4.25),
	}
	violations := rx.Validate()
	fields := lo.Map(violations, func(v Violation, _ int) string { return v.Field })
	assert.ElementsMatch(t, []string{"right_sphere", "right_cylinder", "addition"}, fields)

	assert.Empty(t, (&Prescription{RightSphere: lo.ToPtr(20.0), LeftCylinder: lo.ToPtr(-6.0), Addition: lo.ToPtr(0.0)}).Validate())
}
