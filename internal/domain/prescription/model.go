package prescription

import (
	"math"

	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
)

// Physiological bounds accepted for each power field
const (
	MinSphere     = -20.0
	MaxSphere     = 20.0
	MinCylinder   = -6.0
	MaxCylinder   = 0.0
	MinAddition   = 0.0
	MaxAddition   = 4.0
	MultifocalAdd = 0.75
)

// Prescription holds the optional signed eye powers of one calculation.
// A nil field means the value was not supplied, which is never the same as 0.
type Prescription struct {
	RightSphere   *float64 `json:"right_sphere,omitempty"`
	RightCylinder *float64 `json:"right_cylinder,omitempty"`
	LeftSphere    *float64 `json:"left_sphere,omitempty"`
	LeftCylinder  *float64 `json:"left_cylinder,omitempty"`
	Addition      *float64 `json:"addition,omitempty"`

	// VisionTypeOverride wins over the addition based inference when set
	VisionTypeOverride *types.VisionType `json:"vision_type_override,omitempty"`
}

// EyePower is the sphere/cylinder pair of a single eye
type EyePower struct {
	Sphere   *float64
	Cylinder *float64
}

// Violation describes a power field outside its accepted range
type Violation struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (p *Prescription) Right() EyePower {
	return EyePower{Sphere: p.RightSphere, Cylinder: p.RightCylinder}
}

func (p *Prescription) Left() EyePower {
	return EyePower{Sphere: p.LeftSphere, Cylinder: p.LeftCylinder}
}

// IsEmpty reports whether no power field was supplied at all
func (p *Prescription) IsEmpty() bool {
	return p == nil || (p.RightSphere == nil && p.RightCylinder == nil &&
		p.LeftSphere == nil && p.LeftCylinder == nil && p.Addition == nil)
}

// MaxPower returns the largest absolute power over the sphere and transposed
// sphere+cylinder terms of both eyes. Zero terms are ignored; ok is false when
// nothing is left, which callers must treat as "no prescription".
func (p *Prescription) MaxPower() (float64, bool) {
	if p == nil {
		return 0, false
	}

	var terms []float64
	for _, eye := range []EyePower{p.Right(), p.Left()} {
		if eye.Sphere != nil {
			terms = append(terms, math.Abs(*eye.Sphere))
		}
		if eye.Sphere != nil || eye.Cylinder != nil {
			terms = append(terms, math.Abs(value(eye.Sphere)+value(eye.Cylinder)))
		}
	}

	terms = lo.Filter(terms, func(t float64, _ int) bool { return t != 0 })
	if len(terms) == 0 {
		return 0, false
	}
	return lo.Max(terms), true
}

// VisionType infers single vision or multifocal from the addition power
func (p *Prescription) VisionType() types.VisionType {
	if p == nil {
		return types.VisionTypeSingleVision
	}
	if p.VisionTypeOverride != nil && *p.VisionTypeOverride != "" {
		return *p.VisionTypeOverride
	}
	if add, ok := p.AdditionValue(); ok && add > MultifocalAdd {
		return types.VisionTypeMultifocal
	}
	return types.VisionTypeSingleVision
}

// AdditionValue returns the addition power and whether it was supplied
func (p *Prescription) AdditionValue() (float64, bool) {
	if p == nil || p.Addition == nil {
		return 0, false
	}
	return *p.Addition, true
}

// CombinedPower is max(|rSph|+|rCyl|, |lSph|+|lCyl|), used for band pricing.
// Missing fields count as 0 here.
func (p *Prescription) CombinedPower() float64 {
	if p == nil {
		return 0
	}
	return math.Max(p.Right().Combined(), p.Left().Combined())
}

// WorseEye returns the eye with the higher |sph|+|cyl|, the right eye on ties
func (p *Prescription) WorseEye() EyePower {
	if p == nil {
		return EyePower{}
	}
	right, left := p.Right(), p.Left()
	if left.Combined() > right.Combined() {
		return left
	}
	return right
}

// Validate returns every power field outside its physiological range
func (p *Prescription) Validate() []Violation {
	if p == nil {
		return nil
	}

	checks := []struct {
		field    string
		v        *float64
		min, max float64
	}{
		{"right_sphere", p.RightSphere, MinSphere, MaxSphere},
		{"left_sphere", p.LeftSphere, MinSphere, MaxSphere},
		{"right_cylinder", p.RightCylinder, MinCylinder, MaxCylinder},
		{"left_cylinder", p.LeftCylinder, MinCylinder, MaxCylinder},
		{"addition", p.Addition, MinAddition, MaxAddition},
	}

	var violations []Violation
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if *c.v < c.min || *c.v > c.max || math.IsNaN(*c.v) {
			violations = append(violations, Violation{
				Field: c.field,
				Value: *c.v,
				Min:   c.min,
				Max:   c.max,
			})
		}
	}
	return violations
}

// Combined returns |sph|+|cyl| with missing fields as 0
func (e EyePower) Combined() float64 {
	return math.Abs(value(e.Sphere)) + math.Abs(value(e.Cylinder))
}

// SphereValue returns the signed sphere, 0 when missing
func (e EyePower) SphereValue() float64 {
	return value(e.Sphere)
}

// CylinderValue returns the signed cylinder, 0 when missing
func (e EyePower) CylinderValue() float64 {
	return value(e.Cylinder)
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
