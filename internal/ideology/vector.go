package ideology

import "math"

const (
	minComponent = -1.0
	maxComponent = 1.0
)

// PositionVector is an actor's coordinates across all six axes. Stored
// components are always in [-1, 1]; use Clamp after any arithmetic.
type PositionVector struct {
	Economic      float64 `json:"economic"`
	Values        float64 `json:"values"`
	Environment   float64 `json:"environment"`
	Regional      float64 `json:"regional"`
	International float64 `json:"international"`
	Security      float64 `json:"security"`
}

// Neutral is the all-zero vector new citizens start from.
var Neutral = PositionVector{}

// VectorFromArray builds a vector from values in axis order.
func VectorFromArray(values [AxisCount]float64) PositionVector {
	var v PositionVector
	for _, a := range Axes {
		v = v.With(a, values[a])
	}
	return v
}

// Array returns the components in axis order.
func (v PositionVector) Array() [AxisCount]float64 {
	return [AxisCount]float64{v.Economic, v.Values, v.Environment, v.Regional, v.International, v.Security}
}

// Get returns the component for axis. Unknown axes read as 0.
func (v PositionVector) Get(a Axis) float64 {
	switch a {
	case AxisEconomic:
		return v.Economic
	case AxisValues:
		return v.Values
	case AxisEnvironment:
		return v.Environment
	case AxisRegional:
		return v.Regional
	case AxisInternational:
		return v.International
	case AxisSecurity:
		return v.Security
	}
	return 0
}

// With returns a copy of v with axis set to value. The value is not clamped.
func (v PositionVector) With(a Axis, value float64) PositionVector {
	switch a {
	case AxisEconomic:
		v.Economic = value
	case AxisValues:
		v.Values = value
	case AxisEnvironment:
		v.Environment = value
	case AxisRegional:
		v.Regional = value
	case AxisInternational:
		v.International = value
	case AxisSecurity:
		v.Security = value
	}
	return v
}

// Clamp forces every component into [-1, 1]. NaN becomes 0.
func Clamp(v PositionVector) PositionVector {
	out, _ := ClampReport(v)
	return out
}

// Violation records a scalar that arrived outside its contract range.
type Violation struct {
	Axis  Axis
	Value float64
}

// ClampReport clamps v and lists every component that had to change.
func ClampReport(v PositionVector) (PositionVector, []Violation) {
	var violations []Violation
	out := v
	for _, a := range Axes {
		x := v.Get(a)
		c := clampScalar(x, minComponent, maxComponent)
		if c != x {
			violations = append(violations, Violation{Axis: a, Value: x})
		}
		out = out.With(a, c)
	}
	return out, violations
}

// Equal reports exact component equality.
func (v PositionVector) Equal(o PositionVector) bool {
	return v == o
}

// DisplayVector is a presentation-only projection onto [0, 100]. It is never
// persisted as state.
type DisplayVector struct {
	Economic      int `json:"economic"`
	Values        int `json:"values"`
	Environment   int `json:"environment"`
	Regional      int `json:"regional"`
	International int `json:"international"`
	Security      int `json:"security"`
}

// NormalizeForDisplay maps each component affinely via (x+1)*50.
func NormalizeForDisplay(v PositionVector) DisplayVector {
	c := Clamp(v)
	scale := func(x float64) int { return int(math.Round((x + 1) * 50)) }
	return DisplayVector{
		Economic:      scale(c.Economic),
		Values:        scale(c.Values),
		Environment:   scale(c.Environment),
		Regional:      scale(c.Regional),
		International: scale(c.International),
		Security:      scale(c.Security),
	}
}

func clampScalar(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
