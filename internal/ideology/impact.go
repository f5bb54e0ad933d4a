package ideology

// ImpactVector is a legislative item's per-axis relevance magnitude. It has
// no direction: components are in [0, 1].
type ImpactVector struct {
	Economic      float64 `json:"economic"`
	Values        float64 `json:"values"`
	Environment   float64 `json:"environment"`
	Regional      float64 `json:"regional"`
	International float64 `json:"international"`
	Security      float64 `json:"security"`
}

// ImpactFromArray builds an impact vector from values in axis order.
func ImpactFromArray(values [AxisCount]float64) ImpactVector {
	p := VectorFromArray(values)
	return ImpactVector(p)
}

func (iv ImpactVector) Array() [AxisCount]float64 {
	return PositionVector(iv).Array()
}

func (iv ImpactVector) Get(a Axis) float64 {
	return PositionVector(iv).Get(a)
}

// IsZero reports whether no axis is touched at all.
func (iv ImpactVector) IsZero() bool {
	return iv == ImpactVector{}
}

// ClampImpact forces components into [0, 1] and reports what changed.
func ClampImpact(iv ImpactVector) (ImpactVector, []Violation) {
	var violations []Violation
	out := PositionVector(iv)
	for _, a := range Axes {
		x := iv.Get(a)
		c := clampScalar(x, 0, 1)
		if c != x {
			violations = append(violations, Violation{Axis: a, Value: x})
		}
		out = out.With(a, c)
	}
	return ImpactVector(out), violations
}

// RelevanceWeights are optional per-axis weights supplied by the text-analysis
// collaborator. A missing axis falls back to the impact component.
type RelevanceWeights map[Axis]float64

// Weight resolves the relevance of axis a for an item. ok is false only when
// neither weights nor a non-empty impact vector are available.
func Weight(impact *ImpactVector, weights RelevanceWeights, a Axis) (float64, bool) {
	if w, ok := weights[a]; ok {
		return clampScalar(w, 0, 1), true
	}
	if impact == nil {
		return 0, false
	}
	return impact.Get(a), true
}
