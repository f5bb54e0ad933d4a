package ideology

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultDescribeThreshold is the minimum |component| for an axis to shape a label.
const DefaultDescribeThreshold = 0.15

const centristLabel = "Centrist"

// Description is a human-facing summary of a vector.
type Description struct {
	Label     string `json:"label"`
	Narrative string `json:"narrative"`
	Axes      []Axis `json:"-"`
}

type poleLabels struct {
	positive string
	negative string
}

var axisPoles = map[Axis]poleLabels{
	AxisEconomic:      {positive: "Free-Market", negative: "Redistributive"},
	AxisValues:        {positive: "Progressive", negative: "Traditionalist"},
	AxisEnvironment:   {positive: "Green", negative: "Developmentalist"},
	AxisRegional:      {positive: "Regionalist", negative: "Centralist"},
	AxisInternational: {positive: "Globalist", negative: "Sovereigntist"},
	AxisSecurity:      {positive: "Security Hawk", negative: "Civil Libertarian"},
}

// PoleLabel returns the label for the given sign of an axis.
func PoleLabel(a Axis, value float64) string {
	p := axisPoles[a]
	if value < 0 {
		return p.negative
	}
	return p.positive
}

// Describe labels v by its one or two strongest axes above the default threshold.
func Describe(v PositionVector) Description {
	return DescribeWithThreshold(v, DefaultDescribeThreshold)
}

// DescribeWithThreshold is Describe with a caller-chosen threshold.
func DescribeWithThreshold(v PositionVector, threshold float64) Description {
	v = Clamp(v)
	type strong struct {
		axis  Axis
		value float64
	}
	var picked []strong
	for _, a := range Axes {
		x := v.Get(a)
		if math.Abs(x) > threshold {
			picked = append(picked, strong{axis: a, value: x})
		}
	}
	if len(picked) == 0 {
		return Description{
			Label:     centristLabel,
			Narrative: "No axis departs meaningfully from the centre.",
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return math.Abs(picked[i].value) > math.Abs(picked[j].value)
	})
	if len(picked) > 2 {
		picked = picked[:2]
	}

	labels := make([]string, 0, len(picked))
	clauses := make([]string, 0, len(picked))
	axes := make([]Axis, 0, len(picked))
	for _, p := range picked {
		label := PoleLabel(p.axis, p.value)
		labels = append(labels, label)
		axes = append(axes, p.axis)
		clauses = append(clauses, fmt.Sprintf("%s on the %s axis (%s)", strings.ToLower(label), p.axis, intensity(p.value)))
	}
	return Description{
		Label:     strings.Join(labels, " / "),
		Narrative: "Leans " + strings.Join(clauses, " and ") + ".",
		Axes:      axes,
	}
}

func intensity(x float64) string {
	switch m := math.Abs(x); {
	case m >= 0.66:
		return "strong"
	case m >= 0.33:
		return "moderate"
	default:
		return "mild"
	}
}
