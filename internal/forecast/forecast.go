// Package forecast predicts how much internal friction a legislative item
// will cause inside each party and across the chamber.
package forecast

import (
	"math"

	"polis/internal/aggregation"
	"polis/internal/ideology"
)

// Alignment is the coarse stance of a party on an item.
type Alignment string

const (
	AlignmentSupports Alignment = "supports"
	AlignmentOpposes  Alignment = "opposes"
	AlignmentDivided  Alignment = "internally divided"
)

// Thresholds tune which axes count and when a party is called divided.
type Thresholds struct {
	// Impact is the minimum item impact for an axis to be considered.
	Impact float64
	// Divided is the contribution at or above which a party is divided.
	Divided float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Impact: 0.2, Divided: 25}
}

// AxisFriction is one qualifying axis of a party forecast.
type AxisFriction struct {
	Axis     ideology.Axis `json:"axis"`
	Impact   float64       `json:"impact"`
	Mean     float64       `json:"mean"`
	Variance float64       `json:"variance"`
}

// PartyFriction is the forecast for one party's members.
type PartyFriction struct {
	Contribution float64        `json:"contribution"`
	Alignment    Alignment      `json:"alignment,omitempty"`
	Axes         []AxisFriction `json:"axes"`
	NoData       bool           `json:"no_data"`
}

// Party computes a party's friction contribution: for every axis whose
// impact exceeds t.Impact, member variance × impact × 100, summed. A party
// without members has no data and no alignment. An item that touches none
// of the axes above the threshold leaves the alignment empty.
func Party(members []ideology.PositionVector, impact ideology.ImpactVector, t Thresholds) PartyFriction {
	if len(members) == 0 {
		return PartyFriction{NoData: true, Axes: []AxisFriction{}}
	}

	out := PartyFriction{Axes: []AxisFriction{}}
	var weighted, weights float64
	for _, a := range ideology.Axes {
		w := impact.Get(a)
		if w <= t.Impact {
			continue
		}
		af := AxisFriction{
			Axis:     a,
			Impact:   w,
			Mean:     aggregation.AxisMean(members, a),
			Variance: aggregation.AxisVariance(members, a),
		}
		out.Axes = append(out.Axes, af)
		out.Contribution += af.Variance * w * 100
		weighted += af.Mean * w
		weights += w
	}

	if len(out.Axes) == 0 {
		return out
	}
	var mean float64
	if weights > 0 {
		mean = weighted / weights
	}
	switch {
	case out.Contribution >= t.Divided:
		out.Alignment = AlignmentDivided
	case mean >= 0:
		out.Alignment = AlignmentSupports
	default:
		out.Alignment = AlignmentOpposes
	}
	return out
}

// GlobalIndex is min(100, round(2 × mean contribution)). ok is false when
// no party had data.
func GlobalIndex(parties []PartyFriction) (index int, ok bool) {
	var sum float64
	var n int
	for _, p := range parties {
		if p.NoData {
			continue
		}
		sum += p.Contribution
		n++
	}
	if n == 0 {
		return 0, false
	}
	return min(100, int(math.Round(2*sum/float64(n)))), true
}
