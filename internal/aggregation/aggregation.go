// Package aggregation computes group-level statistics over a party's
// members: vote cohesion, the categories the party acts on most, per-axis
// friction and the member centroid.
package aggregation

import (
	"math"
	"sort"

	"polis/internal/domain"
	"polis/internal/ideology"
	id "polis/pkg/domain"
)

// DominantLimit caps the ranked category list.
const DominantLimit = 3

// ItemCohesion is |s-o|/(s+o). Fewer than two voters does not qualify.
func ItemCohesion(support, oppose int) (float64, bool) {
	n := support + oppose
	if n < 2 {
		return 0, false
	}
	diff := support - oppose
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(n), true
}

// Cohesion averages ItemCohesion over every qualifying item and scales it to
// 0..100. Abstentions are not votes. It returns the number of qualifying
// items; zero means there was nothing to measure and the index is 0.
func Cohesion(actions []domain.RevealedAction) (index int, qualifying int) {
	type tally struct{ support, oppose int }
	tallies := make(map[id.ItemID]*tally)
	for _, a := range actions {
		t, ok := tallies[a.ItemID]
		if !ok {
			t = &tally{}
			tallies[a.ItemID] = t
		}
		switch a.Choice {
		case domain.ChoiceSupport:
			t.support++
		case domain.ChoiceOppose:
			t.oppose++
		}
	}

	var sum float64
	for _, t := range tallies {
		if c, ok := ItemCohesion(t.support, t.oppose); ok {
			sum += c
			qualifying++
		}
	}
	if qualifying == 0 {
		return 0, 0
	}
	return int(math.Round(100 * sum / float64(qualifying))), qualifying
}

// DominantCategories counts actions per item category, drops Other and
// items that are unknown, and returns the top categories by count. Ties
// follow axis order.
func DominantCategories(actions []domain.RevealedAction, items map[id.ItemID]*domain.LegislativeItem) []domain.CategoryCount {
	counts := make(map[ideology.Category]int)
	for _, a := range actions {
		item, ok := items[a.ItemID]
		if !ok || item.Category == ideology.CategoryOther {
			continue
		}
		counts[item.Category]++
	}

	ranked := make([]domain.CategoryCount, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, domain.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category.Rank() < ranked[j].Category.Rank()
	})
	if len(ranked) > DominantLimit {
		ranked = ranked[:DominantLimit]
	}
	return ranked
}

// Friction is the population variance of each axis across the vectors.
// An empty group has zero friction everywhere.
func Friction(vectors []ideology.PositionVector) [ideology.AxisCount]float64 {
	var out [ideology.AxisCount]float64
	if len(vectors) == 0 {
		return out
	}
	for _, a := range ideology.Axes {
		out[a] = AxisVariance(vectors, a)
	}
	return out
}

// AxisMean is the mean of one axis across the vectors; 0 when empty.
func AxisMean(vectors []ideology.PositionVector, a ideology.Axis) float64 {
	if len(vectors) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vectors {
		sum += v.Get(a)
	}
	return sum / float64(len(vectors))
}

// AxisVariance is the population variance of one axis; 0 when empty.
func AxisVariance(vectors []ideology.PositionVector, a ideology.Axis) float64 {
	if len(vectors) == 0 {
		return 0
	}
	mean := AxisMean(vectors, a)
	var sum float64
	for _, v := range vectors {
		d := v.Get(a) - mean
		sum += d * d
	}
	return sum / float64(len(vectors))
}

// Centroid is the mean vector. ok is false for an empty group.
func Centroid(vectors []ideology.PositionVector) (ideology.PositionVector, bool) {
	if len(vectors) == 0 {
		return ideology.Neutral, false
	}
	var values [ideology.AxisCount]float64
	for _, a := range ideology.Axes {
		values[a] = AxisMean(vectors, a)
	}
	return ideology.Clamp(ideology.VectorFromArray(values)), true
}

// Vectors extracts the current vectors of the given actors.
func Vectors(actors []*domain.Actor) []ideology.PositionVector {
	out := make([]ideology.PositionVector, len(actors))
	for i, a := range actors {
		out[i] = a.Vector
	}
	return out
}
