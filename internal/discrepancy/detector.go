// Package discrepancy compares what actors declared with how they voted and
// flags likely reversals ("pivots").
package discrepancy

import (
	"fmt"
	"math"
	"time"

	"polis/internal/domain"
	"polis/internal/ideology"
	id "polis/pkg/domain"
)

// Thresholds tune the per-decision detector and the severity tiers.
type Thresholds struct {
	// Relevance is the minimum impact an axis needs to be checked.
	Relevance float64
	// Gap is the minimum |revealed - current| on the [-2, 2] scale.
	Gap float64
	// MediumFrom and HighFrom bound the severity tiers on the same scale.
	MediumFrom float64
	HighFrom   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Relevance: 0.3, Gap: 1.0, MediumFrom: 1.5, HighFrom: 1.8}
}

// Severity tiers a gap on the [-2, 2] scale.
func (t Thresholds) Severity(gap float64) domain.Severity {
	gap = math.Abs(gap)
	switch {
	case gap >= t.HighFrom:
		return domain.SeverityHigh
	case gap >= t.MediumFrom:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// Deviation scales an absolute gap on the [-2, 2] scale to 0..100.
func Deviation(gap float64) int {
	d := int(math.Round(math.Abs(gap) / 2 * 100))
	if d > 100 {
		return 100
	}
	return d
}

// CategoryResult is the declared-versus-revealed comparison for one category.
type CategoryResult struct {
	Category    ideology.Category
	AvgDeclared float64
	AvgVote     float64
	Deviation   int
	Declared    int
	Votes       int
}

// Comparison is every comparable category for one actor.
type Comparison struct {
	Categories []CategoryResult
	// Partial is set when at least one vote was skipped for lack of impact data.
	Partial bool
}

// Compare runs the per-category comparison. Categories that lack either
// declared answers or usable votes are left out. Items missing from the map
// or carrying no relevance for their axis are skipped and mark the result
// partial.
func Compare(declared []domain.DeclaredPosition, actions []domain.RevealedAction, items map[id.ItemID]*domain.LegislativeItem) Comparison {
	type sums struct {
		declared, vote float64
		nDeclared      int
		nVote          int
	}
	byCategory := make(map[ideology.Category]*sums)
	get := func(c ideology.Category) *sums {
		s, ok := byCategory[c]
		if !ok {
			s = &sums{}
			byCategory[c] = s
		}
		return s
	}

	for _, d := range declared {
		if _, ok := ideology.CategoryAxis(d.Category); !ok {
			continue
		}
		s := get(d.Category)
		s.declared += d.Normalized()
		s.nDeclared++
	}

	var cmp Comparison
	for _, a := range actions {
		item, ok := items[a.ItemID]
		if !ok {
			cmp.Partial = true
			continue
		}
		if _, ok := ideology.CategoryAxis(item.Category); !ok {
			continue
		}
		w, ok := item.CategoryWeight()
		if !ok {
			cmp.Partial = true
			continue
		}
		s := get(item.Category)
		s.vote += a.Choice.Polarity() * w
		s.nVote++
	}

	for _, c := range ideology.Categories {
		s, ok := byCategory[c]
		if !ok || s.nDeclared == 0 || s.nVote == 0 {
			continue
		}
		r := CategoryResult{
			Category:    c,
			AvgDeclared: s.declared / float64(s.nDeclared),
			AvgVote:     s.vote / float64(s.nVote),
			Declared:    s.nDeclared,
			Votes:       s.nVote,
		}
		r.Deviation = Deviation(r.AvgDeclared - r.AvgVote)
		cmp.Categories = append(cmp.Categories, r)
	}
	return cmp
}

// Score is the rounded mean deviation. insufficient is true when nothing
// was comparable; the score is then 0.
func (c Comparison) Score() (score int, insufficient bool) {
	if len(c.Categories) == 0 {
		return 0, true
	}
	var sum float64
	for _, r := range c.Categories {
		sum += float64(r.Deviation)
	}
	return int(math.Round(sum / float64(len(c.Categories)))), false
}

// PivotScore builds the stored score record for an actor.
func (c Comparison) PivotScore(actorID id.ActorID, now time.Time) domain.PivotScore {
	score, insufficient := c.Score()
	return domain.PivotScore{
		ActorID:          actorID,
		Score:            score,
		Categories:       len(c.Categories),
		InsufficientData: insufficient,
		Partial:          c.Partial,
		ComputedAt:       now,
	}
}

// Alerts turns each compared category into a survey-level alert keyed by
// (actor, category). Severity reads the gap on the [-2, 2] scale.
func (c Comparison) Alerts(actorID id.ActorID, t Thresholds, now time.Time) []domain.DiscrepancyAlert {
	out := make([]domain.DiscrepancyAlert, 0, len(c.Categories))
	for _, r := range c.Categories {
		gap := r.AvgDeclared - r.AvgVote
		out = append(out, domain.DiscrepancyAlert{
			ActorID:   actorID,
			Category:  r.Category,
			Deviation: r.Deviation,
			Severity:  t.Severity(gap),
			Rationale: fmt.Sprintf(
				"declared %+.2f on %s across %d answer(s) but voted %+.2f across %d vote(s)",
				r.AvgDeclared, r.Category, r.Declared, r.AvgVote, r.Votes,
			),
			ComputedAt: now,
		})
	}
	return out
}

// DetectDecision checks one vote against the actor's current vector. Only
// axes where the item's impact exceeds t.Relevance are considered. An axis
// triggers when the vote direction and the current position have opposite,
// non-zero signs and the gap exceeds t.Gap. The strongest axis wins.
func DetectDecision(actor *domain.Actor, item *domain.LegislativeItem, choice domain.Choice, t Thresholds, now time.Time) (domain.DiscrepancyAlert, bool) {
	polarity := choice.Polarity()
	if polarity == 0 || item.Impact == nil {
		return domain.DiscrepancyAlert{}, false
	}

	var (
		found    bool
		bestAxis ideology.Axis
		bestGap  float64
		bestRev  float64
	)
	for _, a := range ideology.Axes {
		impact := item.Impact.Get(a)
		if impact <= t.Relevance {
			continue
		}
		revealed := polarity * impact
		current := actor.Vector.Get(a)
		if current == 0 || math.Signbit(revealed) == math.Signbit(current) {
			continue
		}
		gap := revealed - current
		if math.Abs(gap) <= t.Gap {
			continue
		}
		if !found || math.Abs(gap) > math.Abs(bestGap) {
			found, bestAxis, bestGap, bestRev = true, a, gap, revealed
		}
	}
	if !found {
		return domain.DiscrepancyAlert{}, false
	}

	itemID := item.ID
	return domain.DiscrepancyAlert{
		ActorID:   actor.ID,
		Category:  item.Category,
		ItemID:    &itemID,
		Deviation: Deviation(bestGap),
		Severity:  t.Severity(bestGap),
		Rationale: fmt.Sprintf(
			"voted %s on %q: revealed %+.2f on the %s axis against a current position of %+.2f (gap %.2f)",
			choice, item.Title, bestRev, bestAxis, actor.Vector.Get(bestAxis), math.Abs(bestGap),
		),
		ComputedAt: now,
	}, true
}

// Sample picks up to size members spread evenly over the slice. The input
// order must be stable for the result to be.
func Sample[T any](members []T, size int) []T {
	if size <= 0 || size >= len(members) {
		return members
	}
	out := make([]T, size)
	for i := range out {
		out[i] = members[i*len(members)/size]
	}
	return out
}
