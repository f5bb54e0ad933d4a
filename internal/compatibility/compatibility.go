// Package compatibility is the single distance metric over position vectors.
// Citizen–representative, citizen–citizen and group matching all go through it.
package compatibility

import (
	"math"
	"sort"

	"polis/internal/ideology"
	id "polis/pkg/domain"
)

// MaxDistance is the diameter of the [-1,1]^6 cube: √24.
var MaxDistance = math.Sqrt(4 * ideology.AxisCount)

// Distance is the Euclidean distance between a and b.
func Distance(a, b ideology.PositionVector) float64 {
	av, bv := a.Array(), b.Array()
	var sum float64
	for i := range av {
		d := av[i] - bv[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Compatibility maps distance onto an integer score in [0, 100].
func Compatibility(a, b ideology.PositionVector) int {
	score := math.Round(100 * (1 - Distance(a, b)/MaxDistance))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// Result pairs both measures for one comparison.
type Result struct {
	Distance      float64 `json:"distance"`
	Compatibility int     `json:"compatibility"`
}

// Compare returns distance and compatibility together.
func Compare(a, b ideology.PositionVector) Result {
	return Result{Distance: Distance(a, b), Compatibility: Compatibility(a, b)}
}

// Candidate is anything with an identity and a position.
type Candidate struct {
	ID     id.ActorID
	Name   string
	Vector ideology.PositionVector
}

// Match is a ranked candidate.
type Match struct {
	ActorID       id.ActorID `json:"actor_id"`
	Name          string     `json:"name,omitempty"`
	Distance      float64    `json:"distance"`
	Compatibility int        `json:"compatibility"`
}

// Rank orders candidates by closeness to subject. Ties break on id so the
// ranking is deterministic. limit <= 0 returns everything.
func Rank(subject ideology.PositionVector, candidates []Candidate, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		r := Compare(subject, c.Vector)
		matches = append(matches, Match{
			ActorID:       c.ID,
			Name:          c.Name,
			Distance:      r.Distance,
			Compatibility: r.Compatibility,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ActorID.String() < matches[j].ActorID.String()
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// NearestGroup returns the group whose centre is closest to subject.
// ok is false when groups is empty.
func NearestGroup(subject ideology.PositionVector, groups []Candidate) (Match, bool) {
	ranked := Rank(subject, groups, 1)
	if len(ranked) == 0 {
		return Match{}, false
	}
	return ranked[0], true
}
