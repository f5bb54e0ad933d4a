package domain

import (
	"time"

	"polis/internal/ideology"
	id "polis/pkg/domain"
)

// Severity tiers a discrepancy alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AlertKey identifies an alert. ItemID is nil for survey-level alerts that
// cover a whole category.
type AlertKey struct {
	ActorID  id.ActorID
	Category ideology.Category
	ItemID   id.ItemID
}

// DiscrepancyAlert flags a gap between what an actor said and what they did.
type DiscrepancyAlert struct {
	ActorID    id.ActorID        `json:"actor_id"`
	Category   ideology.Category `json:"category"`
	ItemID     *id.ItemID        `json:"item_id,omitempty"`
	Deviation  int               `json:"deviation"`
	Severity   Severity          `json:"severity"`
	Rationale  string            `json:"rationale"`
	ComputedAt time.Time         `json:"computed_at"`
}

// Key returns the alert's upsert key.
func (a DiscrepancyAlert) Key() AlertKey {
	k := AlertKey{ActorID: a.ActorID, Category: a.Category}
	if a.ItemID != nil {
		k.ItemID = *a.ItemID
	}
	return k
}

// PivotScore summarises an actor's declared-versus-revealed drift.
type PivotScore struct {
	ActorID          id.ActorID `json:"actor_id"`
	Score            int        `json:"score"`
	Categories       int        `json:"categories"`
	InsufficientData bool       `json:"insufficient_data"`
	Partial          bool       `json:"partial"`
	ComputedAt       time.Time  `json:"computed_at"`
}

// CategoryCount is one entry of a dominant-category ranking.
type CategoryCount struct {
	Category ideology.Category `json:"category"`
	Count    int               `json:"count"`
}

// GroupStats is the aggregated picture of a party over a window.
type GroupStats struct {
	PartyID             id.ActorID                  `json:"party_id"`
	Window              string                      `json:"window"`
	CohesionIndex       int                         `json:"cohesion_index"`
	Friction            [ideology.AxisCount]float64 `json:"friction"`
	DominantCategories  []CategoryCount             `json:"dominant_categories"`
	MemberCount         int                         `json:"member_count"`
	QualifyingItemCount int                         `json:"qualifying_item_count"`
	NoData              bool                        `json:"no_data"`
	ComputedAt          time.Time                   `json:"computed_at"`
}
