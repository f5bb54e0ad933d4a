package domain

import (
	"strings"
	"time"

	"polis/internal/ideology"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
)

// ItemKind distinguishes national bills from municipal decisions.
type ItemKind string

const (
	ItemKindBill     ItemKind = "bill"
	ItemKindDecision ItemKind = "decision"
)

func (k ItemKind) IsValid() bool {
	return k == ItemKindBill || k == ItemKindDecision
}

// LegislativeItem is immutable once stored. Impact is nil when the text
// analysis never produced one; consumers treat that as missing data.
type LegislativeItem struct {
	ID        id.ItemID                 `json:"id"`
	Kind      ItemKind                  `json:"kind"`
	Title     string                    `json:"title"`
	Category  ideology.Category         `json:"category"`
	Impact    *ideology.ImpactVector    `json:"impact,omitempty"`
	Relevance ideology.RelevanceWeights `json:"relevance,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// NewLegislativeItem validates an item. Impact must already be clamped.
func NewLegislativeItem(itemID id.ItemID, kind ItemKind, title string, category ideology.Category, impact *ideology.ImpactVector, relevance ideology.RelevanceWeights, now time.Time) (*LegislativeItem, error) {
	if itemID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "item id cannot be nil")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid item kind")
	}
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid item category")
	}
	if impact != nil {
		for _, a := range ideology.Axes {
			if impact.Get(a) < 0 {
				return nil, dErrors.New(dErrors.CodeInvariantViolation, "impact components must be non-negative")
			}
		}
	}
	return &LegislativeItem{
		ID:        itemID,
		Kind:      kind,
		Title:     strings.TrimSpace(title),
		Category:  category,
		Impact:    impact,
		Relevance: relevance,
		CreatedAt: now,
	}, nil
}

// CategoryWeight is the relevance of this item for its own category's axis.
func (i *LegislativeItem) CategoryWeight() (float64, bool) {
	a, ok := ideology.CategoryAxis(i.Category)
	if !ok {
		return 0, false
	}
	return ideology.Weight(i.Impact, i.Relevance, a)
}
