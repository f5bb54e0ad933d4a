package domain

import (
	"fmt"
	"time"

	"polis/internal/ideology"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
)

// Choice is an observed decision on one item.
type Choice string

const (
	ChoiceSupport Choice = "support"
	ChoiceOppose  Choice = "oppose"
	ChoiceAbstain Choice = "abstain"
)

func (c Choice) IsValid() bool {
	return c == ChoiceSupport || c == ChoiceOppose || c == ChoiceAbstain
}

// Polarity maps support to +1, oppose to -1 and abstain to 0.
func (c Choice) Polarity() float64 {
	switch c {
	case ChoiceSupport:
		return 1
	case ChoiceOppose:
		return -1
	}
	return 0
}

// ParseChoice accepts the lower-case choice name. "neutral" is an alias for abstain.
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "support", "oppose", "abstain":
		return Choice(s), nil
	case "neutral":
		return ChoiceAbstain, nil
	}
	return "", fmt.Errorf("unknown choice %q", s)
}

// RevealedAction is one observed decision by an actor on an item.
type RevealedAction struct {
	ActorID id.ActorID `json:"actor_id"`
	ItemID  id.ItemID  `json:"item_id"`
	Choice  Choice     `json:"choice"`
	CastAt  time.Time  `json:"cast_at"`
}

// DeclaredPosition is a 1–5 Likert answer for one category, immutable per
// (actor, category, cycle).
type DeclaredPosition struct {
	ActorID    id.ActorID        `json:"actor_id"`
	Category   ideology.Category `json:"category"`
	Likert     int               `json:"likert"`
	Cycle      string            `json:"cycle"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// NewDeclaredPosition validates a survey answer.
func NewDeclaredPosition(actorID id.ActorID, category ideology.Category, likert int, cycle string, now time.Time) (*DeclaredPosition, error) {
	if likert < 1 || likert > 5 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "likert answer must be between 1 and 5")
	}
	if !category.IsValid() || category == ideology.CategoryOther {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "declared positions need an axis category")
	}
	if cycle == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "election cycle is required")
	}
	return &DeclaredPosition{ActorID: actorID, Category: category, Likert: likert, Cycle: cycle, RecordedAt: now}, nil
}

// Normalized maps the Likert answer onto the axis scale: (3 - r) / 2.
func (d DeclaredPosition) Normalized() float64 {
	return float64(3-d.Likert) / 2
}
