// Package domain holds the record shapes shared by the ideology services and
// the relational store.
package domain

import (
	"strings"
	"time"

	"polis/internal/ideology"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
)

// Role distinguishes the four actor kinds. All of them share one vector model.
type Role string

const (
	RoleCitizen        Role = "citizen"
	RoleRepresentative Role = "representative"
	RoleParty          Role = "party"
	RoleCouncilor      Role = "councilor"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCitizen, RoleRepresentative, RoleParty, RoleCouncilor:
		return true
	}
	return false
}

// IsSurveySeeded reports whether actors of this role start from a survey
// snapshot rather than the neutral vector.
func (r Role) IsSurveySeeded() bool {
	return r == RoleRepresentative || r == RoleParty || r == RoleCouncilor
}

// Actor is the aggregate root for anyone holding a position vector.
//
// Invariants:
//   - Vector components are in [-1, 1]
//   - Role is fixed after construction
//   - PartyID is only set for representatives and councilors
//   - Vector equals the newest history entry whenever history exists
type Actor struct {
	ID        id.ActorID              `json:"id"`
	Role      Role                    `json:"role"`
	Name      string                  `json:"name"`
	PartyID   *id.ActorID             `json:"party_id,omitempty"`
	Vector    ideology.PositionVector `json:"vector"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// NewActor validates and builds an actor. The vector is clamped.
func NewActor(actorID id.ActorID, role Role, name string, partyID *id.ActorID, vector ideology.PositionVector, now time.Time) (*Actor, error) {
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "actor id cannot be nil")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid actor role")
	}
	name = strings.TrimSpace(name)
	if len(name) > 256 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "actor name must be 256 characters or less")
	}
	if partyID != nil && role != RoleRepresentative && role != RoleCouncilor {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "only representatives and councilors belong to a party")
	}
	return &Actor{
		ID:        actorID,
		Role:      role,
		Name:      name,
		PartyID:   partyID,
		Vector:    ideology.Clamp(vector),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewCitizen creates a citizen at the neutral vector.
func NewCitizen(actorID id.ActorID, now time.Time) (*Actor, error) {
	return NewActor(actorID, RoleCitizen, "", nil, ideology.Neutral, now)
}

// ApplyVector replaces the current vector. Callers append the matching
// history entry in the same transaction.
func (a *Actor) ApplyVector(v ideology.PositionVector, now time.Time) {
	a.Vector = ideology.Clamp(v)
	a.UpdatedAt = now
}

// HistoryEntry is one immutable snapshot of an actor's vector.
type HistoryEntry struct {
	ActorID    id.ActorID              `json:"actor_id"`
	Sequence   int64                   `json:"sequence"`
	Vector     ideology.PositionVector `json:"vector"`
	Label      string                  `json:"label"`
	ItemID     *id.ItemID              `json:"item_id,omitempty"`
	Choice     Choice                  `json:"choice,omitempty"`
	Source     HistorySource           `json:"source"`
	RecordedAt time.Time               `json:"recorded_at"`
}

// HistorySource says what produced a history row.
type HistorySource string

const (
	SourceAction      HistorySource = "action"
	SourceSurvey      HistorySource = "survey"
	SourcePartyCentre HistorySource = "party_centroid"
)
