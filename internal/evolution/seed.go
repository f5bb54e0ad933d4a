package evolution

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"polis/internal/aggregation"
	"polis/internal/domain"
	"polis/internal/ideology"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// SeedRequest creates a representative, party or councilor from a
// survey-derived snapshot.
type SeedRequest struct {
	ActorID  id.ActorID
	Role     domain.Role
	Name     string
	PartyID  *id.ActorID
	Snapshot ideology.PositionVector
	// Cycle and Answers optionally record the survey's Likert answers as
	// declared positions in the same transaction.
	Cycle   string
	Answers map[ideology.Category]int
}

// Seed creates the actor at its clamped snapshot and appends the first
// history row. Out-of-range snapshot components are clamped and logged.
func (t *Tracker) Seed(ctx context.Context, req SeedRequest) (*Outcome, error) {
	ctx, sp := tracer.Start(ctx, "evolution.Seed",
		trace.WithAttributes(
			attribute.String("actor_id", req.ActorID.String()),
			attribute.String("role", string(req.Role)),
		),
	)
	defer sp.End()

	if !req.Role.IsSurveySeeded() {
		return nil, dErrors.New(dErrors.CodeValidation, "only representatives, parties and councilors are seeded from a survey")
	}
	if len(req.Answers) > 0 && strings.TrimSpace(req.Cycle) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "election cycle is required with survey answers")
	}
	snapshot, violations := ideology.ClampReport(req.Snapshot)
	for _, v := range violations {
		t.platform.IncrementClampViolation("survey_snapshot", v.Axis.String())
		if t.logger != nil {
			t.logger.WarnContext(ctx, "survey snapshot component out of range",
				"actor_id", req.ActorID,
				"axis", v.Axis.String(),
				"value", v.Value,
			)
		}
	}

	now := t.now()
	actor, err := domain.NewActor(req.ActorID, req.Role, req.Name, req.PartyID, snapshot, now)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	positions := make([]*domain.DeclaredPosition, 0, len(req.Answers))
	for _, c := range ideology.Categories {
		likert, ok := req.Answers[c]
		if !ok {
			continue
		}
		p, err := domain.NewDeclaredPosition(actor.ID, c, likert, req.Cycle, now)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		positions = append(positions, p)
	}
	if len(positions) != len(req.Answers) {
		return nil, dErrors.New(dErrors.CodeValidation, "survey answers contain an unknown category")
	}

	var out Outcome
	err = t.store.RunInTx(ctx, func(ctx context.Context) error {
		if req.PartyID != nil {
			if err := t.requireParty(ctx, sp, *req.PartyID); err != nil {
				return err
			}
		}
		if err := t.store.CreateActor(ctx, actor); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "actor already exists")
			}
			return t.storeFailure(ctx, sp, "create_actor", err, "failed to create actor")
		}
		for _, p := range positions {
			if err := t.store.SaveDeclaredPosition(ctx, *p); err != nil {
				return t.storeFailure(ctx, sp, "save_declared", err, "failed to store survey answer")
			}
		}
		entry, err := t.apply(ctx, sp, actor, snapshot, domain.HistoryEntry{Source: domain.SourceSurvey}, now)
		if err != nil {
			return err
		}
		out = Outcome{Actor: actor, Entry: entry, Changed: true, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.metrics.IncrementSnapshot(string(req.Role), string(domain.SourceSurvey))
	return &out, nil
}

// Declare records one survey answer for an existing actor. A second answer
// for the same (actor, category, cycle) is a conflict.
func (t *Tracker) Declare(ctx context.Context, actorID id.ActorID, category ideology.Category, likert int, cycle string) (*domain.DeclaredPosition, error) {
	ctx, sp := tracer.Start(ctx, "evolution.Declare")
	defer sp.End()

	p, err := domain.NewDeclaredPosition(actorID, category, likert, strings.TrimSpace(cycle), t.now())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if _, err := t.store.FindActor(ctx, actorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return nil, t.storeFailure(ctx, sp, "find_actor", err, "failed to load actor")
	}
	if err := t.store.SaveDeclaredPosition(ctx, *p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "position already declared for this cycle")
		}
		return nil, t.storeFailure(ctx, sp, "save_declared", err, "failed to store survey answer")
	}
	return p, nil
}

// SyncPartyVector sets a party's vector to its members' centroid and appends
// a history row. A party without members is left untouched and reported
// with Changed false.
func (t *Tracker) SyncPartyVector(ctx context.Context, partyID id.ActorID) (*Outcome, error) {
	ctx, sp := tracer.Start(ctx, "evolution.SyncPartyVector",
		trace.WithAttributes(attribute.String("party_id", partyID.String())),
	)
	defer sp.End()

	var out Outcome
	err := t.store.RunInTx(ctx, func(ctx context.Context) error {
		party, err := t.store.FindActorForUpdate(ctx, partyID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "party not found")
			}
			return t.storeFailure(ctx, sp, "lock_party", err, "failed to load party")
		}
		if party.Role != domain.RoleParty {
			return dErrors.New(dErrors.CodeValidation, "actor is not a party")
		}
		members, err := t.store.ListMembers(ctx, partyID)
		if err != nil {
			return t.storeFailure(ctx, sp, "list_members", err, "failed to list party members")
		}
		centroid, ok := aggregation.Centroid(aggregation.Vectors(members))
		if !ok {
			out = Outcome{Actor: party}
			return nil
		}
		entry, err := t.apply(ctx, sp, party, centroid, domain.HistoryEntry{Source: domain.SourcePartyCentre}, t.now())
		if err != nil {
			return err
		}
		out = Outcome{Actor: party, Entry: entry, Changed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Changed {
		t.metrics.IncrementSnapshot(string(domain.RoleParty), string(domain.SourcePartyCentre))
	}
	return &out, nil
}

func (t *Tracker) requireParty(ctx context.Context, sp trace.Span, partyID id.ActorID) error {
	party, err := t.store.FindActor(ctx, partyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "party not found")
		}
		return t.storeFailure(ctx, sp, "find_party", err, "failed to load party")
	}
	if party.Role != domain.RoleParty {
		return dErrors.New(dErrors.CodeValidation, "party_id does not reference a party")
	}
	return nil
}
