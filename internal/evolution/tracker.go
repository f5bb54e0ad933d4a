// Package evolution moves actor vectors in response to observed decisions and
// keeps the append-only history of every change.
package evolution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polis/internal/domain"
	"polis/internal/evolution/metrics"
	"polis/internal/ideology"
	platformmetrics "polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// DefaultStep is how far one vote moves its axis.
const DefaultStep = 0.05

// Store is the persistence surface of the tracker. Every write happens
// inside RunInTx.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateActor(ctx context.Context, actor *domain.Actor) error
	FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	FindActorForUpdate(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	SaveActorVector(ctx context.Context, actor *domain.Actor) error
	ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error)
	AppendHistory(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error)
	ListHistory(ctx context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error)
	FindItem(ctx context.Context, itemID id.ItemID) (*domain.LegislativeItem, error)
	SaveAction(ctx context.Context, action domain.RevealedAction) error
	SaveDeclaredPosition(ctx context.Context, position domain.DeclaredPosition) error
	UpsertAlert(ctx context.Context, alert domain.DiscrepancyAlert) error
}

// DecisionChecker flags a vote that contradicts the voter's vector. Detect
// sees the locked actor before the vote moves it. Raised runs once the
// transaction that stored the alert has committed.
type DecisionChecker interface {
	Detect(actor *domain.Actor, item *domain.LegislativeItem, choice domain.Choice, now time.Time) (domain.DiscrepancyAlert, bool)
	Raised(ctx context.Context, alert domain.DiscrepancyAlert)
}

// Tracker applies revealed actions to actor vectors.
type Tracker struct {
	store             Store
	step              float64
	describeThreshold float64
	logger            *slog.Logger
	metrics           *metrics.Metrics
	platform          *platformmetrics.Metrics
	checker           DecisionChecker
	now               func() time.Time
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithPlatformMetrics(m *platformmetrics.Metrics) Option {
	return func(t *Tracker) {
		t.platform = m
	}
}

// WithStep overrides the per-vote step. Non-positive values are ignored.
func WithStep(step float64) Option {
	return func(t *Tracker) {
		if step > 0 {
			t.step = step
		}
	}
}

func WithDescribeThreshold(threshold float64) Option {
	return func(t *Tracker) {
		if threshold > 0 {
			t.describeThreshold = threshold
		}
	}
}

// WithDecisionChecker checks every recorded vote before it is applied.
func WithDecisionChecker(c DecisionChecker) Option {
	return func(t *Tracker) {
		t.checker = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:             store,
		step:              DefaultStep,
		describeThreshold: ideology.DefaultDescribeThreshold,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var tracer = otel.Tracer("polis/evolution")

// Outcome is the result of recording one action.
type Outcome struct {
	Actor   *domain.Actor            `json:"actor"`
	Entry   domain.HistoryEntry      `json:"history_entry"`
	Changed bool                     `json:"changed"`
	Created bool                     `json:"created"`
	Alert   *domain.DiscrepancyAlert `json:"alert,omitempty"`
}

// Nudge applies one vote to v: the axis mapped from category moves by
// step × polarity and is clamped. Unmapped categories and abstentions leave
// v unchanged.
func Nudge(v ideology.PositionVector, category ideology.Category, choice domain.Choice, step float64) (ideology.PositionVector, bool) {
	axis, ok := ideology.CategoryAxis(category)
	polarity := choice.Polarity()
	if !ok || polarity == 0 {
		return v, false
	}
	next := ideology.Clamp(v.With(axis, v.Get(axis)+step*polarity))
	return next, next != v
}

// Record stores the action, checks it against the actor's current vector,
// moves the vector and appends a history row, all in one transaction. A
// contradicting vote's alert is stored in the same transaction and raised
// only after commit. A citizen seen for the first time is created
// at the neutral vector. Other roles must already exist. An empty role
// accepts whatever the actor already is.
func (t *Tracker) Record(ctx context.Context, actorID id.ActorID, role domain.Role, itemID id.ItemID, choice domain.Choice) (*Outcome, error) {
	start := t.now()
	ctx, sp := tracer.Start(ctx, "evolution.Record",
		trace.WithAttributes(
			attribute.String("actor_id", actorID.String()),
			attribute.String("item_id", itemID.String()),
			attribute.String("choice", string(choice)),
		),
	)
	defer sp.End()

	if !choice.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "choice must be support, oppose or abstain")
	}
	if role != "" && !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid actor role")
	}

	var out Outcome
	err := t.store.RunInTx(ctx, func(ctx context.Context) error {
		actor, created, err := t.lockOrCreate(ctx, sp, actorID, role)
		if err != nil {
			return err
		}
		item, err := t.store.FindItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "item not found")
			}
			return t.storeFailure(ctx, sp, "find_item", err, "failed to load item")
		}

		now := t.now()
		action := domain.RevealedAction{ActorID: actorID, ItemID: itemID, Choice: choice, CastAt: now}
		if err := t.store.SaveAction(ctx, action); err != nil {
			return t.storeFailure(ctx, sp, "save_action", err, "failed to store action")
		}

		var alert *domain.DiscrepancyAlert
		if t.checker != nil {
			if a, ok := t.checker.Detect(actor, item, choice, now); ok {
				if err := t.store.UpsertAlert(ctx, a); err != nil {
					return t.storeFailure(ctx, sp, "upsert_alert", err, "failed to store alert")
				}
				alert = &a
			}
		}

		next, changed := Nudge(actor.Vector, item.Category, choice, t.step)
		entry, err := t.apply(ctx, sp, actor, next, domain.HistoryEntry{
			ItemID: &itemID,
			Choice: choice,
			Source: domain.SourceAction,
		}, now)
		if err != nil {
			return err
		}
		out = Outcome{Actor: actor, Entry: entry, Changed: changed, Created: created, Alert: alert}
		return nil
	})
	if err != nil {
		sp.SetStatus(codes.Error, "record failed")
		return nil, err
	}

	if out.Alert != nil {
		t.checker.Raised(ctx, *out.Alert)
	}
	t.metrics.IncrementAction(string(out.Actor.Role), string(choice))
	t.metrics.ObserveRecordLatency(t.now().Sub(start).Seconds())
	sp.SetAttributes(
		attribute.Bool("changed", out.Changed),
		attribute.Int64("sequence", out.Entry.Sequence),
	)
	return &out, nil
}

func (t *Tracker) lockOrCreate(ctx context.Context, sp trace.Span, actorID id.ActorID, role domain.Role) (*domain.Actor, bool, error) {
	actor, err := t.store.FindActorForUpdate(ctx, actorID)
	switch {
	case err == nil:
		if role != "" && actor.Role != role {
			return nil, false, dErrors.New(dErrors.CodeValidation, "actor role does not match")
		}
		return actor, false, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, false, t.storeFailure(ctx, sp, "lock_actor", err, "failed to load actor")
	case role != "" && role != domain.RoleCitizen:
		return nil, false, dErrors.New(dErrors.CodeNotFound, "actor not found")
	}

	citizen, err := domain.NewCitizen(actorID, t.now())
	if err != nil {
		return nil, false, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := t.store.CreateActor(ctx, citizen); err != nil {
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, false, t.storeFailure(ctx, sp, "create_citizen", err, "failed to create citizen")
		}
		// A concurrent first interaction created it; use theirs.
		actor, err := t.store.FindActorForUpdate(ctx, actorID)
		if err != nil {
			return nil, false, t.storeFailure(ctx, sp, "lock_actor", err, "failed to load actor")
		}
		return actor, false, nil
	}
	if t.logger != nil {
		t.logger.InfoContext(ctx, "citizen created at neutral vector", "actor_id", actorID)
	}
	actor, err = t.store.FindActorForUpdate(ctx, actorID)
	if err != nil {
		return nil, false, t.storeFailure(ctx, sp, "lock_actor", err, "failed to load actor")
	}
	return actor, true, nil
}

// apply writes next as the current vector and appends the matching history
// row. The entry template supplies the source fields.
func (t *Tracker) apply(ctx context.Context, sp trace.Span, actor *domain.Actor, next ideology.PositionVector, entry domain.HistoryEntry, now time.Time) (domain.HistoryEntry, error) {
	actor.ApplyVector(next, now)
	if err := t.store.SaveActorVector(ctx, actor); err != nil {
		return domain.HistoryEntry{}, t.storeFailure(ctx, sp, "save_vector", err, "failed to store vector")
	}
	entry.ActorID = actor.ID
	entry.Vector = actor.Vector
	entry.Label = ideology.DescribeWithThreshold(actor.Vector, t.describeThreshold).Label
	entry.RecordedAt = now
	stored, err := t.store.AppendHistory(ctx, entry)
	if err != nil {
		return domain.HistoryEntry{}, t.storeFailure(ctx, sp, "append_history", err, "failed to append history")
	}
	return stored, nil
}

// History lists an actor's snapshots newest first. limit <= 0 returns all.
func (t *Tracker) History(ctx context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error) {
	ctx, sp := tracer.Start(ctx, "evolution.History")
	defer sp.End()

	if _, err := t.store.FindActor(ctx, actorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return nil, t.storeFailure(ctx, sp, "find_actor", err, "failed to load actor")
	}
	entries, err := t.store.ListHistory(ctx, actorID, limit)
	if err != nil {
		return nil, t.storeFailure(ctx, sp, "list_history", err, "failed to list history")
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (t *Tracker) storeFailure(ctx context.Context, sp trace.Span, op string, err error, msg string) error {
	sp.RecordError(err)
	t.platform.IncrementStoreFailure("evolution." + op)
	if t.logger != nil {
		t.logger.ErrorContext(ctx, "evolution store failure", "operation", op, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
