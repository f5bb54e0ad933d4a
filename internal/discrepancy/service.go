package discrepancy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polis/internal/discrepancy/metrics"
	"polis/internal/domain"
	"polis/internal/platform/config"
	platformmetrics "polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// Store is the persistence surface of the detector.
type Store interface {
	FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error)
	FindItem(ctx context.Context, itemID id.ItemID) (*domain.LegislativeItem, error)
	FindItems(ctx context.Context, itemIDs []id.ItemID) (map[id.ItemID]*domain.LegislativeItem, error)
	ListDeclaredPositions(ctx context.Context, actorID id.ActorID) ([]domain.DeclaredPosition, error)
	ListActionsByActor(ctx context.Context, actorID id.ActorID) ([]domain.RevealedAction, error)
	UpsertAlert(ctx context.Context, alert domain.DiscrepancyAlert) error
	ListAlerts(ctx context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error)
	UpsertPivotScore(ctx context.Context, score domain.PivotScore) error
	FindPivotScore(ctx context.Context, actorID id.ActorID) (*domain.PivotScore, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher emits alert events once they are stored.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Sampling selects which members feed a party-level score.
type Sampling struct {
	Mode config.PartySampling
	Size int
}

// Service recomputes pivot scores and raises alerts.
type Service struct {
	store         Store
	publisher     Publisher
	thresholds    Thresholds
	sampling      Sampling
	logger        *slog.Logger
	metrics       *metrics.Metrics
	storeFailures *platformmetrics.Metrics
	now           func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPlatformMetrics(m *platformmetrics.Metrics) Option {
	return func(s *Service) {
		s.storeFailures = m
	}
}

// WithPublisher enables alert events.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithThresholds(t Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

func WithSampling(sampling Sampling) Option {
	return func(s *Service) {
		s.sampling = sampling
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		thresholds: DefaultThresholds(),
		sampling:   Sampling{Mode: config.PartySamplingFull},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var tracer = otel.Tracer("polis/discrepancy")

// Result is the output of a recomputation.
type Result struct {
	Score  domain.PivotScore         `json:"pivot_score"`
	Alerts []domain.DiscrepancyAlert `json:"alerts"`
}

// Recompute rebuilds an actor's survey-level alerts and pivot score and
// upserts them together. Running it twice on the same inputs overwrites the
// same keys with the same values.
func (s *Service) Recompute(ctx context.Context, actorID id.ActorID) (*Result, error) {
	ctx, sp := tracer.Start(ctx, "discrepancy.Recompute",
		trace.WithAttributes(attribute.String("actor_id", actorID.String())),
	)
	defer sp.End()

	cmp, err := s.compare(ctx, sp, actorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	result := &Result{
		Score:  cmp.PivotScore(actorID, now),
		Alerts: cmp.Alerts(actorID, s.thresholds, now),
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		for _, a := range result.Alerts {
			if err := s.store.UpsertAlert(ctx, a); err != nil {
				return err
			}
		}
		return s.store.UpsertPivotScore(ctx, result.Score)
	})
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "upsert_pivot", err, "failed to store pivot score")
	}

	if !result.Score.InsufficientData {
		s.metrics.ObservePivotScore(result.Score.Score)
	}
	for _, a := range result.Alerts {
		s.metrics.IncrementAlert("survey", string(a.Severity))
		s.publish(ctx, a)
	}
	sp.SetAttributes(
		attribute.Int("pivot_score", result.Score.Score),
		attribute.Bool("insufficient_data", result.Score.InsufficientData),
	)
	return result, nil
}

// Detect compares one vote with the actor's vector before the vote is
// applied. Citizens are never flagged. Nothing is stored: the caller upserts
// the alert in the transaction that records the vote, then calls Raised.
func (s *Service) Detect(actor *domain.Actor, item *domain.LegislativeItem, choice domain.Choice, now time.Time) (domain.DiscrepancyAlert, bool) {
	if actor.Role == domain.RoleCitizen {
		return domain.DiscrepancyAlert{}, false
	}
	return DetectDecision(actor, item, choice, s.thresholds, now)
}

// Raised counts and publishes a decision alert whose transaction committed.
func (s *Service) Raised(ctx context.Context, alert domain.DiscrepancyAlert) {
	s.metrics.IncrementAlert("decision", string(alert.Severity))
	s.publish(ctx, alert)
}

// PartyPivot summarises a party's members' pivot scores.
type PartyPivot struct {
	PartyID          id.ActorID           `json:"party_id"`
	Score            int                  `json:"score"`
	Sampling         config.PartySampling `json:"sampling"`
	MemberCount      int                  `json:"member_count"`
	Evaluated        int                  `json:"evaluated"`
	Scored           int                  `json:"scored"`
	InsufficientData bool                 `json:"insufficient_data"`
	Partial          bool                 `json:"partial"`
}

// PartyPivot computes the mean pivot score of a party's members, over all of
// them or an evenly spaced sample depending on configuration. It reads only;
// member scores are not stored.
func (s *Service) PartyPivot(ctx context.Context, partyID id.ActorID) (*PartyPivot, error) {
	ctx, sp := tracer.Start(ctx, "discrepancy.PartyPivot",
		trace.WithAttributes(
			attribute.String("party_id", partyID.String()),
			attribute.String("sampling", string(s.sampling.Mode)),
		),
	)
	defer sp.End()

	party, err := s.store.FindActor(ctx, partyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "party not found")
		}
		return nil, s.storeFailure(ctx, sp, "find_party", err, "failed to load party")
	}
	if party.Role != domain.RoleParty {
		return nil, dErrors.New(dErrors.CodeValidation, "actor is not a party")
	}
	members, err := s.store.ListMembers(ctx, partyID)
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "list_members", err, "failed to list party members")
	}

	evaluated := members
	if s.sampling.Mode == config.PartySamplingSample {
		evaluated = Sample(members, s.sampling.Size)
	}

	out := &PartyPivot{
		PartyID:     partyID,
		Sampling:    s.sampling.Mode,
		MemberCount: len(members),
		Evaluated:   len(evaluated),
	}
	var sum float64
	for _, m := range evaluated {
		cmp, err := s.compare(ctx, sp, m.ID)
		if err != nil {
			return nil, err
		}
		out.Partial = out.Partial || cmp.Partial
		score, insufficient := cmp.Score()
		if insufficient {
			continue
		}
		sum += float64(score)
		out.Scored++
	}
	if out.Scored == 0 {
		out.InsufficientData = true
		return out, nil
	}
	out.Score = int(math.Round(sum / float64(out.Scored)))
	return out, nil
}

// Alerts lists the stored alerts of an actor, survey-level and per-decision.
func (s *Service) Alerts(ctx context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error) {
	ctx, sp := tracer.Start(ctx, "discrepancy.Alerts")
	defer sp.End()

	if _, err := s.store.FindActor(ctx, actorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return nil, s.storeFailure(ctx, sp, "find_actor", err, "failed to load actor")
	}
	alerts, err := s.store.ListAlerts(ctx, actorID)
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "list_alerts", err, "failed to list alerts")
	}
	if alerts == nil {
		alerts = []domain.DiscrepancyAlert{}
	}
	return alerts, nil
}

// StoredScore returns the last recomputed pivot score of an actor.
func (s *Service) StoredScore(ctx context.Context, actorID id.ActorID) (*domain.PivotScore, error) {
	ctx, sp := tracer.Start(ctx, "discrepancy.StoredScore")
	defer sp.End()

	score, err := s.store.FindPivotScore(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "pivot score has not been computed")
		}
		return nil, s.storeFailure(ctx, sp, "find_pivot", err, "failed to load pivot score")
	}
	return score, nil
}

func (s *Service) compare(ctx context.Context, sp trace.Span, actorID id.ActorID) (Comparison, error) {
	actor, err := s.store.FindActor(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Comparison{}, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return Comparison{}, s.storeFailure(ctx, sp, "find_actor", err, "failed to load actor")
	}
	if actor.Role == domain.RoleCitizen {
		return Comparison{}, dErrors.New(dErrors.CodeValidation, "citizens are not scored for discrepancies")
	}
	declared, err := s.store.ListDeclaredPositions(ctx, actorID)
	if err != nil {
		return Comparison{}, s.storeFailure(ctx, sp, "list_declared", err, "failed to load declared positions")
	}
	actions, err := s.store.ListActionsByActor(ctx, actorID)
	if err != nil {
		return Comparison{}, s.storeFailure(ctx, sp, "list_actions", err, "failed to load actions")
	}
	itemIDs := make([]id.ItemID, 0, len(actions))
	for _, a := range actions {
		itemIDs = append(itemIDs, a.ItemID)
	}
	items, err := s.store.FindItems(ctx, itemIDs)
	if err != nil {
		return Comparison{}, s.storeFailure(ctx, sp, "find_items", err, "failed to load items")
	}
	cmp := Compare(declared, actions, items)
	if cmp.Partial && s.logger != nil {
		s.logger.WarnContext(ctx, "pivot computed from partial data",
			"actor_id", actorID,
			"actions", len(actions),
			"items_found", len(items),
		)
	}
	return cmp, nil
}

// publish is best effort: the alert is already stored.
func (s *Service) publish(ctx context.Context, alert domain.DiscrepancyAlert) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(alert)
	if err == nil {
		err = s.publisher.Publish(ctx, alert.ActorID.String(), payload)
	}
	if err != nil {
		s.metrics.IncrementPublishFailure()
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to publish discrepancy alert",
				"actor_id", alert.ActorID,
				"category", alert.Category,
				"error", err,
			)
		}
	}
}

func (s *Service) storeFailure(ctx context.Context, sp trace.Span, op string, err error, msg string) error {
	sp.RecordError(err)
	sp.SetStatus(codes.Error, op)
	s.storeFailures.IncrementStoreFailure("discrepancy." + op)
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "discrepancy store failure", "operation", op, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
