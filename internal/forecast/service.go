package forecast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"polis/internal/domain"
	"polis/internal/ideology"
	"polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

const defaultParallelism = 8

// Store is the read surface the forecast needs.
type Store interface {
	FindItem(ctx context.Context, itemID id.ItemID) (*domain.LegislativeItem, error)
	ListActorsByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error)
	ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error)
}

// PartyForecast is one party's line in a forecast.
type PartyForecast struct {
	PartyID     id.ActorID `json:"party_id"`
	Name        string     `json:"name"`
	MemberCount int        `json:"member_count"`
	PartyFriction
}

// Forecast is the chamber-wide friction prediction for one item.
type Forecast struct {
	ItemID        id.ItemID       `json:"item_id"`
	FrictionIndex int             `json:"friction_index"`
	Parties       []PartyForecast `json:"parties"`
	// NoData is set when the item has no impact vector or no party has members.
	NoData     bool      `json:"no_data"`
	ComputedAt time.Time `json:"computed_at"`
}

type Service struct {
	store       Store
	thresholds  Thresholds
	parallelism int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
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

func WithThresholds(t Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

// WithParallelism caps concurrent member reads.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		thresholds:  DefaultThresholds(),
		parallelism: defaultParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var tracer = otel.Tracer("polis/forecast")

// Forecast predicts friction for an item across every party. Member lists
// are read in parallel; the first failure cancels the rest.
func (s *Service) Forecast(ctx context.Context, itemID id.ItemID) (*Forecast, error) {
	ctx, sp := tracer.Start(ctx, "forecast.Forecast",
		trace.WithAttributes(attribute.String("item_id", itemID.String())),
	)
	defer sp.End()

	item, err := s.store.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
		}
		return nil, s.storeFailure(ctx, sp, "find_item", err, "failed to load item")
	}

	out := &Forecast{ItemID: itemID, Parties: []PartyForecast{}, ComputedAt: s.now()}
	if item.Impact == nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "forecast requested for item without impact data", "item_id", itemID)
		}
		out.NoData = true
		return out, nil
	}

	parties, err := s.store.ListActorsByRole(ctx, domain.RoleParty)
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "list_parties", err, "failed to list parties")
	}

	results := make([]PartyForecast, len(parties))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, party := range parties {
		g.Go(func() error {
			members, err := s.store.ListMembers(gctx, party.ID)
			if err != nil {
				return err
			}
			vectors := make([]ideology.PositionVector, len(members))
			for j, m := range members {
				vectors[j] = m.Vector
			}
			results[i] = PartyForecast{
				PartyID:       party.ID,
				Name:          party.Name,
				MemberCount:   len(members),
				PartyFriction: Party(vectors, *item.Impact, s.thresholds),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.storeFailure(ctx, sp, "list_members", err, "failed to list party members")
	}

	frictions := make([]PartyFriction, len(results))
	for i, r := range results {
		frictions[i] = r.PartyFriction
	}
	index, ok := GlobalIndex(frictions)
	out.FrictionIndex = index
	out.NoData = !ok
	out.Parties = results

	sp.SetAttributes(
		attribute.Int("friction_index", index),
		attribute.Int("parties", len(parties)),
	)
	return out, nil
}

func (s *Service) storeFailure(ctx context.Context, sp trace.Span, op string, err error, msg string) error {
	sp.RecordError(err)
	sp.SetStatus(codes.Error, op)
	s.metrics.IncrementStoreFailure("forecast." + op)
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "forecast store failure", "operation", op, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
