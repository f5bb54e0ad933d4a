package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"polis/internal/domain"
	"polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// Store is the read/write surface the aggregation service needs.
type Store interface {
	FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error)
	ListActionsByActors(ctx context.Context, actorIDs []id.ActorID, since time.Time) ([]domain.RevealedAction, error)
	FindItems(ctx context.Context, itemIDs []id.ItemID) (map[id.ItemID]*domain.LegislativeItem, error)
	UpsertGroupStats(ctx context.Context, stats domain.GroupStats) error
}

// Cache holds recently computed group stats. Implementations may be stale by
// up to their TTL.
type Cache interface {
	Get(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, bool, error)
	Set(ctx context.Context, stats *domain.GroupStats) error
}

// DefaultComputeTimeout bounds a shared computation in Stats.
const DefaultComputeTimeout = 10 * time.Second

// Service computes and persists GroupStats.
type Service struct {
	store          Store
	cache          Cache
	group          singleflight.Group
	computeTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
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

// WithCache enables read-through caching in Stats.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithComputeTimeout bounds the computation shared by concurrent misses.
func WithComputeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.computeTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, computeTimeout: DefaultComputeTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var tracer = otel.Tracer("polis/aggregation")

// Stats returns group stats for a party, serving from the cache when it can.
// Concurrent misses for the same key share one computation. It runs
// detached from any single caller's cancellation, under its own timeout, and
// each caller stops waiting when its own context ends.
func (s *Service) Stats(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error) {
	key, _, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, partyID, key)
		if err != nil {
			s.logWarn(ctx, "group stats cache read failed", "party_id", partyID, "error", err)
		}
		s.metrics.IncrementCacheLookup("group_stats", ok)
		if ok {
			return cached, nil
		}
	}

	ch := s.group.DoChan(partyID.String()+"|"+key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()
		return s.ComputeGroupStats(shared, partyID, key)
	})
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "group stats request ended before computation finished")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.GroupStats), nil
	}
}

// ComputeGroupStats recomputes the stats for a party over a window and
// upserts them under (party, window).
func (s *Service) ComputeGroupStats(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error) {
	key, length, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}
	ctx, sp := tracer.Start(ctx, "aggregation.ComputeGroupStats",
		trace.WithAttributes(
			attribute.String("party_id", partyID.String()),
			attribute.String("window", key),
		),
	)
	defer sp.End()

	party, err := s.store.FindActor(ctx, partyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "party not found")
		}
		return nil, s.storeFailure(ctx, sp, "find_party", err)
	}
	if party.Role != domain.RoleParty {
		return nil, dErrors.New(dErrors.CodeValidation, "actor is not a party")
	}

	members, err := s.store.ListMembers(ctx, partyID)
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "list_members", err)
	}

	now := s.now()
	stats := &domain.GroupStats{
		PartyID:     partyID,
		Window:      key,
		MemberCount: len(members),
		Friction:    Friction(Vectors(members)),
		ComputedAt:  now,
	}

	if len(members) > 0 {
		memberIDs := make([]id.ActorID, len(members))
		for i, m := range members {
			memberIDs[i] = m.ID
		}
		actions, err := s.store.ListActionsByActors(ctx, memberIDs, windowStart(now, length))
		if err != nil {
			return nil, s.storeFailure(ctx, sp, "list_actions", err)
		}
		items, err := s.store.FindItems(ctx, uniqueItems(actions))
		if err != nil {
			return nil, s.storeFailure(ctx, sp, "find_items", err)
		}
		stats.CohesionIndex, stats.QualifyingItemCount = Cohesion(actions)
		stats.DominantCategories = DominantCategories(actions, items)
	}
	if stats.DominantCategories == nil {
		stats.DominantCategories = []domain.CategoryCount{}
	}
	stats.NoData = stats.QualifyingItemCount == 0

	if err := s.store.UpsertGroupStats(ctx, *stats); err != nil {
		return nil, s.storeFailure(ctx, sp, "upsert_group_stats", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logWarn(ctx, "group stats cache write failed", "party_id", partyID, "error", err)
		}
	}

	sp.SetAttributes(
		attribute.Int("cohesion_index", stats.CohesionIndex),
		attribute.Int("member_count", stats.MemberCount),
	)
	return stats, nil
}

func uniqueItems(actions []domain.RevealedAction) []id.ItemID {
	seen := make(map[id.ItemID]bool, len(actions))
	out := make([]id.ItemID, 0, len(actions))
	for _, a := range actions {
		if !seen[a.ItemID] {
			seen[a.ItemID] = true
			out = append(out, a.ItemID)
		}
	}
	return out
}

func (s *Service) storeFailure(ctx context.Context, sp trace.Span, op string, err error) error {
	sp.RecordError(err)
	sp.SetStatus(codes.Error, op)
	s.metrics.IncrementStoreFailure("aggregation." + op)
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "aggregation store failure", "operation", op, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to %s", opVerb(op)))
}

func opVerb(op string) string {
	switch op {
	case "find_party":
		return "load party"
	case "list_members":
		return "list party members"
	case "list_actions":
		return "list member actions"
	case "find_items":
		return "load items"
	default:
		return "store group stats"
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}
