package aggregation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"polis/internal/aggregation"
	"polis/internal/domain"
	"polis/internal/ideology"
	"polis/internal/platform/metrics"
	"polis/internal/storage"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.GroupStats
	sets    atomic.Int32
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.GroupStats)}
}

func (c *fakeCache) Get(_ context.Context, partyID id.ActorID, window string) (*domain.GroupStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[partyID.String()+window]
	return s, ok, nil
}

func (c *fakeCache) Set(_ context.Context, stats *domain.GroupStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets.Add(1)
	c.entries[stats.PartyID.String()+stats.Window] = stats
	return nil
}

type ServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *storage.InMemory
	cache *fakeCache
	svc   *aggregation.Service
	now   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storage.NewInMemory()
	s.cache = newFakeCache()
	s.now = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.svc = aggregation.New(s.store,
		aggregation.WithCache(s.cache),
		aggregation.WithMetrics(metrics.New(prometheus.NewRegistry())),
		aggregation.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) actor(role domain.Role, party *id.ActorID, v ideology.PositionVector) *domain.Actor {
	a, err := domain.NewActor(id.NewActorID(), role, "", party, v, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateActor(s.ctx, a))
	return a
}

func (s *ServiceSuite) item(c ideology.Category) id.ItemID {
	impact := ideology.ImpactVector{Economic: 0.5}
	it, err := domain.NewLegislativeItem(id.NewItemID(), domain.ItemKindBill, "", c, &impact, nil, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveItem(s.ctx, it))
	return it.ID
}

func (s *ServiceSuite) vote(actorID id.ActorID, itemID id.ItemID, c domain.Choice, at time.Time) {
	s.Require().NoError(s.store.SaveAction(s.ctx, domain.RevealedAction{ActorID: actorID, ItemID: itemID, Choice: c, CastAt: at}))
}

func (s *ServiceSuite) TestComputeGroupStats() {
	s.Run("party of three voting two to one", func() {
		party := s.actor(domain.RoleParty, nil, ideology.Neutral)
		a := s.actor(domain.RoleRepresentative, &party.ID, ideology.PositionVector{Economic: 1})
		b := s.actor(domain.RoleRepresentative, &party.ID, ideology.PositionVector{Economic: -1})
		c := s.actor(domain.RoleCouncilor, &party.ID, ideology.PositionVector{Economic: 0})
		bill := s.item(ideology.CategoryEconomy)
		s.vote(a.ID, bill, domain.ChoiceSupport, s.now.Add(-time.Hour))
		s.vote(b.ID, bill, domain.ChoiceSupport, s.now.Add(-time.Hour))
		s.vote(c.ID, bill, domain.ChoiceOppose, s.now.Add(-time.Hour))
		old := s.item(ideology.CategorySecurity)
		s.vote(a.ID, old, domain.ChoiceSupport, s.now.Add(-60*24*time.Hour))
		s.vote(b.ID, old, domain.ChoiceSupport, s.now.Add(-60*24*time.Hour))

		stats, err := s.svc.ComputeGroupStats(s.ctx, party.ID, "30d")
		s.Require().NoError(err)
		s.Equal(33, stats.CohesionIndex)
		s.Equal(3, stats.MemberCount)
		s.Equal(1, stats.QualifyingItemCount)
		s.False(stats.NoData)
		s.Equal([]domain.CategoryCount{{Category: ideology.CategoryEconomy, Count: 3}}, stats.DominantCategories)
		s.InDelta(2.0/3.0, stats.Friction[ideology.AxisEconomic], 1e-9)

		stored, err := s.store.FindGroupStats(s.ctx, party.ID, "30d")
		s.Require().NoError(err)
		s.Equal(33, stored.CohesionIndex)

		all, err := s.svc.ComputeGroupStats(s.ctx, party.ID, "all")
		s.Require().NoError(err)
		s.Equal(2, all.QualifyingItemCount)
		s.Equal(67, all.CohesionIndex)
	})

	s.Run("party without members has no data", func() {
		party := s.actor(domain.RoleParty, nil, ideology.Neutral)
		stats, err := s.svc.ComputeGroupStats(s.ctx, party.ID, "")
		s.Require().NoError(err)
		s.True(stats.NoData)
		s.Zero(stats.CohesionIndex)
		s.Empty(stats.DominantCategories)
	})

	s.Run("unknown party", func() {
		_, err := s.svc.ComputeGroupStats(s.ctx, id.NewActorID(), "30d")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-party actor", func() {
		citizen := s.actor(domain.RoleCitizen, nil, ideology.Neutral)
		_, err := s.svc.ComputeGroupStats(s.ctx, citizen.ID, "30d")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("bad window", func() {
		party := s.actor(domain.RoleParty, nil, ideology.Neutral)
		_, err := s.svc.ComputeGroupStats(s.ctx, party.ID, "yesterday")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestStatsReadThrough() {
	party := s.actor(domain.RoleParty, nil, ideology.Neutral)
	first, err := s.svc.Stats(s.ctx, party.ID, "30d")
	s.Require().NoError(err)
	s.Equal(int32(1), s.cache.sets.Load())

	second, err := s.svc.Stats(s.ctx, party.ID, "30d")
	s.Require().NoError(err)
	s.Same(first, second)
	s.Equal(int32(1), s.cache.sets.Load())
}

// gatedStore holds ListMembers until released so callers can pile up on one
// computation.
type gatedStore struct {
	*storage.InMemory
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedStore) ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error) {
	if g.calls.Add(1) == 1 {
		close(g.entered)
	}
	<-g.release
	return g.InMemory.ListMembers(ctx, partyID)
}

func (s *ServiceSuite) TestStatsSharedComputationOutlivesCaller() {
	party := s.actor(domain.RoleParty, nil, ideology.Neutral)
	s.actor(domain.RoleRepresentative, &party.ID, ideology.Neutral)
	store := &gatedStore{InMemory: s.store, entered: make(chan struct{}), release: make(chan struct{})}
	svc := aggregation.New(store, aggregation.WithClock(func() time.Time { return s.now }))

	firstCtx, cancelFirst := context.WithCancel(s.ctx)
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Stats(firstCtx, party.ID, "30d")
		firstErr <- err
	}()
	<-store.entered

	type result struct {
		stats *domain.GroupStats
		err   error
	}
	second := make(chan result, 1)
	go func() {
		stats, err := svc.Stats(s.ctx, party.ID, "30d")
		second <- result{stats, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	err := <-firstErr
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))

	close(store.release)
	got := <-second
	s.Require().NoError(got.err)
	s.Equal(1, got.stats.MemberCount)
	s.Equal(int32(1), store.calls.Load())
}
