package discrepancy_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"polis/internal/discrepancy"
	"polis/internal/discrepancy/metrics"
	"polis/internal/discrepancy/mocks"
	"polis/internal/domain"
	"polis/internal/ideology"
	"polis/internal/platform/config"
	"polis/internal/storage"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	store     *storage.InMemory
	publisher *mocks.MockPublisher
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = storage.NewInMemory()
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) service(opts ...discrepancy.Option) *discrepancy.Service {
	base := []discrepancy.Option{
		discrepancy.WithPublisher(s.publisher),
		discrepancy.WithMetrics(metrics.New(prometheus.NewRegistry())),
		discrepancy.WithClock(func() time.Time { return s.now }),
	}
	return discrepancy.New(s.store, append(base, opts...)...)
}

func (s *ServiceSuite) actor(role domain.Role, party *id.ActorID, v ideology.PositionVector) *domain.Actor {
	a, err := domain.NewActor(id.NewActorID(), role, "", party, v, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateActor(s.ctx, a))
	return a
}

func (s *ServiceSuite) item(c ideology.Category, impact ideology.ImpactVector) *domain.LegislativeItem {
	it, err := domain.NewLegislativeItem(id.NewItemID(), domain.ItemKindBill, "bill", c, &impact, nil, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveItem(s.ctx, it))
	return it
}

func (s *ServiceSuite) declare(actorID id.ActorID, c ideology.Category, likert int) {
	p, err := domain.NewDeclaredPosition(actorID, c, likert, "2026", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveDeclaredPosition(s.ctx, *p))
}

func (s *ServiceSuite) vote(actorID id.ActorID, itemID id.ItemID, c domain.Choice) {
	s.Require().NoError(s.store.SaveAction(s.ctx, domain.RevealedAction{ActorID: actorID, ItemID: itemID, Choice: c, CastAt: s.now}))
}

func (s *ServiceSuite) TestRecompute() {
	s.Run("environment reversal scores 100 and is idempotent", func() {
		rep := s.actor(domain.RoleRepresentative, nil, ideology.Neutral)
		s.declare(rep.ID, ideology.CategoryEnvironment, 5)
		a := s.item(ideology.CategoryEnvironment, ideology.ImpactVector{Environment: 1})
		b := s.item(ideology.CategoryEnvironment, ideology.ImpactVector{Environment: 1})
		s.vote(rep.ID, a.ID, domain.ChoiceSupport)
		s.vote(rep.ID, b.ID, domain.ChoiceSupport)

		s.publisher.EXPECT().
			Publish(gomock.Any(), rep.ID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value []byte) error {
				var alert domain.DiscrepancyAlert
				s.Require().NoError(json.Unmarshal(value, &alert))
				s.Equal(100, alert.Deviation)
				s.Equal(domain.SeverityHigh, alert.Severity)
				return nil
			}).
			Times(2)

		svc := s.service()
		first, err := svc.Recompute(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Equal(100, first.Score.Score)
		s.False(first.Score.InsufficientData)
		s.Require().Len(first.Alerts, 1)

		second, err := svc.Recompute(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Equal(first.Score, second.Score)

		alerts, err := s.store.ListAlerts(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Len(alerts, 1)
		stored, err := s.store.FindPivotScore(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Equal(100, stored.Score)
	})

	s.Run("no comparable categories", func() {
		rep := s.actor(domain.RoleRepresentative, nil, ideology.Neutral)
		s.declare(rep.ID, ideology.CategoryValues, 2)

		result, err := s.service().Recompute(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.True(result.Score.InsufficientData)
		s.Zero(result.Score.Score)
		s.Empty(result.Alerts)
	})

	s.Run("publish failure does not fail recomputation", func() {
		rep := s.actor(domain.RoleCouncilor, nil, ideology.Neutral)
		s.declare(rep.ID, ideology.CategoryEconomy, 1)
		it := s.item(ideology.CategoryEconomy, ideology.ImpactVector{Economic: 1})
		s.vote(rep.ID, it.ID, domain.ChoiceOppose)

		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		result, err := s.service().Recompute(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Equal(100, result.Score.Score)
	})

	s.Run("unknown actor", func() {
		_, err := s.service().Recompute(s.ctx, id.NewActorID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("citizens are not scored", func() {
		citizen := s.actor(domain.RoleCitizen, nil, ideology.Neutral)
		s.declare(citizen.ID, ideology.CategoryEnvironment, 5)
		it := s.item(ideology.CategoryEnvironment, ideology.ImpactVector{Environment: 1})
		s.vote(citizen.ID, it.ID, domain.ChoiceSupport)

		_, err := s.service().Recompute(s.ctx, citizen.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		alerts, err := s.store.ListAlerts(s.ctx, citizen.ID)
		s.Require().NoError(err)
		s.Empty(alerts)
		_, err = s.store.FindPivotScore(s.ctx, citizen.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ServiceSuite) TestRecomputeStoreFailure() {
	store := mocks.NewMockStore(s.ctrl)
	actorID := id.NewActorID()
	it := &domain.LegislativeItem{ID: id.NewItemID(), Category: ideology.CategoryEconomy, Impact: &ideology.ImpactVector{Economic: 1}}

	store.EXPECT().FindActor(gomock.Any(), actorID).Return(&domain.Actor{ID: actorID, Role: domain.RoleRepresentative}, nil)
	store.EXPECT().ListDeclaredPositions(gomock.Any(), actorID).Return([]domain.DeclaredPosition{
		{ActorID: actorID, Category: ideology.CategoryEconomy, Likert: 1, Cycle: "2026"},
	}, nil)
	store.EXPECT().ListActionsByActor(gomock.Any(), actorID).Return([]domain.RevealedAction{
		{ActorID: actorID, ItemID: it.ID, Choice: domain.ChoiceOppose},
	}, nil)
	store.EXPECT().FindItems(gomock.Any(), []id.ItemID{it.ID}).Return(map[id.ItemID]*domain.LegislativeItem{it.ID: it}, nil)
	store.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	})
	store.EXPECT().UpsertAlert(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().UpsertPivotScore(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	svc := discrepancy.New(store, discrepancy.WithPublisher(s.publisher))
	_, err := svc.Recompute(s.ctx, actorID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestDetect() {
	s.Run("contradicting vote yields a keyed alert without storing it", func() {
		rep := s.actor(domain.RoleRepresentative, nil, ideology.PositionVector{Security: -0.9})
		it := s.item(ideology.CategorySecurity, ideology.ImpactVector{Security: 0.95})

		alert, ok := s.service().Detect(rep, it, domain.ChoiceSupport, s.now)
		s.Require().True(ok)
		s.Equal(domain.SeverityHigh, alert.Severity)
		s.Equal(rep.ID, alert.ActorID)
		s.Require().NotNil(alert.ItemID)
		s.Equal(it.ID, *alert.ItemID)

		stored, err := s.store.ListAlerts(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Empty(stored)
	})

	s.Run("consistent vote raises nothing", func() {
		rep := s.actor(domain.RoleRepresentative, nil, ideology.PositionVector{Security: 0.9})
		it := s.item(ideology.CategorySecurity, ideology.ImpactVector{Security: 0.95})

		_, ok := s.service().Detect(rep, it, domain.ChoiceSupport, s.now)
		s.False(ok)
	})

	s.Run("citizens are never flagged", func() {
		citizen := s.actor(domain.RoleCitizen, nil, ideology.PositionVector{Security: -0.9})
		it := s.item(ideology.CategorySecurity, ideology.ImpactVector{Security: 0.95})

		_, ok := s.service().Detect(citizen, it, domain.ChoiceSupport, s.now)
		s.False(ok)
	})
}

func (s *ServiceSuite) TestRaised() {
	rep := s.actor(domain.RoleRepresentative, nil, ideology.PositionVector{Security: -0.9})
	it := s.item(ideology.CategorySecurity, ideology.ImpactVector{Security: 0.95})
	m := metrics.New(prometheus.NewRegistry())
	svc := s.service(discrepancy.WithMetrics(m))

	alert, ok := svc.Detect(rep, it, domain.ChoiceSupport, s.now)
	s.Require().True(ok)

	s.Run("publishes keyed by actor", func() {
		s.publisher.EXPECT().Publish(gomock.Any(), rep.ID.String(), gomock.Any()).Return(nil)
		svc.Raised(s.ctx, alert)
		s.Equal(1.0, testutil.ToFloat64(m.Alerts.WithLabelValues("decision", "high")))
	})

	s.Run("publish failure is counted, not returned", func() {
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		svc.Raised(s.ctx, alert)
		s.Equal(1.0, testutil.ToFloat64(m.PublishFailures))
	})
}

func (s *ServiceSuite) TestPartyPivot() {
	party := s.actor(domain.RoleParty, nil, ideology.Neutral)
	econ := s.item(ideology.CategoryEconomy, ideology.ImpactVector{Economic: 1})

	consistent := s.actor(domain.RoleRepresentative, &party.ID, ideology.Neutral)
	s.declare(consistent.ID, ideology.CategoryEconomy, 1)
	s.vote(consistent.ID, econ.ID, domain.ChoiceSupport)

	flipped := s.actor(domain.RoleRepresentative, &party.ID, ideology.Neutral)
	s.declare(flipped.ID, ideology.CategoryEconomy, 5)
	s.vote(flipped.ID, econ.ID, domain.ChoiceSupport)

	s.actor(domain.RoleCouncilor, &party.ID, ideology.Neutral)

	s.Run("full population", func() {
		pivot, err := s.service().PartyPivot(s.ctx, party.ID)
		s.Require().NoError(err)
		s.Equal(config.PartySamplingFull, pivot.Sampling)
		s.Equal(3, pivot.MemberCount)
		s.Equal(3, pivot.Evaluated)
		s.Equal(2, pivot.Scored)
		s.Equal(50, pivot.Score)
		s.False(pivot.InsufficientData)
	})

	s.Run("sampled is deterministic", func() {
		svc := s.service(discrepancy.WithSampling(discrepancy.Sampling{Mode: config.PartySamplingSample, Size: 2}))
		first, err := svc.PartyPivot(s.ctx, party.ID)
		s.Require().NoError(err)
		s.Equal(2, first.Evaluated)
		second, err := svc.PartyPivot(s.ctx, party.ID)
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("party with no scored members", func() {
		empty := s.actor(domain.RoleParty, nil, ideology.Neutral)
		pivot, err := s.service().PartyPivot(s.ctx, empty.ID)
		s.Require().NoError(err)
		s.True(pivot.InsufficientData)
		s.Zero(pivot.Score)
	})

	s.Run("not a party", func() {
		_, err := s.service().PartyPivot(s.ctx, consistent.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestStoredOutputs() {
	rep := s.actor(domain.RoleRepresentative, nil, ideology.Neutral)

	s.Run("nothing computed yet", func() {
		alerts, err := s.service().Alerts(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.NotNil(alerts)
		s.Empty(alerts)

		_, err = s.service().StoredScore(s.ctx, rep.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("reads back the last recomputation", func() {
		s.declare(rep.ID, ideology.CategoryEconomy, 1)
		it := s.item(ideology.CategoryEconomy, ideology.ImpactVector{Economic: 1})
		s.vote(rep.ID, it.ID, domain.ChoiceOppose)
		s.publisher.EXPECT().Publish(gomock.Any(), rep.ID.String(), gomock.Any()).Return(nil)

		svc := s.service()
		_, err := svc.Recompute(s.ctx, rep.ID)
		s.Require().NoError(err)

		alerts, err := svc.Alerts(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Require().Len(alerts, 1)
		s.Equal(ideology.CategoryEconomy, alerts[0].Category)

		score, err := svc.StoredScore(s.ctx, rep.ID)
		s.Require().NoError(err)
		s.Equal(100, score.Score)
	})

	s.Run("unknown actor", func() {
		_, err := s.service().Alerts(s.ctx, id.NewActorID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
