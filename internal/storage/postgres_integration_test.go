//go:build integration

package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"polis/internal/domain"
	"polis/internal/ideology"
	"polis/internal/storage"
	id "polis/pkg/domain"
	"polis/pkg/platform/sentinel"
	"polis/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *storage.Postgres
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = storage.NewPostgres(s.postgres.DB, 5*time.Second)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"group_stats", "pivot_scores", "discrepancy_alerts", "revealed_actions",
		"declared_positions", "legislative_items", "actor_history", "actors")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newActor(role domain.Role, party *id.ActorID) *domain.Actor {
	actor, err := domain.NewActor(id.NewActorID(), role, "pg", party, ideology.Neutral.With(ideology.AxisValues, -0.25), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateActor(context.Background(), actor))
	return actor
}

func (s *PostgresStoreSuite) TestActorRoundTrip() {
	ctx := context.Background()
	party := s.newActor(domain.RoleParty, nil)
	rep := s.newActor(domain.RoleRepresentative, &party.ID)

	found, err := s.store.FindActor(ctx, rep.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.PartyID)
	s.Equal(party.ID, *found.PartyID)
	s.InDelta(-0.25, found.Vector.Values, 1e-9)

	s.ErrorIs(s.store.CreateActor(ctx, rep), sentinel.ErrConflict)

	_, err = s.store.FindActor(ctx, id.NewActorID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTxRollback() {
	ctx := context.Background()
	actor := s.newActor(domain.RoleCitizen, nil)
	boom := errors.New("boom")

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := s.store.FindActorForUpdate(ctx, actor.ID)
		s.Require().NoError(err)
		locked.ApplyVector(ideology.Neutral.With(ideology.AxisEconomic, 1), s.now)
		s.Require().NoError(s.store.SaveActorVector(ctx, locked))
		_, err = s.store.AppendHistory(ctx, domain.HistoryEntry{
			ActorID: actor.ID, Vector: locked.Vector, Label: "x", Source: domain.SourceAction, RecordedAt: s.now,
		})
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)

	found, err := s.store.FindActor(ctx, actor.ID)
	s.Require().NoError(err)
	s.InDelta(0, found.Vector.Economic, 1e-9)
	rows, err := s.store.ListHistory(ctx, actor.ID, 0)
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *PostgresStoreSuite) TestConcurrentHistoryAppends() {
	ctx := context.Background()
	actor := s.newActor(domain.RoleCitizen, nil)
	const writers = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.RunInTx(ctx, func(ctx context.Context) error {
				if _, err := s.store.FindActorForUpdate(ctx, actor.ID); err != nil {
					return err
				}
				_, err := s.store.AppendHistory(ctx, domain.HistoryEntry{
					ActorID: actor.ID, Vector: ideology.Neutral, Label: "Centrist", Source: domain.SourceAction, RecordedAt: time.Now(),
				})
				return err
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	rows, err := s.store.ListHistory(ctx, actor.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(rows, writers)
	s.Equal(int64(writers), rows[0].Sequence)
}

func (s *PostgresStoreSuite) TestHistoryIsAppendOnly() {
	ctx := context.Background()
	actor := s.newActor(domain.RoleCitizen, nil)
	_, err := s.store.AppendHistory(ctx, domain.HistoryEntry{
		ActorID: actor.ID, Vector: ideology.Neutral, Label: "Centrist", Source: domain.SourceAction, RecordedAt: s.now,
	})
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx, `UPDATE actor_history SET label = 'edited' WHERE actor_id = $1`, actor.ID.String())
	s.Error(err)
}

func (s *PostgresStoreSuite) TestItemsAndActions() {
	ctx := context.Background()
	actor := s.newActor(domain.RoleRepresentative, nil)
	impact := ideology.ImpactVector{Economic: 0.7, Security: 0.1}
	item, err := domain.NewLegislativeItem(id.NewItemID(), domain.ItemKindBill, "Budget", ideology.CategoryEconomy,
		&impact, ideology.RelevanceWeights{ideology.AxisEconomic: 0.9}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveItem(ctx, item))
	s.ErrorIs(s.store.SaveItem(ctx, item), storage.ErrConflict)

	items, err := s.store.FindItems(ctx, []id.ItemID{item.ID, id.NewItemID()})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.InDelta(0.7, items[item.ID].Impact.Economic, 1e-9)
	s.InDelta(0.9, items[item.ID].Relevance[ideology.AxisEconomic], 1e-9)

	s.Require().NoError(s.store.SaveAction(ctx, domain.RevealedAction{ActorID: actor.ID, ItemID: item.ID, Choice: domain.ChoiceSupport, CastAt: s.now}))
	s.Require().NoError(s.store.SaveAction(ctx, domain.RevealedAction{ActorID: actor.ID, ItemID: item.ID, Choice: domain.ChoiceOppose, CastAt: s.now}))
	actions, err := s.store.ListActionsByActors(ctx, []id.ActorID{actor.ID}, s.now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().Len(actions, 1)
	s.Equal(domain.ChoiceOppose, actions[0].Choice)
}

func (s *PostgresStoreSuite) TestOutputs() {
	ctx := context.Background()
	party := s.newActor(domain.RoleParty, nil)

	stats := domain.GroupStats{
		PartyID: party.ID, Window: "30d", CohesionIndex: 80,
		DominantCategories: []domain.CategoryCount{{Category: ideology.CategoryEconomy, Count: 3}},
		MemberCount:        4, QualifyingItemCount: 2, ComputedAt: s.now,
	}
	stats.Friction[0] = 0.25
	s.Require().NoError(s.store.UpsertGroupStats(ctx, stats))
	stats.CohesionIndex = 60
	s.Require().NoError(s.store.UpsertGroupStats(ctx, stats))

	found, err := s.store.FindGroupStats(ctx, party.ID, "30d")
	s.Require().NoError(err)
	s.Equal(60, found.CohesionIndex)
	s.InDelta(0.25, found.Friction[0], 1e-9)
	s.Equal(stats.DominantCategories, found.DominantCategories)

	itemID := id.NewItemID()
	s.Require().NoError(s.store.UpsertAlert(ctx, domain.DiscrepancyAlert{ActorID: party.ID, Category: ideology.CategoryValues, Deviation: 55, Severity: domain.SeverityMedium, Rationale: "survey", ComputedAt: s.now}))
	s.Require().NoError(s.store.UpsertAlert(ctx, domain.DiscrepancyAlert{ActorID: party.ID, Category: ideology.CategoryValues, ItemID: &itemID, Deviation: 70, Severity: domain.SeverityHigh, Rationale: "vote", ComputedAt: s.now}))
	alerts, err := s.store.ListAlerts(ctx, party.ID)
	s.Require().NoError(err)
	s.Len(alerts, 2)
}

var _ storage.Store = (*storage.Postgres)(nil)
