package httptransport_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"polis/internal/discrepancy"
	"polis/internal/domain"
	"polis/internal/evolution"
	"polis/internal/ideology"
	"polis/internal/platform/logger"
	"polis/internal/platform/metrics"
	"polis/internal/storage"
	httptransport "polis/internal/transport/http"
	id "polis/pkg/domain"
	tu "polis/pkg/testutil"
)

// actionsRouter wires the real tracker and detector over one in-memory store.
func actionsRouter(t *testing.T, store *storage.InMemory) http.Handler {
	t.Helper()
	detector := discrepancy.New(store)
	m := metrics.New(prometheus.NewRegistry())
	h := httptransport.NewHandler(httptransport.Services{
		Tracker:  evolution.New(store, evolution.WithDecisionChecker(detector)),
		Detector: detector,
	}, logger.Discard(), m)
	return httptransport.NewRouter(h, httptransport.RouterConfig{
		Logger:         logger.Discard(),
		Metrics:        m,
		Gatherer:       prometheus.NewRegistry(),
		RequestTimeout: 5 * time.Second,
	})
}

func TestRecordActionAlertsFollowTheVote(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	seed := func(t *testing.T, store *storage.InMemory) (id.ActorID, id.ItemID) {
		rep, err := domain.NewActor(id.NewActorID(), domain.RoleRepresentative, "rep", nil, ideology.PositionVector{Economic: -0.9}, now)
		require.NoError(t, err)
		require.NoError(t, store.CreateActor(ctx, rep))
		impact := ideology.ImpactVector{Economic: 0.9}
		it, err := domain.NewLegislativeItem(id.NewItemID(), domain.ItemKindBill, "tax cut", ideology.CategoryEconomy, &impact, nil, now)
		require.NoError(t, err)
		require.NoError(t, store.SaveItem(ctx, it))
		return rep.ID, it.ID
	}

	tu.Given(t, "a representative voting against their position", func(t *testing.T) {
		tu.Then(t, "a rejected vote leaves neither action nor alert", func(t *testing.T) {
			store := storage.NewInMemory()
			repID, itemID := seed(t, store)

			rr := tu.DoRequest(actionsRouter(t, store), tu.NewJSONRequest(t, http.MethodPost, "/v1/actors/"+repID.String()+"/actions", map[string]string{
				"item_id": itemID.String(), "choice": "support", "role": "councilor",
			}))
			tu.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")

			actions, err := store.ListActionsByActor(ctx, repID)
			require.NoError(t, err)
			require.Empty(t, actions)
			alerts, err := store.ListAlerts(ctx, repID)
			require.NoError(t, err)
			require.Empty(t, alerts)
		})

		tu.Then(t, "an accepted vote stores and returns its alert", func(t *testing.T) {
			store := storage.NewInMemory()
			repID, itemID := seed(t, store)
			router := actionsRouter(t, store)

			rr := tu.DoRequest(router, tu.NewJSONRequest(t, http.MethodPost, "/v1/actors/"+repID.String()+"/actions", map[string]string{
				"item_id": itemID.String(), "choice": "support", "role": "representative",
			}))
			tu.AssertStatusOK(t, rr)
			tu.AssertJSONHasKey(t, rr, "alert")

			rr = tu.DoRequest(router, tu.NewRequest(t, http.MethodGet, "/v1/actors/"+repID.String()+"/alerts"))
			tu.AssertStatusOK(t, rr)
			resp := tu.UnmarshalResponse[struct {
				Alerts []domain.DiscrepancyAlert `json:"alerts"`
			}](t, rr)
			require.Len(t, resp.Alerts, 1)
			require.Equal(t, domain.SeverityHigh, resp.Alerts[0].Severity)
		})
	})
}
