package httptransport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"polis/internal/analysis"
	"polis/internal/compatibility"
	"polis/internal/discrepancy"
	"polis/internal/domain"
	"polis/internal/evolution"
	"polis/internal/forecast"
	"polis/internal/ideology"
	"polis/internal/platform/logger"
	"polis/internal/platform/metrics"
	httptransport "polis/internal/transport/http"
	"polis/internal/transport/http/mocks"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	tu "polis/pkg/testutil"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mocks.go -package=mocks Matcher,Tracker,Detector,Aggregator,Forecaster,Ingestor

type HandlerSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	matcher    *mocks.MockMatcher
	tracker    *mocks.MockTracker
	detector   *mocks.MockDetector
	aggregator *mocks.MockAggregator
	forecaster *mocks.MockForecaster
	ingestor   *mocks.MockIngestor
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	router     http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.matcher = mocks.NewMockMatcher(s.ctrl)
	s.tracker = mocks.NewMockTracker(s.ctrl)
	s.detector = mocks.NewMockDetector(s.ctrl)
	s.aggregator = mocks.NewMockAggregator(s.ctrl)
	s.forecaster = mocks.NewMockForecaster(s.ctrl)
	s.ingestor = mocks.NewMockIngestor(s.ctrl)
	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.New(s.registry)

	h := httptransport.NewHandler(httptransport.Services{
		Matcher:    s.matcher,
		Tracker:    s.tracker,
		Detector:   s.detector,
		Aggregator: s.aggregator,
		Forecaster: s.forecaster,
		Ingestor:   s.ingestor,
	}, logger.Discard(), s.metrics)
	s.router = httptransport.NewRouter(h, httptransport.RouterConfig{
		Logger:         logger.Discard(),
		Metrics:        s.metrics,
		Gatherer:       s.registry,
		RequestTimeout: 5 * time.Second,
	})
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return tu.DoRequest(s.router, req)
}

func (s *HandlerSuite) TestCompatibilityClampsInput() {
	rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/compatibility", map[string]any{
		"a": map[string]float64{"economic": 2},
		"b": map[string]float64{"economic": 1},
	}))

	tu.AssertStatusOK(s.T(), rr)
	resp := tu.UnmarshalResponse[struct {
		Distance      float64 `json:"distance"`
		Compatibility int     `json:"compatibility"`
		A             struct {
			Label string `json:"label"`
		} `json:"a"`
	}](s.T(), rr)
	s.Equal(100, resp.Compatibility)
	s.Zero(resp.Distance)
	s.Equal("Free-Market", resp.A.Label)
	s.InDelta(1, testutil.ToFloat64(s.metrics.ClampViolations.WithLabelValues("http_request", "economic")), 0)
}

func (s *HandlerSuite) TestMatches() {
	actorID := id.NewActorID()
	repID := id.NewActorID()
	s.matcher.EXPECT().Matches(gomock.Any(), actorID, domain.RoleCouncilor, 3).
		Return([]compatibility.Match{{ActorID: repID, Compatibility: 91}}, nil)

	rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/"+actorID.String()+"/matches?role=councilor&limit=3"))
	tu.AssertStatusOK(s.T(), rr)
	resp := tu.UnmarshalResponse[struct {
		Role    string                `json:"role"`
		Matches []compatibility.Match `json:"matches"`
	}](s.T(), rr)
	s.Equal("councilor", resp.Role)
	s.Require().Len(resp.Matches, 1)
	s.Equal(repID, resp.Matches[0].ActorID)

	s.Run("bad limit", func() {
		rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/"+actorID.String()+"/matches?limit=-1"))
		tu.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("bad id", func() {
		rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/not-a-uuid/matches"))
		tu.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestRecordActionReturnsAlert() {
	repID := id.NewActorID()
	itemID := id.NewItemID()
	alert := &domain.DiscrepancyAlert{ActorID: repID, ItemID: &itemID, Category: ideology.CategorySecurity, Deviation: 92, Severity: domain.SeverityHigh}

	s.tracker.EXPECT().Record(gomock.Any(), repID, domain.RoleRepresentative, itemID, domain.ChoiceSupport).
		Return(&evolution.Outcome{Actor: &domain.Actor{ID: repID, Role: domain.RoleRepresentative}, Changed: true, Alert: alert}, nil)

	rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+repID.String()+"/actions", map[string]string{
		"item_id": itemID.String(),
		"choice":  "Support",
		"role":    "representative",
	}))
	tu.AssertStatusOK(s.T(), rr)
	resp := tu.UnmarshalResponse[struct {
		Changed bool                     `json:"changed"`
		Alert   *domain.DiscrepancyAlert `json:"alert"`
	}](s.T(), rr)
	s.True(resp.Changed)
	s.Require().NotNil(resp.Alert)
	s.Equal(domain.SeverityHigh, resp.Alert.Severity)
}

func (s *HandlerSuite) TestRecordActionForCitizens() {
	itemID := id.NewItemID()

	s.Run("declared citizen", func() {
		citizenID := id.NewActorID()
		s.tracker.EXPECT().Record(gomock.Any(), citizenID, domain.RoleCitizen, itemID, domain.ChoiceAbstain).
			Return(&evolution.Outcome{Actor: &domain.Actor{ID: citizenID}}, nil)

		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+citizenID.String()+"/actions", map[string]string{
			"item_id": itemID.String(), "choice": "neutral", "role": "citizen",
		}))
		tu.AssertStatusOK(s.T(), rr)
		tu.AssertJSONContains(s.T(), rr, "alert", nil)
	})

	s.Run("unknown actor without role is created", func() {
		citizenID := id.NewActorID()
		s.tracker.EXPECT().Record(gomock.Any(), citizenID, domain.Role(""), itemID, domain.ChoiceOppose).
			Return(&evolution.Outcome{Actor: &domain.Actor{ID: citizenID}, Created: true}, nil)

		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+citizenID.String()+"/actions", map[string]string{
			"item_id": itemID.String(), "choice": "oppose",
		}))
		tu.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("unknown representative is not created", func() {
		repID := id.NewActorID()
		s.tracker.EXPECT().Record(gomock.Any(), repID, domain.RoleRepresentative, itemID, domain.ChoiceOppose).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "actor not found"))

		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+repID.String()+"/actions", map[string]string{
			"item_id": itemID.String(), "choice": "oppose", "role": "representative",
		}))
		tu.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("invalid choice", func() {
		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+id.NewActorID().String()+"/actions", map[string]string{
			"item_id": itemID.String(), "choice": "maybe",
		}))
		tu.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed body", func() {
		rr := s.do(tu.NewRequestWithBody(s.T(), http.MethodPost, "/v1/actors/"+id.NewActorID().String()+"/actions", "{"))
		tu.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestSeedActor() {
	partyID := id.NewActorID()
	s.tracker.EXPECT().Seed(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req evolution.SeedRequest) (*evolution.Outcome, error) {
			s.Equal(domain.RoleRepresentative, req.Role)
			s.Require().NotNil(req.PartyID)
			s.Equal(partyID, *req.PartyID)
			s.InDelta(0.6, req.Snapshot.Values, 1e-9)
			s.Equal(2, req.Answers[ideology.CategoryValues])
			return &evolution.Outcome{Actor: &domain.Actor{ID: req.ActorID, Role: req.Role}, Created: true}, nil
		})

	rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors", map[string]any{
		"role":     "representative",
		"name":     "M. Keller",
		"party_id": partyID.String(),
		"vector":   map[string]float64{"values": 0.6},
		"cycle":    "2026",
		"answers":  map[string]int{"values": 2},
	}))
	tu.AssertStatus(s.T(), rr, http.StatusCreated)
	tu.AssertJSONHasKey(s.T(), rr, "actor")
}

func (s *HandlerSuite) TestDeclarationAndHistory() {
	actorID := id.NewActorID()
	s.tracker.EXPECT().Declare(gomock.Any(), actorID, ideology.CategoryEconomy, 5, "2026").
		Return(nil, dErrors.New(dErrors.CodeConflict, "position already declared for this cycle"))

	rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/actors/"+actorID.String()+"/declarations", map[string]any{
		"category": "Economy", "likert": 5, "cycle": "2026",
	}))
	tu.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

	s.tracker.EXPECT().History(gomock.Any(), actorID, 2).Return([]domain.HistoryEntry{{ActorID: actorID, Sequence: 2}, {ActorID: actorID, Sequence: 1}}, nil)
	rr = s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/"+actorID.String()+"/history?limit=2"))
	tu.AssertStatusOK(s.T(), rr)
	resp := tu.UnmarshalResponse[struct {
		Entries []domain.HistoryEntry `json:"entries"`
	}](s.T(), rr)
	s.Require().Len(resp.Entries, 2)
	s.Equal(int64(2), resp.Entries[0].Sequence)
}

func (s *HandlerSuite) TestPartyRoutes() {
	partyID := id.NewActorID()

	s.aggregator.EXPECT().Stats(gomock.Any(), partyID, "7d").Return(&domain.GroupStats{PartyID: partyID, Window: "7d", CohesionIndex: 80}, nil)
	rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/parties/"+partyID.String()+"/stats?window=7d"))
	tu.AssertStatusOK(s.T(), rr)
	tu.AssertJSONContains(s.T(), rr, "cohesion_index", float64(80))

	s.detector.EXPECT().PartyPivot(gomock.Any(), partyID).Return(&discrepancy.PartyPivot{PartyID: partyID, Score: 35}, nil)
	rr = s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/parties/"+partyID.String()+"/pivot"))
	tu.AssertStatusOK(s.T(), rr)
	tu.AssertJSONContains(s.T(), rr, "score", float64(35))

	s.tracker.EXPECT().SyncPartyVector(gomock.Any(), partyID).Return(&evolution.Outcome{Actor: &domain.Actor{ID: partyID}, Changed: true}, nil)
	rr = s.do(tu.NewRequest(s.T(), http.MethodPost, "/v1/parties/"+partyID.String()+"/sync"))
	tu.AssertStatusOK(s.T(), rr)

	s.detector.EXPECT().Recompute(gomock.Any(), partyID).Return(&discrepancy.Result{Score: domain.PivotScore{ActorID: partyID, Score: 12}}, nil)
	rr = s.do(tu.NewRequest(s.T(), http.MethodPost, "/v1/actors/"+partyID.String()+"/pivot"))
	tu.AssertStatusOK(s.T(), rr)
	tu.AssertJSONHasKey(s.T(), rr, "pivot_score")
}

func (s *HandlerSuite) TestStoredOutputs() {
	repID := id.NewActorID()

	s.detector.EXPECT().Alerts(gomock.Any(), repID).Return([]domain.DiscrepancyAlert{{ActorID: repID, Category: ideology.CategoryValues, Severity: domain.SeverityMedium}}, nil)
	rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/"+repID.String()+"/alerts"))
	tu.AssertStatusOK(s.T(), rr)
	resp := tu.UnmarshalResponse[struct {
		Alerts []domain.DiscrepancyAlert `json:"alerts"`
	}](s.T(), rr)
	s.Require().Len(resp.Alerts, 1)
	s.Equal(domain.SeverityMedium, resp.Alerts[0].Severity)

	s.detector.EXPECT().StoredScore(gomock.Any(), repID).Return(nil, dErrors.New(dErrors.CodeNotFound, "pivot score has not been computed"))
	rr = s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/actors/"+repID.String()+"/pivot"))
	tu.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestErrorEnvelope() {
	partyID := id.NewActorID()

	s.Run("client errors carry a description", func() {
		s.aggregator.EXPECT().Stats(gomock.Any(), partyID, "fortnight").Return(nil, dErrors.New(dErrors.CodeValidation, "unknown window"))
		rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/parties/"+partyID.String()+"/stats?window=fortnight"))
		tu.AssertStatus(s.T(), rr, http.StatusBadRequest)
		body := tu.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("validation_error", body["error"])
		s.Equal("unknown window", body["error_description"])
	})

	s.Run("server errors hide the cause", func() {
		s.aggregator.EXPECT().Stats(gomock.Any(), partyID, "").Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to list party members"))
		rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/parties/"+partyID.String()+"/stats"))
		tu.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		body := tu.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("internal_error", body["error"])
		s.NotContains(body, "error_description")
	})

	s.Run("collaborator timeout", func() {
		s.ingestor.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeTimeout, "text analysis timed out"))
		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/items", map[string]string{"description": "x"}))
		tu.AssertStatusAndError(s.T(), rr, http.StatusGatewayTimeout, "timeout")
	})
}

func (s *HandlerSuite) TestIngestItem() {
	s.Run("description goes to analysis", func() {
		s.ingestor.EXPECT().Ingest(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req analysis.Request) (*domain.LegislativeItem, error) {
				s.Nil(req.Manual)
				s.Equal("Cap rents in large cities", req.Description)
				return &domain.LegislativeItem{ID: id.NewItemID(), Kind: domain.ItemKindBill, Category: ideology.CategoryEconomy}, nil
			})
		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/items", map[string]string{
			"title": "Rent Act", "description": "Cap rents in large cities",
		}))
		tu.AssertStatus(s.T(), rr, http.StatusCreated)
		tu.AssertJSONContains(s.T(), rr, "category", "economy")
	})

	s.Run("explicit category skips analysis", func() {
		itemID := id.NewItemID()
		s.ingestor.EXPECT().Ingest(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req analysis.Request) (*domain.LegislativeItem, error) {
				s.Equal(itemID, req.ItemID)
				s.Require().NotNil(req.Manual)
				s.Equal(ideology.CategoryEnvironment, req.Manual.Category)
				s.InDelta(0.7, req.Manual.Impact.Environment, 1e-9)
				return &domain.LegislativeItem{ID: itemID, Kind: domain.ItemKindDecision, Category: req.Manual.Category}, nil
			})
		rr := s.do(tu.NewJSONRequest(s.T(), http.MethodPost, "/v1/items", map[string]any{
			"id": itemID.String(), "kind": "decision", "category": "environment",
			"impact": map[string]float64{"environment": 0.7},
		}))
		tu.AssertStatus(s.T(), rr, http.StatusCreated)
	})
}

func (s *HandlerSuite) TestForecast() {
	itemID := id.NewItemID()
	s.forecaster.EXPECT().Forecast(gomock.Any(), itemID).Return(&forecast.Forecast{ItemID: itemID, FrictionIndex: 42, Parties: []forecast.PartyForecast{}}, nil)

	rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/items/"+itemID.String()+"/forecast"))
	tu.AssertStatusOK(s.T(), rr)
	tu.AssertJSONContains(s.T(), rr, "friction_index", float64(42))
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	s.forecaster.EXPECT().Forecast(gomock.Any(), gomock.Any()).Return(&forecast.Forecast{NoData: true}, nil)
	s.do(tu.NewRequest(s.T(), http.MethodGet, "/v1/items/"+id.NewItemID().String()+"/forecast"))

	rr := s.do(tu.NewRequest(s.T(), http.MethodGet, "/metrics"))
	tu.AssertStatusOK(s.T(), rr)
	body, err := io.ReadAll(rr.Body)
	s.Require().NoError(err)
	s.True(strings.Contains(string(body), `route="/v1/items/{id}/forecast"`))
}

func TestHealthz(t *testing.T) {
	h := httptransport.NewHandler(httptransport.Services{}, nil, nil)

	tu.Given(t, "a failing dependency", func(t *testing.T) {
		router := httptransport.NewRouter(h, httptransport.RouterConfig{
			Health: map[string]httptransport.HealthCheck{
				"postgres": func(*http.Request) error { return nil },
				"redis":    func(*http.Request) error { return errors.New("dial tcp: connection refused") },
			},
		})
		tu.Then(t, "healthz reports degraded", func(t *testing.T) {
			rr := tu.DoRequest(router, tu.NewRequest(t, http.MethodGet, "/healthz"))
			tu.AssertStatus(t, rr, http.StatusServiceUnavailable)
			tu.AssertJSONContains(t, rr, "status", "degraded")
		})
	})

	tu.Given(t, "no dependencies", func(t *testing.T) {
		router := httptransport.NewRouter(h, httptransport.RouterConfig{})
		tu.Then(t, "healthz is ok", func(t *testing.T) {
			rr := tu.DoRequest(router, tu.NewRequest(t, http.MethodGet, "/healthz"))
			tu.AssertStatusOK(t, rr)
		})
	})
}
