package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"polis/internal/analysis"
	"polis/internal/compatibility"
	"polis/internal/discrepancy"
	"polis/internal/domain"
	"polis/internal/evolution"
	"polis/internal/forecast"
	"polis/internal/ideology"
	"polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Matcher ranks stored actors against a subject.
type Matcher interface {
	Matches(ctx context.Context, actorID id.ActorID, role domain.Role, limit int) ([]compatibility.Match, error)
}

// Tracker owns actor vectors and their history.
type Tracker interface {
	Record(ctx context.Context, actorID id.ActorID, role domain.Role, itemID id.ItemID, choice domain.Choice) (*evolution.Outcome, error)
	Seed(ctx context.Context, req evolution.SeedRequest) (*evolution.Outcome, error)
	Declare(ctx context.Context, actorID id.ActorID, category ideology.Category, likert int, cycle string) (*domain.DeclaredPosition, error)
	SyncPartyVector(ctx context.Context, partyID id.ActorID) (*evolution.Outcome, error)
	History(ctx context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error)
}

// Detector finds gaps between declared and revealed positions.
type Detector interface {
	Recompute(ctx context.Context, actorID id.ActorID) (*discrepancy.Result, error)
	Alerts(ctx context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error)
	StoredScore(ctx context.Context, actorID id.ActorID) (*domain.PivotScore, error)
	PartyPivot(ctx context.Context, partyID id.ActorID) (*discrepancy.PartyPivot, error)
}

// Aggregator serves party-level statistics.
type Aggregator interface {
	Stats(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error)
}

// Forecaster predicts chamber friction for an item.
type Forecaster interface {
	Forecast(ctx context.Context, itemID id.ItemID) (*forecast.Forecast, error)
}

// Ingestor stores new legislative items.
type Ingestor interface {
	Ingest(ctx context.Context, req analysis.Request) (*domain.LegislativeItem, error)
}

// Services groups the domain services behind the HTTP API.
type Services struct {
	Matcher    Matcher
	Tracker    Tracker
	Detector   Detector
	Aggregator Aggregator
	Forecaster Forecaster
	Ingestor   Ingestor
}

// Handler is the thin HTTP layer over the domain services.
type Handler struct {
	svc     Services
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(svc Services, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, logger: logger, metrics: m}
}

// Register mounts the v1 API on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compatibility", h.handleCompatibility)

		r.Post("/actors", h.handleSeedActor)
		r.Get("/actors/{id}/matches", h.handleMatches)
		r.Post("/actors/{id}/actions", h.handleRecordAction)
		r.Get("/actors/{id}/history", h.handleHistory)
		r.Post("/actors/{id}/pivot", h.handleRecomputePivot)
		r.Get("/actors/{id}/pivot", h.handleStoredPivot)
		r.Get("/actors/{id}/alerts", h.handleAlerts)
		r.Post("/actors/{id}/declarations", h.handleDeclare)

		r.Get("/parties/{id}/stats", h.handlePartyStats)
		r.Get("/parties/{id}/pivot", h.handlePartyPivot)
		r.Post("/parties/{id}/sync", h.handleSyncParty)

		r.Post("/items", h.handleIngestItem)
		r.Get("/items/{id}/forecast", h.handleForecast)
	})
}

type vectorSummary struct {
	Display   ideology.DisplayVector `json:"display"`
	Label     string                 `json:"label"`
	Narrative string                 `json:"narrative"`
}

func summarize(v ideology.PositionVector) vectorSummary {
	d := ideology.Describe(v)
	return vectorSummary{Display: ideology.NormalizeForDisplay(v), Label: d.Label, Narrative: d.Narrative}
}

type compatibilityRequest struct {
	A ideology.PositionVector `json:"a"`
	B ideology.PositionVector `json:"b"`
}

type compatibilityResponse struct {
	compatibility.Result
	A vectorSummary `json:"a"`
	B vectorSummary `json:"b"`
}

func (h *Handler) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req compatibilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	a := h.clampInput(ctx, "a", req.A)
	b := h.clampInput(ctx, "b", req.B)
	writeJSON(w, http.StatusOK, compatibilityResponse{
		Result: compatibility.Compare(a, b),
		A:      summarize(a),
		B:      summarize(b),
	})
}

// clampInput clamps a caller-supplied vector, logging and counting every
// out-of-range component.
func (h *Handler) clampInput(ctx context.Context, field string, v ideology.PositionVector) ideology.PositionVector {
	clamped, violations := ideology.ClampReport(v)
	for _, vi := range violations {
		h.metrics.IncrementClampViolation("http_request", vi.Axis.String())
		if h.logger != nil {
			h.logger.WarnContext(ctx, "request vector component out of range",
				"field", field,
				"axis", vi.Axis.String(),
				"value", vi.Value,
			)
		}
	}
	return clamped
}

type matchesResponse struct {
	ActorID id.ActorID            `json:"actor_id"`
	Role    domain.Role           `json:"role"`
	Matches []compatibility.Match `json:"matches"`
}

func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	limit, ok := h.intQuery(w, r, "limit")
	if !ok {
		return
	}
	role := domain.Role(r.URL.Query().Get("role"))
	matches, err := h.svc.Matcher.Matches(r.Context(), actorID, role, limit)
	if err != nil {
		h.fail(r.Context(), w, "matches", err)
		return
	}
	if role == "" {
		role = domain.RoleRepresentative
	}
	writeJSON(w, http.StatusOK, matchesResponse{ActorID: actorID, Role: role, Matches: matches})
}

type seedRequest struct {
	ID      string                    `json:"id"`
	Role    domain.Role               `json:"role"`
	Name    string                    `json:"name"`
	PartyID string                    `json:"party_id"`
	Vector  ideology.PositionVector   `json:"vector"`
	Cycle   string                    `json:"cycle"`
	Answers map[ideology.Category]int `json:"answers"`
}

func (h *Handler) handleSeedActor(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !h.decode(w, r, &req) {
		return
	}
	actorID := id.NewActorID()
	if req.ID != "" {
		parsed, err := id.ParseActorID(req.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		actorID = parsed
	}
	seed := evolution.SeedRequest{
		ActorID:  actorID,
		Role:     req.Role,
		Name:     req.Name,
		Snapshot: req.Vector,
		Cycle:    req.Cycle,
		Answers:  req.Answers,
	}
	if req.PartyID != "" {
		partyID, err := id.ParseActorID(req.PartyID)
		if err != nil {
			WriteError(w, err)
			return
		}
		seed.PartyID = &partyID
	}
	out, err := h.svc.Tracker.Seed(r.Context(), seed)
	if err != nil {
		h.fail(r.Context(), w, "seed actor", err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type actionRequest struct {
	ItemID string      `json:"item_id"`
	Choice string      `json:"choice"`
	Role   domain.Role `json:"role"`
}

// handleRecordAction records a vote. The tracker checks it against the
// actor's vector in the same transaction, so a rejected vote leaves no alert.
func (h *Handler) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if !h.decode(w, r, &req) {
		return
	}
	itemID, err := id.ParseItemID(req.ItemID)
	if err != nil {
		WriteError(w, err)
		return
	}
	choice, err := domain.ParseChoice(strings.ToLower(strings.TrimSpace(req.Choice)))
	if err != nil {
		WriteError(w, dErrors.New(dErrors.CodeValidation, "choice must be support, oppose or abstain"))
		return
	}

	out, err := h.svc.Tracker.Record(ctx, actorID, req.Role, itemID, choice)
	if err != nil {
		h.fail(ctx, w, "record action", err)
		return
	}
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

type historyResponse struct {
	ActorID id.ActorID            `json:"actor_id"`
	Entries []domain.HistoryEntry `json:"entries"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	limit, ok := h.intQuery(w, r, "limit")
	if !ok {
		return
	}
	entries, err := h.svc.Tracker.History(r.Context(), actorID, limit)
	if err != nil {
		h.fail(r.Context(), w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{ActorID: actorID, Entries: entries})
}

func (h *Handler) handleRecomputePivot(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Detector.Recompute(r.Context(), actorID)
	if err != nil {
		h.fail(r.Context(), w, "recompute pivot", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStoredPivot(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	score, err := h.svc.Detector.StoredScore(r.Context(), actorID)
	if err != nil {
		h.fail(r.Context(), w, "stored pivot", err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

type alertsResponse struct {
	ActorID id.ActorID                `json:"actor_id"`
	Alerts  []domain.DiscrepancyAlert `json:"alerts"`
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	alerts, err := h.svc.Detector.Alerts(r.Context(), actorID)
	if err != nil {
		h.fail(r.Context(), w, "alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, alertsResponse{ActorID: actorID, Alerts: alerts})
}

type declarationRequest struct {
	Category string `json:"category"`
	Likert   int    `json:"likert"`
	Cycle    string `json:"cycle"`
}

func (h *Handler) handleDeclare(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	var req declarationRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := ideology.ParseCategory(req.Category)
	if err != nil {
		WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}
	p, err := h.svc.Tracker.Declare(r.Context(), actorID, category, req.Likert, req.Cycle)
	if err != nil {
		h.fail(r.Context(), w, "declare position", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handlePartyStats(w http.ResponseWriter, r *http.Request) {
	partyID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Aggregator.Stats(r.Context(), partyID, r.URL.Query().Get("window"))
	if err != nil {
		h.fail(r.Context(), w, "party stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handlePartyPivot(w http.ResponseWriter, r *http.Request) {
	partyID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	pivot, err := h.svc.Detector.PartyPivot(r.Context(), partyID)
	if err != nil {
		h.fail(r.Context(), w, "party pivot", err)
		return
	}
	writeJSON(w, http.StatusOK, pivot)
}

func (h *Handler) handleSyncParty(w http.ResponseWriter, r *http.Request) {
	partyID, ok := h.actorParam(w, r)
	if !ok {
		return
	}
	out, err := h.svc.Tracker.SyncPartyVector(r.Context(), partyID)
	if err != nil {
		h.fail(r.Context(), w, "sync party", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type itemRequest struct {
	ID          string                    `json:"id"`
	Kind        domain.ItemKind           `json:"kind"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Category    ideology.Category         `json:"category"`
	Impact      *ideology.ImpactVector    `json:"impact"`
	Relevance   ideology.RelevanceWeights `json:"relevance"`
}

// handleIngestItem sends the description to text analysis, unless the
// caller already supplies a category, in which case the given impact and
// relevance are used.
func (h *Handler) handleIngestItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !h.decode(w, r, &req) {
		return
	}
	in := analysis.Request{Kind: req.Kind, Title: req.Title, Description: req.Description}
	if req.ID != "" {
		itemID, err := id.ParseItemID(req.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		in.ItemID = itemID
	}
	if req.Category != "" {
		in.Manual = &analysis.Analysis{Category: req.Category, Impact: req.Impact, Relevance: req.Relevance}
	}
	item, err := h.svc.Ingestor.Ingest(r.Context(), in)
	if err != nil {
		h.fail(r.Context(), w, "ingest item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	f, err := h.svc.Forecaster.Forecast(r.Context(), itemID)
	if err != nil {
		h.fail(r.Context(), w, "forecast", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) actorParam(w http.ResponseWriter, r *http.Request) (id.ActorID, bool) {
	actorID, err := id.ParseActorID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return id.ActorID{}, false
	}
	return actorID, true
}

func (h *Handler) intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if h.logger != nil {
			h.logger.WarnContext(r.Context(), "invalid request body", "path", r.URL.Path, "error", err.Error())
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// fail logs server-side failures and writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if h.logger != nil && StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "operation", op, "error", err.Error())
	}
	WriteError(w, err)
}
