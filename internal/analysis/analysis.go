// Package analysis turns a free-text item description into a category and
// impact vector through an external text-analysis collaborator, then stores
// the result as a legislative item.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polis/internal/domain"
	"polis/internal/ideology"
	platformmetrics "polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// Analysis is what the collaborator returns for one description. Values are
// untrusted until Ingest clamps them.
type Analysis struct {
	Category  ideology.Category         `json:"category"`
	Impact    *ideology.ImpactVector    `json:"impact,omitempty"`
	Relevance ideology.RelevanceWeights `json:"relevance,omitempty"`
}

// Analyzer classifies an item description.
type Analyzer interface {
	Analyze(ctx context.Context, description string) (Analysis, error)
}

// Store persists analysed items.
type Store interface {
	SaveItem(ctx context.Context, item *domain.LegislativeItem) error
}

// Request describes one item to ingest. When Manual is set the collaborator
// is skipped and the supplied analysis is clamped and stored as is.
type Request struct {
	ItemID      id.ItemID
	Kind        domain.ItemKind
	Title       string
	Description string
	Manual      *Analysis
}

var tracer = otel.Tracer("polis/analysis")

// Ingestor validates collaborator output and stores items.
type Ingestor struct {
	analyzer Analyzer
	store    Store
	logger   *slog.Logger
	metrics  *platformmetrics.Metrics
	now      func() time.Time
}

type Option func(*Ingestor)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingestor) {
		i.logger = logger
	}
}

func WithMetrics(m *platformmetrics.Metrics) Option {
	return func(i *Ingestor) {
		i.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *Ingestor) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIngestor builds an ingestor. analyzer may be nil, in which case only
// manual requests are accepted.
func NewIngestor(analyzer Analyzer, store Store, opts ...Option) *Ingestor {
	i := &Ingestor{
		analyzer: analyzer,
		store:    store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest analyses the description (unless a manual analysis is given),
// clamps the result and stores the item.
func (i *Ingestor) Ingest(ctx context.Context, req Request) (*domain.LegislativeItem, error) {
	ctx, sp := tracer.Start(ctx, "analysis.Ingest",
		trace.WithAttributes(attribute.Bool("manual", req.Manual != nil)),
	)
	defer sp.End()

	if req.ItemID.IsNil() {
		req.ItemID = id.NewItemID()
	}
	if req.Kind == "" {
		req.Kind = domain.ItemKindBill
	}
	if !req.Kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "kind must be bill or decision")
	}

	var result Analysis
	switch {
	case req.Manual != nil:
		result = *req.Manual
	case strings.TrimSpace(req.Description) == "":
		return nil, dErrors.New(dErrors.CodeValidation, "description is required")
	case i.analyzer == nil:
		return nil, dErrors.New(dErrors.CodeUnavailable, "text analysis is not configured")
	default:
		var err error
		result, err = i.analyzer.Analyze(ctx, req.Description)
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, "analyze")
			if i.logger != nil {
				i.logger.ErrorContext(ctx, "text analysis failed", "item_id", req.ItemID, "error", err)
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "text analysis timed out")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "text analysis failed")
		}
	}

	sanitized := i.sanitize(ctx, req.ItemID, result)
	item, err := domain.NewLegislativeItem(req.ItemID, req.Kind, req.Title, sanitized.Category, sanitized.Impact, sanitized.Relevance, i.now())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := i.store.SaveItem(ctx, item); err != nil {
		sp.RecordError(err)
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "item already exists")
		}
		i.metrics.IncrementStoreFailure("analysis.save_item")
		if i.logger != nil {
			i.logger.ErrorContext(ctx, "analysis store failure", "item_id", item.ID, "error", err)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store item")
	}
	if i.logger != nil {
		i.logger.InfoContext(ctx, "item ingested",
			"item_id", item.ID,
			"category", string(item.Category),
			"has_impact", item.Impact != nil,
		)
	}
	return item, nil
}

// sanitize clamps impact and relevance into [0, 1] and maps unknown
// categories to Other. Every correction is logged and counted.
func (i *Ingestor) sanitize(ctx context.Context, itemID id.ItemID, a Analysis) Analysis {
	category, err := ideology.ParseCategory(string(a.Category))
	if err != nil {
		if i.logger != nil {
			i.logger.WarnContext(ctx, "unknown category from analysis", "item_id", itemID, "category", string(a.Category))
		}
		category = ideology.CategoryOther
	}
	a.Category = category
	if a.Impact != nil {
		clamped, violations := ideology.ClampImpact(*a.Impact)
		for _, v := range violations {
			i.violation(ctx, itemID, "impact", v.Axis, v.Value)
		}
		a.Impact = &clamped
	}
	if len(a.Relevance) > 0 {
		weights := make(ideology.RelevanceWeights, len(a.Relevance))
		for _, axis := range ideology.Axes {
			w, ok := a.Relevance[axis]
			if !ok {
				continue
			}
			c := min(max(w, 0), 1)
			if math.IsNaN(w) {
				c = 0
			}
			if c != w {
				i.violation(ctx, itemID, "relevance", axis, w)
			}
			weights[axis] = c
		}
		a.Relevance = weights
	}
	return a
}

func (i *Ingestor) violation(ctx context.Context, itemID id.ItemID, field string, axis ideology.Axis, value float64) {
	i.metrics.IncrementClampViolation("analysis_"+field, axis.String())
	if i.logger != nil {
		i.logger.WarnContext(ctx, "analysis value out of range",
			"item_id", itemID,
			"field", field,
			"axis", axis.String(),
			"value", value,
		)
	}
}
