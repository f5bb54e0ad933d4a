package compatibility

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polis/internal/domain"
	"polis/internal/platform/metrics"
	id "polis/pkg/domain"
	dErrors "polis/pkg/domain-errors"
	"polis/pkg/platform/sentinel"
)

// DefaultMatchLimit caps a match list when the caller gives no limit.
const DefaultMatchLimit = 10

// Store is the read surface matching needs.
type Store interface {
	FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	ListActorsByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error)
}

// Service ranks stored actors against one another.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var tracer = otel.Tracer("polis/compatibility")

// Matches ranks every actor of role against actorID's current vector. The
// subject itself is never a candidate. An empty role means representatives.
func (s *Service) Matches(ctx context.Context, actorID id.ActorID, role domain.Role, limit int) ([]Match, error) {
	ctx, sp := tracer.Start(ctx, "compatibility.Matches",
		trace.WithAttributes(
			attribute.String("actor_id", actorID.String()),
			attribute.String("role", string(role)),
		),
	)
	defer sp.End()

	if role == "" {
		role = domain.RoleRepresentative
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid candidate role")
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	subject, err := s.store.FindActor(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "actor not found")
		}
		return nil, s.storeFailure(ctx, sp, "find_actor", err, "failed to load actor")
	}
	actors, err := s.store.ListActorsByRole(ctx, role)
	if err != nil {
		return nil, s.storeFailure(ctx, sp, "list_candidates", err, "failed to list candidates")
	}
	candidates := make([]Candidate, 0, len(actors))
	for _, a := range actors {
		if a.ID == subject.ID {
			continue
		}
		candidates = append(candidates, Candidate{ID: a.ID, Name: a.Name, Vector: a.Vector})
	}
	return Rank(subject.Vector, candidates, limit), nil
}

func (s *Service) storeFailure(ctx context.Context, sp trace.Span, op string, err error, msg string) error {
	sp.RecordError(err)
	sp.SetStatus(codes.Error, op)
	s.metrics.IncrementStoreFailure("compatibility." + op)
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "compatibility store failure", "operation", op, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
