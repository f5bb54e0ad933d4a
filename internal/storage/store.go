package storage

import (
	"context"
	"time"

	"polis/internal/domain"
	id "polis/pkg/domain"
)

// Stores are interface-driven so the services can run against the in-memory
// implementation in tests and Postgres in production without rewiring.

type ActorStore interface {
	CreateActor(ctx context.Context, actor *domain.Actor) error
	FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	// FindActorForUpdate reads an actor inside RunInTx and holds it until commit.
	FindActorForUpdate(ctx context.Context, actorID id.ActorID) (*domain.Actor, error)
	SaveActorVector(ctx context.Context, actor *domain.Actor) error
	ListActorsByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error)
	ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error)
}

type HistoryStore interface {
	// AppendHistory inserts a row and returns it with its assigned sequence.
	AppendHistory(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error)
	// ListHistory returns newest first. limit <= 0 returns everything.
	ListHistory(ctx context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error)
}

type ItemStore interface {
	// SaveItem fails with sentinel.ErrConflict when the id is taken.
	SaveItem(ctx context.Context, item *domain.LegislativeItem) error
	FindItem(ctx context.Context, itemID id.ItemID) (*domain.LegislativeItem, error)
	FindItems(ctx context.Context, itemIDs []id.ItemID) (map[id.ItemID]*domain.LegislativeItem, error)
}

type PositionStore interface {
	// SaveDeclaredPosition fails with sentinel.ErrConflict when the
	// (actor, category, cycle) answer already exists.
	SaveDeclaredPosition(ctx context.Context, position domain.DeclaredPosition) error
	ListDeclaredPositions(ctx context.Context, actorID id.ActorID) ([]domain.DeclaredPosition, error)
	// SaveAction records a vote; a later vote on the same item replaces it.
	SaveAction(ctx context.Context, action domain.RevealedAction) error
	ListActionsByActor(ctx context.Context, actorID id.ActorID) ([]domain.RevealedAction, error)
	ListActionsByActors(ctx context.Context, actorIDs []id.ActorID, since time.Time) ([]domain.RevealedAction, error)
}

type OutputStore interface {
	UpsertAlert(ctx context.Context, alert domain.DiscrepancyAlert) error
	ListAlerts(ctx context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error)
	UpsertPivotScore(ctx context.Context, score domain.PivotScore) error
	FindPivotScore(ctx context.Context, actorID id.ActorID) (*domain.PivotScore, error)
	UpsertGroupStats(ctx context.Context, stats domain.GroupStats) error
	FindGroupStats(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error)
}

// TxRunner executes fn as one logical unit: every write inside fn commits
// together or not at all.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the full relational surface.
type Store interface {
	ActorStore
	HistoryStore
	ItemStore
	PositionStore
	OutputStore
	TxRunner
}
