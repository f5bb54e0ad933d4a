package storage

import (
	"context"
	"hash/fnv"
	"maps"
	"sort"
	"sync"
	"time"

	"polis/internal/domain"
	id "polis/pkg/domain"
	"polis/pkg/platform/sentinel"
)

const numActorShards = 64

type declaredKey struct {
	actorID  id.ActorID
	category string
	cycle    string
}

type actionKey struct {
	actorID id.ActorID
	itemID  id.ItemID
}

type statsKey struct {
	partyID id.ActorID
	window  string
}

// InMemory is a complete Store kept in process memory. Writes made inside
// RunInTx are journaled and applied together on commit, so a failed
// transaction leaves nothing behind.
type InMemory struct {
	mu       sync.RWMutex
	actors   map[id.ActorID]domain.Actor
	history  map[id.ActorID][]domain.HistoryEntry
	items    map[id.ItemID]domain.LegislativeItem
	declared map[declaredKey]domain.DeclaredPosition
	actions  map[actionKey]domain.RevealedAction
	alerts   map[domain.AlertKey]domain.DiscrepancyAlert
	pivots   map[id.ActorID]domain.PivotScore
	stats    map[statsKey]domain.GroupStats

	shards [numActorShards]sync.Mutex
}

func NewInMemory() *InMemory {
	return &InMemory{
		actors:   make(map[id.ActorID]domain.Actor),
		history:  make(map[id.ActorID][]domain.HistoryEntry),
		items:    make(map[id.ItemID]domain.LegislativeItem),
		declared: make(map[declaredKey]domain.DeclaredPosition),
		actions:  make(map[actionKey]domain.RevealedAction),
		alerts:   make(map[domain.AlertKey]domain.DiscrepancyAlert),
		pivots:   make(map[id.ActorID]domain.PivotScore),
		stats:    make(map[statsKey]domain.GroupStats),
	}
}

type journal struct {
	ops     []func()
	created map[id.ActorID]domain.Actor
	pending map[id.ActorID]int
	held    map[int]bool
}

type journalKey struct{}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// RunInTx journals every write made through ctx and applies them atomically
// when fn succeeds. Nested calls join the outer transaction.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}
	j := &journal{
		created: make(map[id.ActorID]domain.Actor),
		pending: make(map[id.ActorID]int),
		held:    make(map[int]bool),
	}
	defer func() {
		for shard := range j.held {
			s.shards[shard].Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range j.ops {
		op()
	}
	return nil
}

// write applies op now, or stages it when running inside a transaction.
func (s *InMemory) write(ctx context.Context, op func()) {
	if j := journalFrom(ctx); j != nil {
		j.ops = append(j.ops, op)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	op()
}

func shardFor(actorID id.ActorID) int {
	h := fnv.New32a()
	_, _ = h.Write(actorID[:])
	return int(h.Sum32() % numActorShards)
}

func (s *InMemory) CreateActor(ctx context.Context, actor *domain.Actor) error {
	s.mu.RLock()
	_, exists := s.actors[actor.ID]
	s.mu.RUnlock()
	j := journalFrom(ctx)
	if j != nil {
		if _, staged := j.created[actor.ID]; staged {
			exists = true
		}
	}
	if exists {
		return sentinel.ErrConflict
	}
	stored := *actor
	if j != nil {
		j.created[actor.ID] = stored
	}
	s.write(ctx, func() {
		s.actors[stored.ID] = stored
	})
	return nil
}

func (s *InMemory) FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error) {
	if j := journalFrom(ctx); j != nil {
		if staged, ok := j.created[actorID]; ok {
			return &staged, nil
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actors[actorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &actor, nil
}

// FindActorForUpdate locks the actor's shard until the surrounding
// transaction ends. Outside a transaction it behaves like FindActor.
func (s *InMemory) FindActorForUpdate(ctx context.Context, actorID id.ActorID) (*domain.Actor, error) {
	if j := journalFrom(ctx); j != nil {
		shard := shardFor(actorID)
		if !j.held[shard] {
			s.shards[shard].Lock()
			j.held[shard] = true
		}
	}
	return s.FindActor(ctx, actorID)
}

func (s *InMemory) SaveActorVector(ctx context.Context, actor *domain.Actor) error {
	if _, err := s.FindActor(ctx, actor.ID); err != nil {
		return err
	}
	actorID, vector, updatedAt := actor.ID, actor.Vector, actor.UpdatedAt
	if j := journalFrom(ctx); j != nil {
		if staged, ok := j.created[actorID]; ok {
			staged.Vector, staged.UpdatedAt = vector, updatedAt
			j.created[actorID] = staged
		}
	}
	s.write(ctx, func() {
		stored := s.actors[actorID]
		stored.Vector = vector
		stored.UpdatedAt = updatedAt
		s.actors[actorID] = stored
	})
	return nil
}

func (s *InMemory) ListActorsByRole(_ context.Context, role domain.Role) ([]*domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Actor
	for _, a := range s.actors {
		if a.Role == role {
			actor := a
			out = append(out, &actor)
		}
	}
	sortActors(out)
	return out, nil
}

func (s *InMemory) ListMembers(_ context.Context, partyID id.ActorID) ([]*domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Actor
	for _, a := range s.actors {
		if a.PartyID != nil && *a.PartyID == partyID {
			actor := a
			out = append(out, &actor)
		}
	}
	sortActors(out)
	return out, nil
}

func sortActors(actors []*domain.Actor) {
	sort.Slice(actors, func(i, j int) bool {
		return actors[i].ID.String() < actors[j].ID.String()
	})
}

func (s *InMemory) AppendHistory(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	if _, err := s.FindActor(ctx, entry.ActorID); err != nil {
		return domain.HistoryEntry{}, err
	}
	s.mu.RLock()
	next := int64(len(s.history[entry.ActorID]) + 1)
	s.mu.RUnlock()
	if j := journalFrom(ctx); j != nil {
		next += int64(j.pending[entry.ActorID])
		j.pending[entry.ActorID]++
	}
	entry.Sequence = next
	stored := entry
	s.write(ctx, func() {
		s.history[stored.ActorID] = append(s.history[stored.ActorID], stored)
	})
	return entry, nil
}

func (s *InMemory) ListHistory(_ context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.history[actorID]
	out := make([]domain.HistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SaveItem stores a new item. Items are immutable once stored.
func (s *InMemory) SaveItem(ctx context.Context, item *domain.LegislativeItem) error {
	s.mu.RLock()
	_, exists := s.items[item.ID]
	s.mu.RUnlock()
	if exists {
		return sentinel.ErrConflict
	}
	stored := *item
	if item.Impact != nil {
		impact := *item.Impact
		stored.Impact = &impact
	}
	stored.Relevance = maps.Clone(item.Relevance)
	s.write(ctx, func() {
		s.items[stored.ID] = stored
	})
	return nil
}

func (s *InMemory) FindItem(_ context.Context, itemID id.ItemID) (*domain.LegislativeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &item, nil
}

// FindItems returns the items that exist; missing ids are simply absent.
func (s *InMemory) FindItems(_ context.Context, itemIDs []id.ItemID) (map[id.ItemID]*domain.LegislativeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.ItemID]*domain.LegislativeItem, len(itemIDs))
	for _, itemID := range itemIDs {
		if item, ok := s.items[itemID]; ok {
			out[itemID] = &item
		}
	}
	return out, nil
}

func (s *InMemory) SaveDeclaredPosition(ctx context.Context, position domain.DeclaredPosition) error {
	key := declaredKey{actorID: position.ActorID, category: string(position.Category), cycle: position.Cycle}
	s.mu.RLock()
	_, exists := s.declared[key]
	s.mu.RUnlock()
	if exists {
		return sentinel.ErrConflict
	}
	s.write(ctx, func() {
		s.declared[key] = position
	})
	return nil
}

func (s *InMemory) ListDeclaredPositions(_ context.Context, actorID id.ActorID) ([]domain.DeclaredPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DeclaredPosition
	for k, p := range s.declared {
		if k.actorID == actorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category.Rank() < out[j].Category.Rank()
		}
		return out[i].Cycle < out[j].Cycle
	})
	return out, nil
}

func (s *InMemory) SaveAction(ctx context.Context, action domain.RevealedAction) error {
	key := actionKey{actorID: action.ActorID, itemID: action.ItemID}
	s.write(ctx, func() {
		s.actions[key] = action
	})
	return nil
}

func (s *InMemory) ListActionsByActor(_ context.Context, actorID id.ActorID) ([]domain.RevealedAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RevealedAction
	for k, a := range s.actions {
		if k.actorID == actorID {
			out = append(out, a)
		}
	}
	sortActions(out)
	return out, nil
}

func (s *InMemory) ListActionsByActors(_ context.Context, actorIDs []id.ActorID, since time.Time) ([]domain.RevealedAction, error) {
	wanted := make(map[id.ActorID]bool, len(actorIDs))
	for _, a := range actorIDs {
		wanted[a] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RevealedAction
	for k, a := range s.actions {
		if wanted[k.actorID] && !a.CastAt.Before(since) {
			out = append(out, a)
		}
	}
	sortActions(out)
	return out, nil
}

func sortActions(actions []domain.RevealedAction) {
	sort.Slice(actions, func(i, j int) bool {
		if !actions[i].CastAt.Equal(actions[j].CastAt) {
			return actions[i].CastAt.Before(actions[j].CastAt)
		}
		if actions[i].ActorID != actions[j].ActorID {
			return actions[i].ActorID.String() < actions[j].ActorID.String()
		}
		return actions[i].ItemID.String() < actions[j].ItemID.String()
	})
}

func (s *InMemory) UpsertAlert(ctx context.Context, alert domain.DiscrepancyAlert) error {
	key := alert.Key()
	s.write(ctx, func() {
		s.alerts[key] = alert
	})
	return nil
}

func (s *InMemory) ListAlerts(_ context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DiscrepancyAlert
	for k, a := range s.alerts {
		if k.ActorID == actorID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Key(), out[j].Key()
		if ki.Category != kj.Category {
			return ki.Category.Rank() < kj.Category.Rank()
		}
		return ki.ItemID.String() < kj.ItemID.String()
	})
	return out, nil
}

func (s *InMemory) UpsertPivotScore(ctx context.Context, score domain.PivotScore) error {
	s.write(ctx, func() {
		s.pivots[score.ActorID] = score
	})
	return nil
}

func (s *InMemory) FindPivotScore(_ context.Context, actorID id.ActorID) (*domain.PivotScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.pivots[actorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &score, nil
}

func (s *InMemory) UpsertGroupStats(ctx context.Context, stats domain.GroupStats) error {
	key := statsKey{partyID: stats.PartyID, window: stats.Window}
	stored := stats
	stored.DominantCategories = append([]domain.CategoryCount(nil), stats.DominantCategories...)
	s.write(ctx, func() {
		s.stats[key] = stored
	})
	return nil
}

func (s *InMemory) FindGroupStats(_ context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[statsKey{partyID: partyID, window: window}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &stats, nil
}
