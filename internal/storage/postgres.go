package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"polis/internal/domain"
	"polis/internal/ideology"
	id "polis/pkg/domain"
	"polis/pkg/platform/sentinel"
	txcontext "polis/pkg/platform/tx"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// Postgres persists every record shape in PostgreSQL. Vectors are stored as
// six-element float arrays in the fixed axis order.
type Postgres struct {
	db *sql.DB
	tx *txcontext.Runner
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB, txTimeout time.Duration) *Postgres {
	return &Postgres{db: db, tx: txcontext.NewRunner(db, txTimeout)}
}

// Open connects with the pgx driver and applies connection-pool settings.
func Open(ctx context.Context, url string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx)
	}
	return s.tx.Run(ctx, fn)
}

func vectorArray(v ideology.PositionVector) pq.Float64Array {
	a := v.Array()
	return pq.Float64Array(a[:])
}

func vectorFrom(a pq.Float64Array) (ideology.PositionVector, error) {
	if len(a) != ideology.AxisCount {
		return ideology.PositionVector{}, fmt.Errorf("vector has %d components, want %d", len(a), ideology.AxisCount)
	}
	var values [ideology.AxisCount]float64
	copy(values[:], a)
	return ideology.VectorFromArray(values), nil
}

func actorIDStrings(ids []id.ActorID) []string {
	out := make([]string, len(ids))
	for i, a := range ids {
		out[i] = a.String()
	}
	return out
}

const actorColumns = `id, role, name, party_id, vector, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActor(row rowScanner) (*domain.Actor, error) {
	var (
		actor   domain.Actor
		actorID uuid.UUID
		partyID uuid.NullUUID
		role    string
		vector  pq.Float64Array
	)
	if err := row.Scan(&actorID, &role, &actor.Name, &partyID, &vector, &actor.CreatedAt, &actor.UpdatedAt); err != nil {
		return nil, err
	}
	v, err := vectorFrom(vector)
	if err != nil {
		return nil, err
	}
	actor.ID = id.ActorID(actorID)
	actor.Role = domain.Role(role)
	actor.Vector = v
	if partyID.Valid {
		p := id.ActorID(partyID.UUID)
		actor.PartyID = &p
	}
	return &actor, nil
}

func (s *Postgres) CreateActor(ctx context.Context, actor *domain.Actor) error {
	var partyID *uuid.UUID
	if actor.PartyID != nil {
		p := uuid.UUID(*actor.PartyID)
		partyID = &p
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO actors (id, role, name, party_id, vector, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		uuid.UUID(actor.ID), string(actor.Role), actor.Name, partyID,
		vectorArray(actor.Vector), actor.CreatedAt, actor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert actor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindActor(ctx context.Context, actorID id.ActorID) (*domain.Actor, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1`, uuid.UUID(actorID))
	actor, err := scanActor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find actor: %w", err)
	}
	return actor, nil
}

// FindActorForUpdate takes a row lock held until the transaction ends.
func (s *Postgres) FindActorForUpdate(ctx context.Context, actorID id.ActorID) (*domain.Actor, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1 FOR UPDATE`, uuid.UUID(actorID))
	actor, err := scanActor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock actor: %w", err)
	}
	return actor, nil
}

func (s *Postgres) SaveActorVector(ctx context.Context, actor *domain.Actor) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE actors SET vector = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(actor.ID), vectorArray(actor.Vector), actor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update actor vector: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) queryActors(ctx context.Context, query string, args ...any) ([]*domain.Actor, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actors: %w", err)
	}
	defer rows.Close()

	var out []*domain.Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan actor: %w", err)
		}
		out = append(out, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actors: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListActorsByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error) {
	return s.queryActors(ctx, `SELECT `+actorColumns+` FROM actors WHERE role = $1 ORDER BY id`, string(role))
}

func (s *Postgres) ListMembers(ctx context.Context, partyID id.ActorID) ([]*domain.Actor, error) {
	return s.queryActors(ctx, `SELECT `+actorColumns+` FROM actors WHERE party_id = $1 ORDER BY id`, uuid.UUID(partyID))
}

// AppendHistory relies on the caller holding the actor row lock so the
// sequence computed here cannot race.
func (s *Postgres) AppendHistory(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	var itemID *uuid.UUID
	if entry.ItemID != nil {
		i := uuid.UUID(*entry.ItemID)
		itemID = &i
	}
	err := s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO actor_history (actor_id, sequence, vector, label, item_id, choice, source, recorded_at)
		SELECT $1, COALESCE(MAX(sequence), 0) + 1, $2, $3, $4, $5, $6, $7
		FROM actor_history WHERE actor_id = $1
		RETURNING sequence`,
		uuid.UUID(entry.ActorID), vectorArray(entry.Vector), entry.Label, itemID,
		string(entry.Choice), string(entry.Source), entry.RecordedAt,
	).Scan(&entry.Sequence)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}
	return entry, nil
}

func (s *Postgres) ListHistory(ctx context.Context, actorID id.ActorID, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT actor_id, sequence, vector, label, item_id, choice, source, recorded_at
		FROM actor_history WHERE actor_id = $1
		ORDER BY sequence DESC`
	args := []any{uuid.UUID(actorID)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			entry  domain.HistoryEntry
			aID    uuid.UUID
			itemID uuid.NullUUID
			vector pq.Float64Array
			choice string
			source string
		)
		if err := rows.Scan(&aID, &entry.Sequence, &vector, &entry.Label, &itemID, &choice, &source, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		v, err := vectorFrom(vector)
		if err != nil {
			return nil, err
		}
		entry.ActorID = id.ActorID(aID)
		entry.Vector = v
		entry.Choice = domain.Choice(choice)
		entry.Source = domain.HistorySource(source)
		if itemID.Valid {
			i := id.ItemID(itemID.UUID)
			entry.ItemID = &i
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *Postgres) SaveItem(ctx context.Context, item *domain.LegislativeItem) error {
	var impact any
	if item.Impact != nil {
		a := item.Impact.Array()
		impact = pq.Float64Array(a[:])
	}
	var relevance []byte
	if len(item.Relevance) > 0 {
		var err error
		if relevance, err = json.Marshal(item.Relevance); err != nil {
			return fmt.Errorf("marshal relevance: %w", err)
		}
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO legislative_items (id, kind, title, category, impact, relevance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		uuid.UUID(item.ID), string(item.Kind), item.Title, string(item.Category), impact, relevance, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

const itemColumns = `id, kind, title, category, impact, relevance, created_at`

func scanItem(row rowScanner) (*domain.LegislativeItem, error) {
	var (
		item      domain.LegislativeItem
		itemID    uuid.UUID
		kind      string
		category  string
		impact    pq.Float64Array
		relevance []byte
	)
	if err := row.Scan(&itemID, &kind, &item.Title, &category, &impact, &relevance, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.ID = id.ItemID(itemID)
	item.Kind = domain.ItemKind(kind)
	item.Category = ideology.Category(category)
	if impact != nil {
		if len(impact) != ideology.AxisCount {
			return nil, fmt.Errorf("impact has %d components, want %d", len(impact), ideology.AxisCount)
		}
		var values [ideology.AxisCount]float64
		copy(values[:], impact)
		iv := ideology.ImpactFromArray(values)
		item.Impact = &iv
	}
	if len(relevance) > 0 {
		if err := json.Unmarshal(relevance, &item.Relevance); err != nil {
			return nil, fmt.Errorf("unmarshal relevance: %w", err)
		}
	}
	return &item, nil
}

func (s *Postgres) FindItem(ctx context.Context, itemID id.ItemID) (*domain.LegislativeItem, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+itemColumns+` FROM legislative_items WHERE id = $1`, uuid.UUID(itemID))
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

func (s *Postgres) FindItems(ctx context.Context, itemIDs []id.ItemID) (map[id.ItemID]*domain.LegislativeItem, error) {
	out := make(map[id.ItemID]*domain.LegislativeItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(itemIDs))
	for i, itemID := range itemIDs {
		ids[i] = itemID.String()
	}
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+itemColumns+` FROM legislative_items WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

func (s *Postgres) SaveDeclaredPosition(ctx context.Context, position domain.DeclaredPosition) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO declared_positions (actor_id, category, cycle, likert, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (actor_id, category, cycle) DO NOTHING`,
		uuid.UUID(position.ActorID), string(position.Category), position.Cycle, position.Likert, position.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert declared position: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) ListDeclaredPositions(ctx context.Context, actorID id.ActorID) ([]domain.DeclaredPosition, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT actor_id, category, cycle, likert, recorded_at
		FROM declared_positions WHERE actor_id = $1
		ORDER BY category, cycle`, uuid.UUID(actorID))
	if err != nil {
		return nil, fmt.Errorf("query declared positions: %w", err)
	}
	defer rows.Close()

	var out []domain.DeclaredPosition
	for rows.Next() {
		var (
			p        domain.DeclaredPosition
			aID      uuid.UUID
			category string
		)
		if err := rows.Scan(&aID, &category, &p.Cycle, &p.Likert, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan declared position: %w", err)
		}
		p.ActorID = id.ActorID(aID)
		p.Category = ideology.Category(category)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declared positions: %w", err)
	}
	return out, nil
}

func (s *Postgres) SaveAction(ctx context.Context, action domain.RevealedAction) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO revealed_actions (actor_id, item_id, choice, cast_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, item_id) DO UPDATE SET
			choice = EXCLUDED.choice,
			cast_at = EXCLUDED.cast_at`,
		uuid.UUID(action.ActorID), uuid.UUID(action.ItemID), string(action.Choice), action.CastAt,
	)
	if err != nil {
		return fmt.Errorf("upsert action: %w", err)
	}
	return nil
}

func (s *Postgres) queryActions(ctx context.Context, query string, args ...any) ([]domain.RevealedAction, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var out []domain.RevealedAction
	for rows.Next() {
		var (
			a      domain.RevealedAction
			aID    uuid.UUID
			itemID uuid.UUID
			choice string
		)
		if err := rows.Scan(&aID, &itemID, &choice, &a.CastAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.ActorID = id.ActorID(aID)
		a.ItemID = id.ItemID(itemID)
		a.Choice = domain.Choice(choice)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListActionsByActor(ctx context.Context, actorID id.ActorID) ([]domain.RevealedAction, error) {
	return s.queryActions(ctx, `
		SELECT actor_id, item_id, choice, cast_at FROM revealed_actions
		WHERE actor_id = $1
		ORDER BY cast_at, item_id`, uuid.UUID(actorID))
}

func (s *Postgres) ListActionsByActors(ctx context.Context, actorIDs []id.ActorID, since time.Time) ([]domain.RevealedAction, error) {
	if len(actorIDs) == 0 {
		return nil, nil
	}
	return s.queryActions(ctx, `
		SELECT actor_id, item_id, choice, cast_at FROM revealed_actions
		WHERE actor_id = ANY($1::uuid[]) AND cast_at >= $2
		ORDER BY cast_at, actor_id, item_id`, pq.Array(actorIDStrings(actorIDs)), since)
}

func (s *Postgres) UpsertAlert(ctx context.Context, alert domain.DiscrepancyAlert) error {
	key := alert.Key()
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO discrepancy_alerts (actor_id, category, item_id, deviation, severity, rationale, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (actor_id, category, item_id) DO UPDATE SET
			deviation = EXCLUDED.deviation,
			severity = EXCLUDED.severity,
			rationale = EXCLUDED.rationale,
			computed_at = EXCLUDED.computed_at`,
		uuid.UUID(key.ActorID), string(key.Category), uuid.UUID(key.ItemID),
		alert.Deviation, string(alert.Severity), alert.Rationale, alert.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

func (s *Postgres) ListAlerts(ctx context.Context, actorID id.ActorID) ([]domain.DiscrepancyAlert, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT actor_id, category, item_id, deviation, severity, rationale, computed_at
		FROM discrepancy_alerts WHERE actor_id = $1
		ORDER BY category, item_id`, uuid.UUID(actorID))
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.DiscrepancyAlert
	for rows.Next() {
		var (
			a        domain.DiscrepancyAlert
			aID      uuid.UUID
			itemID   uuid.UUID
			category string
			severity string
		)
		if err := rows.Scan(&aID, &category, &itemID, &a.Deviation, &severity, &a.Rationale, &a.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.ActorID = id.ActorID(aID)
		a.Category = ideology.Category(category)
		a.Severity = domain.Severity(severity)
		if itemID != uuid.Nil {
			i := id.ItemID(itemID)
			a.ItemID = &i
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (s *Postgres) UpsertPivotScore(ctx context.Context, score domain.PivotScore) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO pivot_scores (actor_id, score, categories, insufficient_data, partial, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (actor_id) DO UPDATE SET
			score = EXCLUDED.score,
			categories = EXCLUDED.categories,
			insufficient_data = EXCLUDED.insufficient_data,
			partial = EXCLUDED.partial,
			computed_at = EXCLUDED.computed_at`,
		uuid.UUID(score.ActorID), score.Score, score.Categories, score.InsufficientData, score.Partial, score.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pivot score: %w", err)
	}
	return nil
}

func (s *Postgres) FindPivotScore(ctx context.Context, actorID id.ActorID) (*domain.PivotScore, error) {
	var (
		score domain.PivotScore
		aID   uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT actor_id, score, categories, insufficient_data, partial, computed_at
		FROM pivot_scores WHERE actor_id = $1`, uuid.UUID(actorID),
	).Scan(&aID, &score.Score, &score.Categories, &score.InsufficientData, &score.Partial, &score.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find pivot score: %w", err)
	}
	score.ActorID = id.ActorID(aID)
	return &score, nil
}

func (s *Postgres) UpsertGroupStats(ctx context.Context, stats domain.GroupStats) error {
	dominant, err := json.Marshal(stats.DominantCategories)
	if err != nil {
		return fmt.Errorf("marshal dominant categories: %w", err)
	}
	friction := stats.Friction
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO group_stats (party_id, window_key, cohesion_index, friction, dominant,
			member_count, qualifying_items, no_data, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (party_id, window_key) DO UPDATE SET
			cohesion_index = EXCLUDED.cohesion_index,
			friction = EXCLUDED.friction,
			dominant = EXCLUDED.dominant,
			member_count = EXCLUDED.member_count,
			qualifying_items = EXCLUDED.qualifying_items,
			no_data = EXCLUDED.no_data,
			computed_at = EXCLUDED.computed_at`,
		uuid.UUID(stats.PartyID), stats.Window, stats.CohesionIndex, pq.Float64Array(friction[:]), dominant,
		stats.MemberCount, stats.QualifyingItemCount, stats.NoData, stats.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert group stats: %w", err)
	}
	return nil
}

func (s *Postgres) FindGroupStats(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, error) {
	var (
		stats    domain.GroupStats
		pID      uuid.UUID
		friction pq.Float64Array
		dominant []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT party_id, window_key, cohesion_index, friction, dominant,
			member_count, qualifying_items, no_data, computed_at
		FROM group_stats WHERE party_id = $1 AND window_key = $2`, uuid.UUID(partyID), window,
	).Scan(&pID, &stats.Window, &stats.CohesionIndex, &friction, &dominant,
		&stats.MemberCount, &stats.QualifyingItemCount, &stats.NoData, &stats.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find group stats: %w", err)
	}
	stats.PartyID = id.ActorID(pID)
	copy(stats.Friction[:], friction)
	if err := json.Unmarshal(dominant, &stats.DominantCategories); err != nil {
		return nil, fmt.Errorf("unmarshal dominant categories: %w", err)
	}
	return &stats, nil
}
