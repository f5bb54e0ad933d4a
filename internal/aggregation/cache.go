package aggregation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"polis/internal/domain"
	id "polis/pkg/domain"
)

const statsKeyPrefix = "polis:group_stats:"

// RedisCache stores GroupStats as JSON with a fixed TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func statsKey(partyID id.ActorID, window string) string {
	return statsKeyPrefix + partyID.String() + ":" + window
}

func (c *RedisCache) Get(ctx context.Context, partyID id.ActorID, window string) (*domain.GroupStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey(partyID, window)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get group stats: %w", err)
	}
	var stats domain.GroupStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("decode group stats: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisCache) Set(ctx context.Context, stats *domain.GroupStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode group stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(stats.PartyID, stats.Window), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set group stats: %w", err)
	}
	return nil
}
