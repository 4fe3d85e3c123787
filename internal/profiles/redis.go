package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// RedisProvider shares a live snapshot between processes.
// Reads go to Redis first; on a miss or a corrupt entry the upstream
// provider is queried and the result written back with a TTL.
type RedisProvider struct {
	redis    *redis.Client
	upstream contracts.ProfileProvider
	ttl      time.Duration
	logger   *slog.Logger
}

var _ contracts.ProfileProvider = (*RedisProvider)(nil)

// NewRedisProvider wraps upstream with a Redis read-through layer
func NewRedisProvider(client *redis.Client, upstream contracts.ProfileProvider, ttl time.Duration, logger *slog.Logger) *RedisProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisProvider{
		redis:    client,
		upstream: upstream,
		ttl:      ttl,
		logger:   logger.With("component", "profiles_redis"),
	}
}

// FetchProfiles implements contracts.ProfileProvider
func (p *RedisProvider) FetchProfiles(ctx context.Context, sport string) (map[string]models.TeamStatProfile, error) {
	key := buildKey(sport)

	cached, err := p.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var teams map[string]models.TeamStatProfile
		if jsonErr := json.Unmarshal([]byte(cached), &teams); jsonErr == nil && len(teams) > 0 {
			return teams, nil
		}
		// Cache corruption, treat as miss
		p.logger.Warn("discarding corrupt profile snapshot", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn("redis read failed", "key", key, "error", err)
	}

	if p.upstream == nil {
		return nil, fmt.Errorf("no snapshot in redis for %s and no upstream provider", sport)
	}

	teams, err := p.upstream.FetchProfiles(ctx, sport)
	if err != nil {
		return nil, err
	}

	if len(teams) > 0 {
		data, err := json.Marshal(teams)
		if err != nil {
			return nil, fmt.Errorf("marshal profiles: %w", err)
		}
		if err := p.redis.Set(ctx, key, data, p.ttl).Err(); err != nil {
			// Log but don't fail - the next refresh will retry
			p.logger.Warn("redis write failed", "key", key, "error", err)
		}
	}

	return teams, nil
}

// buildKey creates the Redis key for a sport's snapshot
// Format: profiles:{sport}
func buildKey(sport string) string {
	return fmt.Sprintf("profiles:%s", sport)
}

// StaticProvider returns a fixed table. Used offline and in tests.
type StaticProvider struct {
	Teams map[string]models.TeamStatProfile
	Err   error
}

var _ contracts.ProfileProvider = (*StaticProvider)(nil)

func (s *StaticProvider) FetchProfiles(context.Context, string) (map[string]models.TeamStatProfile, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]models.TeamStatProfile, len(s.Teams))
	for k, v := range s.Teams {
		out[k] = v
	}
	return out, nil
}
