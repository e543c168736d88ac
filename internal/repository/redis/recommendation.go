// Package redis implements caching repositories backed by Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eaaniwezi/anirecs/internal/domain"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

const (
	keyPrefix  = "anirecs:recommendations:"
	defaultTTL = 10 * time.Minute
)

// RecommendationCache caches per-user recommendation lists in Redis.
// A cache miss is reported as apperrors.ErrNotFound so the service layer
// falls through to recomputing from Postgres.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache creates a cache with the default TTL.
func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{client: client, ttl: defaultTTL}
}

// Get returns the cached recommendations for the user.
func (c *RecommendationCache) Get(ctx context.Context, userID int64) ([]domain.Anime, error) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get recommendations from cache: %w", err)
	}

	var animes []domain.Anime
	if err := json.Unmarshal(data, &animes); err != nil {
		return nil, fmt.Errorf("unmarshal cached recommendations: %w", err)
	}

	return animes, nil
}

// Set stores the recommendations for the user with the cache TTL.
func (c *RecommendationCache) Set(ctx context.Context, userID int64, animes []domain.Anime) error {
	data, err := json.Marshal(animes)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set recommendations in cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached recommendations for the user. Called when the
// user's preferences change.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate recommendations cache: %w", err)
	}
	return nil
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}
