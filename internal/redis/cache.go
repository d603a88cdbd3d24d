package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - profile:{user_id} - ProfileTTL, display data from the profile service

// CacheConfig contains configuration for caching
type CacheConfig struct {
	ProfileTTL time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProfileTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// ProfileCache represents cached profile data
type ProfileCache struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	ContactHandle string    `json:"contact_handle"`
	AvatarRef     string    `json:"avatar_ref"`
	CachedAt      time.Time `json:"cached_at"`
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// GetProfile returns nil, nil on a cache miss.
func (c *CacheStore) GetProfile(ctx context.Context, userID string) (*ProfileCache, error) {
	data, err := c.client.Get(ctx, profileKey(userID)).Result()
	if err == goredis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var profile ProfileCache
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *CacheStore) SetProfile(ctx context.Context, profile *ProfileCache) error {
	if profile.CachedAt.IsZero() {
		profile.CachedAt = time.Now().UTC()
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(profile.UserID), data, c.config.ProfileTTL).Err()
}

func (c *CacheStore) InvalidateProfile(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profileKey(userID)).Err()
}
