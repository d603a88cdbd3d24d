package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{user_id}:messages - per-window message sends
// - ratelimit:{user_id}:websocket - per-window websocket connects

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	MessageLimit    int           // Max messages per window
	MessageWindow   time.Duration // Message rate limit window
	WebSocketLimit  int           // Max websocket connects per window
	WebSocketWindow time.Duration // Websocket rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MessageLimit:    60, // 60 messages per minute
		MessageWindow:   60 * time.Second,
		WebSocketLimit:  20,
		WebSocketWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// AllowMessage checks if a user can send a message
func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, messageKey(userID), r.config.MessageLimit, r.config.MessageWindow)
}

// AllowWebSocket checks if a user can open another websocket
func (r *RateLimiter) AllowWebSocket(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, webSocketKey(userID), r.config.WebSocketLimit, r.config.WebSocketWindow)
}

func messageKey(userID string) string {
	return fmt.Sprintf("ratelimit:%s:messages", userID)
}

func webSocketKey(userID string) string {
	return fmt.Sprintf("ratelimit:%s:websocket", userID)
}

// Increment and check in one round trip so concurrent requests cannot overshoot.
var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

// checkLimit performs the fixed window counter check
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := limitScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed, _ := resultSlice[0].(int64)
	remaining, _ := resultSlice[1].(int64)
	resetIn, _ := resultSlice[2].(int64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(resetIn) * time.Second,
		Limit:     limit,
	}, nil
}
