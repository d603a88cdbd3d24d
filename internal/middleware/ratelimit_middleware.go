package middleware

import (
	"context"
	"strconv"

	"spark-chat/internal/redis"
	"spark-chat/internal/services"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type limitFunc func(ctx context.Context, userID string) (*redis.RateLimitResult, error)

// MessageRateLimitMiddleware limits sends per user. Must run after AuthMiddleware.
func MessageRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return rateLimit(limiter.AllowMessage, l)
}

// WebSocketRateLimitMiddleware limits websocket upgrades per user.
func WebSocketRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return rateLimit(limiter.AllowWebSocket, l)
}

// rateLimit fails open: a Redis outage must not stop users from chatting.
func rateLimit(allow limitFunc, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := allow(c.Request.Context(), userID)
		if err != nil {
			if l != nil {
				l.WithContext(c.Request.Context()).Warn("rate limit check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			abortWithError(c, spark_errors.ErrRateLimited)
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
