package middleware

import (
	"strings"

	"spark-chat/internal/services"
	spark_errors "spark-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return authenticate(service, ExtractBearer)
}

// WebSocketAuthMiddleware also accepts the token as a "token" query
// parameter, since browsers cannot set headers on websocket upgrades.
func WebSocketAuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return authenticate(service, func(c *gin.Context) string {
		if token := c.Query("token"); token != "" {
			return token
		}
		return ExtractBearer(c)
	})
}

func authenticate(service *services.AuthService, extract func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := service.Authenticate(extract(c))
		if err != nil {
			abortWithError(c, spark_errors.ErrUnauthenticated)
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ExtractBearer returns the token from an "Authorization: Bearer" header.
func ExtractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
