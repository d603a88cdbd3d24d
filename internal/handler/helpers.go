package handler

import (
	"strconv"

	"spark-chat/internal/services"
	spark_errors "spark-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

// currentUser returns the authenticated user or attaches ErrUnauthenticated.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		_ = c.Error(spark_errors.ErrUnauthenticated)
		return "", false
	}
	return userID, true
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
