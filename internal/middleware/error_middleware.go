package middleware

import (
	"net/http"

	"spark-chat/internal/transport/httpdto"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached with c.Error as the JSON
// error envelope. Handlers only attach; they never write error bodies.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := spark_errors.HTTPStatus(err)
		if l != nil {
			log := l.WithContext(c.Request.Context())
			if status >= http.StatusInternalServerError {
				log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
			} else {
				log.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
			}
		}
		c.JSON(status, httpdto.NewErrorResponse(spark_errors.UserMessage(err), spark_errors.Code(err)))
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(spark_errors.HTTPStatus(err),
		httpdto.NewErrorResponse(spark_errors.UserMessage(err), spark_errors.Code(err)))
}
