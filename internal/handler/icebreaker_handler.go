package handler

import (
	"fmt"
	"net/http"

	"spark-chat/internal/services"
	"spark-chat/internal/transport/httpdto"
	spark_errors "spark-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

type IcebreakerHandler struct {
	service *services.IcebreakerService
}

func NewIcebreakerHandler(service *services.IcebreakerService) *IcebreakerHandler {
	return &IcebreakerHandler{service: service}
}

func (h *IcebreakerHandler) Suggest(c *gin.Context) {
	count, err := parseInt(c.Query("count"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid count", spark_errors.ErrInvalidInput))
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), c.Param("id"), userID, count)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.IcebreakersResponse{Icebreakers: suggestions}))
}
