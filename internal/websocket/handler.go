package websocket

import (
	"net/http"
	"time"

	"spark-chat/internal/services"
	"spark-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Dependencies are the services a connection drives.
type Dependencies struct {
	Messages       *services.MessageService
	Inbox          *services.InboxService
	Reads          *services.ReadService
	ReadDebounce   time.Duration
	RequestTimeout time.Duration
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	deps   Dependencies
	logger *WebSocketLogger
}

func NewHandler(deps Dependencies, l *logger.Logger) *Handler {
	if deps.ReadDebounce <= 0 {
		deps.ReadDebounce = services.DefaultReadDebounce
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 5 * time.Second
	}
	return &Handler{deps: deps, logger: NewWebSocketLogger(l)}
}

// Connect upgrades an authenticated request and serves the connection
// until it closes.
func (h *Handler) Connect(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", userID, "", err)
		return
	}

	client := NewClient(conn, userID, h.deps, h.logger)
	h.logger.Info("client connected", userID, client.ID)

	go client.WritePump()
	client.ReadPump()
}
