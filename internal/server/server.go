package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spark-chat/config"
	"spark-chat/internal/handler"
	"spark-chat/internal/middleware"
	"spark-chat/internal/redis"
	"spark-chat/internal/services"
	"spark-chat/internal/transport/httpdto"
	"spark-chat/internal/websocket"
	"spark-chat/pkg/database"
	"spark-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
	Icebreakers   *handler.IcebreakerHandler
	WebSocket     *websocket.Handler
}

// Infra is what the route middleware and health check need. Limiter and
// Redis may be nil when running without Redis.
type Infra struct {
	Auth    *services.AuthService
	Limiter *redis.RateLimiter
	DB      *gorm.DB
	Redis   *goredis.Client
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, infra Infra) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		status := gin.H{"database": "ok"}
		healthy := true
		if err := database.HealthCheck(c.Request.Context(), infra.DB); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if infra.Redis != nil {
			status["redis"] = "ok"
			if err := redis.HealthCheck(c.Request.Context(), infra.Redis); err != nil {
				status["redis"] = err.Error()
				healthy = false
			}
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, httpdto.Response[gin.H]{Success: false, Data: status, Code: "UNHEALTHY"})
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(status))
	})

	v1 := s.engine.Group("/v1")

	ws := v1.Group("/ws", middleware.WebSocketAuthMiddleware(infra.Auth))
	if infra.Limiter != nil {
		ws.Use(middleware.WebSocketRateLimitMiddleware(infra.Limiter, s.logger))
	}
	ws.GET("", handlers.WebSocket.Connect)

	api := v1.Group("", middleware.AuthMiddleware(infra.Auth), middleware.TimeoutMiddleware(s.config.RequestTimeout))
	{
		api.GET("/unread", handlers.Conversations.Unread)

		conversations := api.Group("/conversations")
		conversations.POST("", handlers.Conversations.Create)
		conversations.GET("", handlers.Conversations.List)
		conversations.GET("/:id", handlers.Conversations.GetByID)
		conversations.GET("/:id/messages", handlers.Messages.List)
		conversations.GET("/:id/messages/count", handlers.Messages.Count)
		conversations.POST("/:id/read", handlers.Messages.MarkRead)
		conversations.GET("/:id/icebreakers", handlers.Icebreakers.Suggest)

		send := []gin.HandlerFunc{}
		if infra.Limiter != nil {
			send = append(send, middleware.MessageRateLimitMiddleware(infra.Limiter, s.logger))
		}
		send = append(send, handlers.Messages.Send)
		conversations.POST("/:id/messages", send...)
	}
}

// Start serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if s.logger != nil {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
		return err
	case <-quit:
		if s.logger != nil {
			s.logger.Infof("Quitting signal received, shutting down")
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return nil
}
