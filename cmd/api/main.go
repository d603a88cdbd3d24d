package main

import (
	"context"
	"log"
	"time"

	"spark-chat/config"
	"spark-chat/internal/events"
	"spark-chat/internal/external"
	"spark-chat/internal/handler"
	"spark-chat/internal/proxy"
	"spark-chat/internal/realtime"
	sparkredis "spark-chat/internal/redis"
	"spark-chat/internal/repository"
	"spark-chat/internal/server"
	"spark-chat/internal/services"
	"spark-chat/internal/websocket"
	"spark-chat/pkg/database"
	"spark-chat/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(l, realtime.DefaultBackoffConfig())
	defer hub.Close()

	sparkredis.Initialize(sparkredis.ConfigFrom(cfg))
	redisClient := sparkredis.GetClient()
	defer func() { _ = redisClient.Close() }()

	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	redisErr := sparkredis.HealthCheck(pingCtx, redisClient)
	pingCancel()

	var (
		notifier    events.Notifier
		limiter     *sparkredis.RateLimiter
		profiles    services.ProfileProvider
		healthRedis *goredis.Client
	)
	profileClient := external.NewProfileClient(external.Config{
		BaseURL: cfg.ProfileServiceURL,
		Token:   cfg.ExternalServiceToken,
		Timeout: cfg.ExternalTimeout,
	})
	if redisErr != nil {
		// single instance mode: in-process fan out, no rate limits or cache
		l.Logger.Warn("redis unavailable, running single instance", zap.Error(redisErr))
		notifier = events.NewLocalNotifier(hub, nil)
		profiles = profileClient
	} else {
		healthRedis = redisClient
		notifier = events.NewRedisNotifier(sparkredis.NewPublisher(redisClient), nil, l)
		bridge := events.NewRedisBridge(sparkredis.NewSubscriber(redisClient), hub, l)
		go func() {
			if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
				l.Logger.Error("redis bridge stopped", zap.Error(err))
			}
		}()

		rateLimits := sparkredis.DefaultRateLimitConfig()
		if cfg.MessageRateLimit > 0 {
			rateLimits.MessageLimit = cfg.MessageRateLimit
		}
		limiter = sparkredis.NewRateLimiter(redisClient, rateLimits)
		cache := sparkredis.NewCacheStore(redisClient, sparkredis.DefaultCacheConfig())
		profiles = external.NewCachedProfileProvider(profileClient, cache, l)
	}

	icebreakers := external.NewIcebreakerClient(external.Config{
		BaseURL: cfg.IcebreakerServiceURL,
		Token:   cfg.ExternalServiceToken,
		Timeout: cfg.ExternalTimeout,
	})

	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	access := proxy.NewAccessControl(conversationRepo)
	publisher := services.NewEventPublisher(notifier, l)

	authService := services.NewAuthService(cfg)
	conversationService := services.NewConversationService(conversationRepo, access, profiles, publisher, l, cfg.LegacyScanLimit)
	messageService := services.NewMessageService(db, messageRepo, access, hub, publisher, l)
	readService := services.NewReadService(db, publisher, l)
	inboxService := services.NewInboxService(conversationRepo, hub)
	icebreakerService := services.NewIcebreakerService(access, messageRepo, icebreakers, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Conversations: handler.NewConversationHandler(conversationService, inboxService),
		Messages:      handler.NewMessageHandler(messageService, readService),
		Icebreakers:   handler.NewIcebreakerHandler(icebreakerService),
		WebSocket: websocket.NewHandler(websocket.Dependencies{
			Messages:       messageService,
			Inbox:          inboxService,
			Reads:          readService,
			ReadDebounce:   cfg.ReadDebounce,
			RequestTimeout: cfg.RequestTimeout,
		}, l),
	}, server.Infra{
		Auth:    authService,
		Limiter: limiter,
		DB:      db,
		Redis:   healthRedis,
	})

	if err := srv.Start(ctx); err != nil {
		l.Logger.Error("server stopped with error", zap.Error(err))
	}
}
