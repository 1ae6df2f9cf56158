package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/haeseoky/member-service/internal/api/http"
	"github.com/haeseoky/member-service/internal/api/http/handlers"
	"github.com/haeseoky/member-service/internal/auth"
	"github.com/haeseoky/member-service/internal/cache"
	"github.com/haeseoky/member-service/internal/config"
	"github.com/haeseoky/member-service/internal/events"
	"github.com/haeseoky/member-service/internal/observability"
	"github.com/haeseoky/member-service/internal/persistence"
	"github.com/haeseoky/member-service/internal/repository"
	"github.com/haeseoky/member-service/internal/service"
	"github.com/haeseoky/member-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	memberRepo := repository.NewMemberRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	memberCache := cache.NewMemberCache(redis.ClientHandle(), cfg.Cache.TTL(), logger)
	publisher := events.NewStreamPublisher(redis.ClientHandle(), cfg.Events.Stream)
	dispatcher := events.NewInMemoryDispatcher()

	commandService := service.NewMemberCommandService(service.CommandDependencies{
		MemberRepo: memberRepo,
		Cache:      memberCache,
		Logger:     logger,
	})
	queryService := service.NewMemberQueryService(memberRepo, memberCache)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	outboxDispatcher := worker.NewOutboxDispatcher(worker.OutboxDependencies{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    metrics,
		Logger:     logger,
		Interval:   cfg.Events.DispatchInterval(),
		BatchSize:  cfg.Events.DispatchBatchSize,
	})
	go outboxDispatcher.Run(ctx)

	streamConsumer := worker.NewStreamConsumer(redis.ClientHandle(), dispatcher, logger, cfg.Events)
	go streamConsumer.Run(ctx)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	membersHandler := handlers.NewMembersHandler(commandService, queryService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       healthHandler,
		Members:      membersHandler,
		TokenManager: tokenManager,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
