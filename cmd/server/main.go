package main

import (
	"context"
	"log"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/ideaflow/api/handler"
	"github.com/fastygo/ideaflow/internal/ai"
	"github.com/fastygo/ideaflow/internal/anonymize"
	"github.com/fastygo/ideaflow/internal/app"
	"github.com/fastygo/ideaflow/internal/config"
	"github.com/fastygo/ideaflow/internal/infrastructure/jobqueue"
	"github.com/fastygo/ideaflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/ideaflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/ideaflow/internal/infrastructure/redis"
	"github.com/fastygo/ideaflow/internal/middleware"
	"github.com/fastygo/ideaflow/internal/router"
	"github.com/fastygo/ideaflow/internal/services"
	"github.com/fastygo/ideaflow/internal/services/lifecycle"
	"github.com/fastygo/ideaflow/pkg/httpcontext"
	"github.com/fastygo/ideaflow/pkg/logger"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/repository/memory"
	"github.com/fastygo/ideaflow/repository/postgres"
	redisRepo "github.com/fastygo/ideaflow/repository/redis"
	"github.com/fastygo/ideaflow/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	deps := app.CoreDeps{
		Policy: repository.UpdatePolicy{
			MaxAttempts: cfg.Saga.ConflictRetries,
			Backoff:     cfg.Saga.ConflictBackoff,
		},
		AudienceConcurrency: cfg.AI.MaxConcurrency,
		Anonymizer:          anonymize.New(),
		Logger:              zapLogger,
	}

	var pinger monitor.Pinger
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, cfg.AppName, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		pinger = pool
		deps.Concepts = postgres.NewConceptRepository(pool)
		deps.Ideas = postgres.NewIdeaRepository(pool)
	default:
		zapLogger.Warn("using in-memory storage, data is lost on restart")
		deps.Concepts = memory.NewConceptRepository()
		deps.Ideas = memory.NewIdeaRepository()
	}

	var redisCmd goRedis.Cmdable
	if cfg.Redis.Enabled() {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)
		redisCmd = redisClient
		deps.Guard = redisRepo.NewCampaignRequestGuard(redisClient, cfg.Campaigns.GuardTTL)
	} else {
		deps.Guard = memory.NewCampaignRequestGuard(cfg.Campaigns.GuardTTL)
	}

	aiService, err := newAIService(appCtx, cfg.AI, zapLogger)
	if err != nil {
		zapLogger.Fatal("ai provider setup failed", zap.Error(err))
	}
	deps.AI = aiService

	core := app.NewCore(deps)

	queue, err := jobqueue.Open(cfg.Campaigns.QueuePath, "campaigns")
	if err != nil {
		zapLogger.Fatal("failed to open campaign queue", zap.Error(err))
	}
	manager.RegisterCloser("campaign_queue", queue)

	mon := monitor.New(pinger, redisCmd, queue, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	processor := services.NewCampaignProcessor(
		queue,
		mon,
		core.Ideas,
		aiService,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Campaigns.DrainInterval,
			BatchSize:  cfg.Campaigns.BatchSize,
			MaxRetries: cfg.Campaigns.MaxRetry,
			Workers:    cfg.Campaigns.Workers,
			JobTimeout: cfg.Campaigns.JobTimeout,
			Retention:  time.Duration(cfg.Campaigns.RetentionHours) * time.Hour,
		},
	)
	processor.Start()
	manager.Register("campaign_processor", func(ctx context.Context) error {
		processor.Stop(ctx)
		return nil
	})
	core.UseScheduler(services.NewCampaignScheduler(processor))

	if err := core.CheckSubscriptions(cfg.Events.Strict); err != nil {
		zapLogger.Fatal("event wiring incomplete", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Concept: apiHandler.NewConceptHandler(core.Concepts, ctxAdapter, zapLogger),
		Idea:    apiHandler.NewIdeaHandler(core.Ideas, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            middleware.Chain(r.Handler, middleware.Recover(zapLogger)),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:      cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("ai_provider", cfg.AI.Provider))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func newAIService(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (usecase.AIService, error) {
	if cfg.Provider != config.AIProviderGenAI {
		log.Warn("using static AI provider", zap.String("provider", cfg.Provider))
		return ai.Static{}, nil
	}
	gen, err := ai.NewGenAIGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	log.Info("ai provider ready", zap.String("generator", gen.Name()))
	return ai.NewService(gen, cfg.Timeout, log), nil
}
