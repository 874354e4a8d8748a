package main

import (
	"context"
	"errors"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/coachly/api/handler"
	"github.com/fastygo/coachly/internal/config"
	"github.com/fastygo/coachly/internal/infrastructure/buffer"
	"github.com/fastygo/coachly/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/coachly/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/coachly/internal/infrastructure/redis"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/internal/middleware"
	"github.com/fastygo/coachly/internal/router"
	"github.com/fastygo/coachly/internal/services"
	"github.com/fastygo/coachly/internal/services/lifecycle"
	"github.com/fastygo/coachly/pkg/httpcontext"
	"github.com/fastygo/coachly/pkg/logger"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/repository/postgres"
	redisRepo "github.com/fastygo/coachly/repository/redis"
	"github.com/fastygo/coachly/usecase"
	authUC "github.com/fastygo/coachly/usecase/auth"
	autopilotUC "github.com/fastygo/coachly/usecase/autopilot"
	coachUC "github.com/fastygo/coachly/usecase/coach"
	profileUC "github.com/fastygo/coachly/usecase/profile"
	taskUC "github.com/fastygo/coachly/usecase/task"
	wellbeingUC "github.com/fastygo/coachly/usecase/wellbeing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		if !errors.Is(err, pgInfra.ErrUnreachable) {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		zapLogger.Error("postgres unreachable, migrations skipped until restart", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register(lifecycle.PhaseStorage, "postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	var sessionRepo repository.SessionRepository
	redisClient, err := redisInfra.NewClient(cfg.Redis)
	switch {
	case err != nil:
		zapLogger.Warn("redis unavailable, token revocation disabled", zap.Error(err))
	case redisClient == nil:
		zapLogger.Info("redis not configured, token revocation disabled")
	default:
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Auth.RevocationTTL)
		manager.Register(lifecycle.PhaseStorage, "redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, cfg.Buffer.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register(lifecycle.PhaseStorage, "buffer_store", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	gateway := cfg.Gateway()
	llmClient := llm.NewGatewayClient(gateway, llm.NewZapObserver(zapLogger))
	if !gateway.Configured() {
		zapLogger.Warn("AI gateway key missing, AI operations will fail")
	}

	mon := monitor.New(pool, redisClient, bufferStore, llmClient, cfg.Buffer.CheckInterval, zapLogger)
	mon.Start()
	manager.Register(lifecycle.PhaseWorkers, "monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	goalRepo := postgres.NewGoalRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	coachTaskRepo := postgres.NewCoachTaskRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	moodRepo := postgres.NewMoodRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	habitRepo := postgres.NewHabitRepository(pool)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		notificationRepo,
		activityRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			MaxAge:     cfg.Buffer.MaxAge,
		},
	)
	bufferProcessor.Start()
	manager.Register(lifecycle.PhaseFlush, "buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	authUseCase := authUC.New(cfg.Auth.JWTSecret, sessionRepo, zapLogger)
	if !authUseCase.Configured() {
		zapLogger.Warn("JWT secret missing, authenticated routes will fail")
	}
	autopilotUseCase := autopilotUC.New(autopilotUC.Repositories{
		Goals:         goalRepo,
		Tasks:         taskRepo,
		Activity:      activityRepo,
		Notifications: notificationRepo,
		Reports:       reportRepo,
	}, llmClient, bufferBridge, zapLogger)
	coachUseCase := coachUC.New(chatRepo, coachTaskRepo, llmClient, zapLogger)
	taskUseCase := taskUC.New(coachTaskRepo, zapLogger)
	profileUseCase := profileUC.New(profileRepo, cfg.Profile.TrialPeriod, zapLogger)
	wellbeingUseCase := wellbeingUC.New(wellbeingUC.Repositories{
		Moods:   moodRepo,
		Journal: journalRepo,
		Habits:  habitRepo,
	}, llmClient, zapLogger)

	dispatcher := usecase.NewDispatcher()
	autopilotUseCase.Register(dispatcher)

	if cfg.Autopilot.Enabled {
		scheduler, err := services.NewAutopilotScheduler(autopilotUseCase, zapLogger, services.SchedulerConfig{
			Spec:    cfg.Autopilot.Schedule,
			Timeout: cfg.Autopilot.Timeout,
		})
		if err != nil {
			zapLogger.Fatal("invalid autopilot schedule", zap.Error(err))
		}
		scheduler.Start()
		manager.Register(lifecycle.PhaseWorkers, "autopilot_scheduler", func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout, cfg.Context.StreamTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Autopilot: apiHandler.NewAutopilotHandler(autopilotUseCase, ctxAdapter, zapLogger),
		Chat:      apiHandler.NewChatHandler(coachUseCase, ctxAdapter, zapLogger),
		Function:  apiHandler.NewFunctionHandler(dispatcher, coachUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Wellbeing: apiHandler.NewWellbeingHandler(wellbeingUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.NewAuth(authUseCase, apiHandler.EnvelopeError, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler:            middleware.CORS(cfg.CORS)(r.Handler),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register(lifecycle.PhaseIngress, "http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
