package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/config"
	"alfredoptarigan/cv-coach/internal/handlers"
	"alfredoptarigan/cv-coach/internal/logging"
	"alfredoptarigan/cv-coach/internal/metrics"
	"alfredoptarigan/cv-coach/internal/middleware"
	"alfredoptarigan/cv-coach/internal/repositories"
	"alfredoptarigan/cv-coach/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	logger.Info("config loaded", zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	candidateRepo := repositories.NewCandidateRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	skillRepo := repositories.NewSkillRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)

	if _, err := services.SeedQuestions(questionRepo, logger); err != nil {
		logger.Fatal("failed to seed interview questions", zap.Error(err))
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		EmbedModel:  cfg.Gemini.EmbedModel,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	logger.Info("gemini initialized", zap.String("model", cfg.Gemini.Model))

	var retriever services.GuidanceRetriever
	if cfg.Qdrant.Enabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, logger)
		if err != nil {
			logger.Fatal("failed to initialize Qdrant", zap.Error(err))
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			logger.Fatal("failed to initialize Qdrant collection", zap.Error(err))
		}
		retriever = services.NewGuidanceRetriever(geminiService, qdrantService)
		logger.Info("qdrant guidance retrieval enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	locker, closeLocker := newSessionLocker(ctx, cfg, logger)
	defer closeLocker()

	authService := services.NewAuthService(candidateRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	skillExtractor := services.NewSkillExtractor(skillRepo, geminiService, logger)
	cvService := services.NewCVService(
		docRepo,
		storageService,
		services.NewTextExtractor(),
		skillExtractor,
		cfg.Storage.MaxFileSize,
		logger,
	)
	reportService := services.NewReportService(docRepo, reportRepo, geminiService, retriever, logger)
	interviewService := services.NewInterviewService(
		candidateRepo,
		questionRepo,
		interviewRepo,
		geminiService,
		locker,
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      "CV Coach API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		// multipart overhead on top of the file itself
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(metrics.Middleware(middleware.StatusFromError))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		CV:        handlers.NewCVHandler(cvService),
		Report:    handlers.NewReportHandler(cvService, reportService),
		Interview: handlers.NewInterviewHandler(interviewService),
	}, middleware.RequireAuth(authService))

	app.Get("/metrics", metrics.Handler())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Coach API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
				"POST /api/v1/auth/refresh",
				"POST /api/v1/auth/verify",
				"POST /api/v1/cv",
				"GET /api/v1/cv",
				"GET /api/v1/cv/:id/skills",
				"DELETE /api/v1/cv/:id",
				"POST /api/v1/cv/:id/reports",
				"GET /api/v1/cv/:id/reports",
				"GET /api/v1/reports/:id",
				"POST /api/v1/interviews",
				"GET /api/v1/interviews",
				"GET /api/v1/interviews/:id",
				"POST /api/v1/interviews/:id/answers",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(cfg.Gemini.Timeout); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// newSessionLocker uses Redis when REDIS_URL is set so that several API
// replicas share interview locks; otherwise locks are process-local.
func newSessionLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.SessionLocker, func()) {
	if cfg.Redis.URL == "" {
		logger.Info("using in-process interview session locks")
		return services.NewMemorySessionLocker(), func() {}
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	ttl := cfg.Gemini.Timeout + 30*time.Second
	logger.Info("using Redis interview session locks", zap.Duration("ttl", ttl))

	return services.NewRedisSessionLocker(rdb, ttl, logger), func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close Redis client", zap.Error(err))
		}
	}
}
