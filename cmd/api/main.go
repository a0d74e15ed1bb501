package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/config"
	"github.com/riodino14/edupulse-backend/internal/database"
	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/handler"
	"github.com/riodino14/edupulse-backend/internal/middleware"
	"github.com/riodino14/edupulse-backend/internal/repository"
	"github.com/riodino14/edupulse-backend/internal/router"
	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "production" {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()
	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer closeRedis(redisClient)
	}

	sources := dataset.SourcesIn(cfg.DataDir, cfg.GradesFile, cfg.FeaturesFile, cfg.ActivityFile, cfg.ClusterLabelsFile)
	snapshot, err := dataset.Load(sources)
	if err != nil {
		logger.Error().Err(err).Str("dir", cfg.DataDir).Msg("learning data not loaded, serving without dataset")
		snapshot = nil
	}
	store := dataset.NewStore(snapshot)

	validate := validator.New(validator.WithRequiredStructEnabled())

	learningData := repository.NewLearningDataRepository(store, sources)
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)

	var chatter ai.Chatter
	if cfg.OpenAIAPIKey != "" {
		client, err := ai.NewOpenAIChatter(ai.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			MaxTokens: cfg.OpenAIMaxTokens,
			Timeout:   cfg.OpenAITimeout,
			Logger:    logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("chat assistant running in fallback mode")
		} else {
			chatter = client
		}
	}

	datasetService := service.NewDatasetService(learningData, cfg.UploadMaxSizeMB, logger)
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		Secret:          cfg.JWTSecret,
		TokenTTL:        cfg.TokenTTL,
		Issuer:          cfg.JWTIssuer,
		DefaultPassword: cfg.DefaultStudentPassword,
	}, logger)
	seedService := service.NewSeedService(userRepo, learningData, service.SeedConfig{
		Enabled:         cfg.SeedEnabled,
		AdminUsername:   cfg.AdminUsername,
		AdminPassword:   cfg.AdminPassword,
		StudentPassword: cfg.DefaultStudentPassword,
	}, logger)
	dashboardService := service.NewStudentDashboardService(learningData, userRepo, redisClient, cfg.DashboardCacheTTL, logger)
	analyticsService := service.NewAdminAnalyticsService(learningData, redisClient, cfg.DashboardCacheTTL, logger)
	recommendationService := service.NewRecommendationService(learningData, userRepo, logger)
	chatService := service.NewChatService(learningData, chatRepo, chatter, logger)

	if snapshot != nil {
		datasetService.Publish(snapshot)
	}
	if cfg.SeedEnabled {
		created, err := seedService.SeedUsers(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("account seeding failed")
		} else {
			logger.Info().Int64("created", created).Msg("accounts seeded")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
		AccessLog:    cfg.AppEnv != "production",
	})
	router.Register(app, cfg, router.Dependencies{
		DatasetService:          datasetService,
		AuthHandler:             handler.NewAuthHandler(authService, validate, logger),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(dashboardService, authService, validate, logger),
		RecommendationHandler:   handler.NewRecommendationHandler(recommendationService, validate, logger),
		ChatHandler:             handler.NewChatHandler(chatService, validate, middleware.RateLimit("chat", cfg.ChatRateLimit, cfg.ChatRateWindow), logger),
		AdminAnalyticsHandler:   handler.NewAdminAnalyticsHandler(analyticsService, logger),
		DatasetHandler:          handler.NewDatasetHandler(datasetService, logger),
		SeedHandler:             handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret, cfg.JWTIssuer),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Printf("redis close failed: %v", err)
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
