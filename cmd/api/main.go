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
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/config"
	"github.com/spillzone/spillzone-api/internal/database"
	"github.com/spillzone/spillzone-api/internal/handler"
	"github.com/spillzone/spillzone-api/internal/middleware"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/repository"
	"github.com/spillzone/spillzone-api/internal/router"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Confession{},
		&models.Comment{},
		&models.ChatMessage{},
		&models.MoodLock{},
		&models.User{},
		&models.GameSession{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional; without them the node still serves traffic
	// but loses caching and cross-node fan-out.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NatsURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, continuing without fan-out")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	confessionRepo := repository.NewConfessionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	moodLockRepo := repository.NewMoodLockRepository(db)
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameSessionRepository(db)

	templates := roast.NewTemplateGenerator(time.Now().UnixNano(), logger)
	var roaster roast.Generator = templates
	if cfg.OpenAIAPIKey != "" {
		generator, err := roast.NewOpenAIGenerator(roast.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		}, templates)
		if err != nil {
			logger.Warn().Err(err).Msg("openai generator unavailable, using templates")
		} else {
			roaster = generator
		}
	}

	profileService := service.NewProfileService(userRepo, logger)
	confessionService := service.NewConfessionService(confessionRepo, redisClient, cfg.FeedCacheTTL, roaster, profileService, validate, logger)
	commentService := service.NewCommentService(commentRepo, confessionRepo, redisClient, cfg.EventChannel, natsConn, validate, logger)
	moodLockService := service.NewMoodLockService(moodLockRepo, logger)
	chatService := service.NewChatService(chatRepo, moodLockService, templates, redisClient, cfg.EventChannel, natsConn, cfg.ChatKeepAlive, validate, logger)
	gameService := service.NewGameService(gameRepo, profileService, validate, logger)
	cleanupService := service.NewCleanupService(confessionRepo, commentRepo, chatRepo, moodLockRepo, cfg.CleanupInterval, logger)

	runCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	commentService.Start(runCtx)
	chatService.Start(runCtx)
	cleanupService.Start(runCtx)

	confessionHandler := handler.NewConfessionHandler(confessionService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	moodLockHandler := handler.NewMoodLockHandler(moodLockService, logger)
	userHandler := handler.NewUserHandler(profileService, logger)
	gameHandler := handler.NewGameHandler(gameService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ConfessionHandler: confessionHandler,
		CommentHandler:    commentHandler,
		ChatHandler:       chatHandler,
		MoodLockHandler:   moodLockHandler,
		UserHandler:       userHandler,
		GameHandler:       gameHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopWorkers)
}

func waitForShutdown(app *fiber.App, stopWorkers context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
