package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/talkpal-app/conversation-service/internal/ai"
	"github.com/talkpal-app/conversation-service/internal/config"
	"github.com/talkpal-app/conversation-service/internal/handlers"
	"github.com/talkpal-app/conversation-service/internal/repositories"
	"github.com/talkpal-app/conversation-service/internal/repositories/jsonfile"
	"github.com/talkpal-app/conversation-service/internal/repositories/redisstore"
	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
	"github.com/talkpal-app/conversation-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, model calls will use fallback replies")
	}

	// Initialize document store: Redis when configured, JSON file otherwise
	var redisClient *redis.Client
	var store repositories.DocumentStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		store = redisstore.NewDocumentRedis(redisClient, slogLogger)
		logger.Info("Using Redis document store")
	} else {
		store = jsonfile.NewDocumentJSONFile(cfg.DataFile, slogLogger)
		logger.Info("Using JSON file document store", "path", cfg.DataFile)
	}

	// Initialize model client
	chatClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	// Initialize validator
	v := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(store, chatClient, slogLogger, v)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, cfg)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
