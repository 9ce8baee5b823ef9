package main

import (
	"context"
	"errors"
	"formaai/backend/internal/ai"
	"formaai/backend/internal/api"
	"formaai/backend/internal/config"
	"formaai/backend/internal/notify"
	"formaai/backend/internal/repository/mongo"
	"formaai/backend/internal/service"
	"formaai/backend/internal/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting FormaAI Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureProgressLogIndexes(ctx, appDB.Collection("progress_logs"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("diet_plans"))
		mongo.EnsurePostIndexes(ctx, appDB.Collection("posts"))
		mongo.EnsureChatMessageIndexes(ctx, appDB.Collection("chat_messages"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	logRepo := mongo.NewMongoProgressLogRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	postRepo := mongo.NewMongoPostRepository(appDB)
	chatRepo := mongo.NewMongoChatMessageRepository(appDB)

	// --- Initialize AI + Realtime Infrastructure ---
	planCache := ai.NewPlanCache(cfg.AI.CacheTTL)
	generator := ai.NewGeminiGenerator(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout)
	hub := notify.NewHub()

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(userRepo, fileStorage)
	logService := service.NewLogService(logRepo, userRepo, planRepo, generator, planCache, hub)
	planService := service.NewPlanService(planRepo, userRepo, generator, planCache)
	socialService := service.NewSocialService(postRepo, userRepo, profileService, fileStorage)
	chatService := service.NewChatService(chatRepo, userRepo, profileService, hub)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, hub, authService, profileService, logService, planService, socialService, chatService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
