package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaythanay/Interview-ChatBOt/internal/cache"
	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
	"github.com/vinaythanay/Interview-ChatBOt/internal/repository"
	"github.com/vinaythanay/Interview-ChatBOt/internal/service"
	"github.com/vinaythanay/Interview-ChatBOt/internal/transport/rest"
	"github.com/vinaythanay/Interview-ChatBOt/internal/transport/ws"
)

// @title Interview ChatBot API
// @version 1.0
// @description Automated mock-interview sessions with adaptive questioning, proctoring and performance reports
// @host localhost:8080
// @BasePath /v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg := config.LoadServerConfig()
	aiConfig := config.DefaultAIConfig()
	interviewConfig := config.DefaultInterviewConfig()

	log.Printf("AI Config: %d models across %d API versions", len(aiConfig.Models), len(aiConfig.APIVersions))
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured")
	} else {
		log.Println("  API Key: NOT SET (fallback question generator only)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisURI, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	sessionRepo := repository.NewSessionRepository(mongoClient, cfg.MongoDB)
	historyRepo := repository.NewHistoryRepository(mongoClient, cfg.MongoDB)
	reportRepo := repository.NewReportRepository(mongoClient, cfg.MongoDB)

	// Caches
	sessionCache := cache.NewSessionCache(rdb)
	insightCache := cache.NewInsightCache(rdb)

	// Services
	authSvc := service.NewAuthService()
	reportSvc := service.NewReportService(reportRepo)
	geminiClient := service.NewGeminiClient(aiConfig)
	codingCtrl := service.NewCodingController()
	codeRunner := service.NewCodeRunner()

	manager := service.NewSessionManager(geminiClient, codingCtrl, reportSvc,
		sessionRepo, historyRepo, sessionCache, insightCache, interviewConfig)
	manager.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:    authSvc,
		SessionManager: manager,
		ReportService:  reportSvc,
		CodeRunner:     codeRunner,
		WSHub:          wsHub,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/setup/{step}")
		log.Println("  POST /v1/sessions/{id}/answers")
		log.Println("  POST /v1/sessions/{id}/code/{run|submit|skip}")
		log.Println("  GET  /v1/sessions/{id}/report")
		log.Println("  WS   /v1/ws/sessions/{id}/candidate")
		log.Println("  WS   /v1/ws/sessions/{id}/operator")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
