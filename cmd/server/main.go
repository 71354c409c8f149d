package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck-backend/internal/config"
	"flashdeck-backend/internal/database"
	"flashdeck-backend/internal/handlers"
	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/router"
	"flashdeck-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting FlashDeck Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	studySessionRepo := repository.NewStudySessionRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)

	// ──── Step 5: Initialize Flashcard Generator ────
	var generator services.FlashcardGenerator
	switch cfg.AIProvider {
	case "fake":
		generator = services.NewStaticGenerator()
		log.Println("✓ Static flashcard generator initialized")
	default:
		geminiGen, err := services.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiGen.Close()
		generator = geminiGen
		log.Println("✓ Gemini Flash client initialized")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.AccessTokenTTL, userRepo)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	fileExtractService := services.NewFileExtractService(cfg.AllowedExtensions)
	statsService := services.NewStatsService(
		flashcardRepo, studySessionRepo, progressRepo,
		cfg.MasteryMinCorrect, cfg.MasteryMaxDifficulty,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardRepo)
	documentHandler := handlers.NewDocumentHandler(fileExtractService, cfg.UploadDir, cfg.MaxUploadSize)
	aiHandler := handlers.NewAIHandler(generator, fileExtractService, flashcardRepo, cfg.UploadDir)
	studySessionHandler := handlers.NewStudySessionHandler(studySessionRepo, flashcardRepo, progressRepo, statsService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		flashcardHandler,
		documentHandler,
		aiHandler,
		studySessionHandler,
		dashboardHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FlashDeck Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
