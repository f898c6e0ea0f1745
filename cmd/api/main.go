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

	"github.com/teddycheru/tenderlens/internal/config"
	"github.com/teddycheru/tenderlens/internal/platform/auth"
	"github.com/teddycheru/tenderlens/internal/platform/embedclient"
	"github.com/teddycheru/tenderlens/internal/platform/extractor"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	"github.com/teddycheru/tenderlens/internal/platform/logger"
	"github.com/teddycheru/tenderlens/internal/platform/observability"
	"github.com/teddycheru/tenderlens/internal/platform/postgres"
	"github.com/teddycheru/tenderlens/internal/platform/redis"

	accountRepo "github.com/teddycheru/tenderlens/modules/accounts/repository"

	authHandler "github.com/teddycheru/tenderlens/modules/auth/handler"
	authRepo "github.com/teddycheru/tenderlens/modules/auth/repository"
	authService "github.com/teddycheru/tenderlens/modules/auth/service"

	profileHandler "github.com/teddycheru/tenderlens/modules/profiles/handler"
	profileRepo "github.com/teddycheru/tenderlens/modules/profiles/repository"
	profileService "github.com/teddycheru/tenderlens/modules/profiles/service"

	tenderHandler "github.com/teddycheru/tenderlens/modules/tenders/handler"
	tenderports "github.com/teddycheru/tenderlens/modules/tenders/ports"
	tenderRepo "github.com/teddycheru/tenderlens/modules/tenders/repository"
	tenderService "github.com/teddycheru/tenderlens/modules/tenders/service"

	feedbackHandler "github.com/teddycheru/tenderlens/modules/feedback/handler"
	feedbackRepo "github.com/teddycheru/tenderlens/modules/feedback/repository"
	feedbackService "github.com/teddycheru/tenderlens/modules/feedback/service"

	recommendHandler "github.com/teddycheru/tenderlens/modules/recommend/handler"
	recommendService "github.com/teddycheru/tenderlens/modules/recommend/service"

	"github.com/teddycheru/tenderlens/modules/vectorstore"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := observability.Init(cfg.Sentry); err != nil {
		logger.Warn("Failed to initialize Sentry, error reporting disabled", zap.Error(err))
	}
	defer observability.Flush(2 * time.Second)

	logger.Info("Starting TenderLens API server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Initialize PostgreSQL
	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	logger.Info("Connected to PostgreSQL")

	// Run database migrations (MANDATORY: must run before HTTP server starts)
	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, logger, migrationsPath); err != nil {
		logger.Fatal("Failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	// Initialize Redis
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize the embedding client: Bedrock Titan embeddings with a
	// content-addressed cache in Redis.
	embeddingCache := embedclient.NewRedisCache(redisClient.Client, cfg.Embedding.CacheTTL)
	embedder, err := embedclient.New(cfg.Embedding, embeddingCache)
	if err != nil {
		logger.Fatal("Failed to initialize embedding client", zap.Error(err))
	}

	// Initialize the vector store: tender/profile embeddings in pgvector
	// columns, on the primary database by default or on a dedicated
	// VECTOR_STORE_URL database when configured.
	vectorPool := pgClient.Pool
	if cfg.VectorStore.URL != "" {
		vsPool, err := pgxpool.New(ctx, cfg.VectorStore.DSNOrDefault(cfg.Database.DSN()))
		if err != nil {
			logger.Fatal("Failed to connect to vector store database", zap.Error(err))
		}
		defer vsPool.Close()
		vectorPool = vsPool
		logger.Info("Connected to dedicated vector store database")
	}
	vectorStore := vectorstore.NewPostgresVectorStore(vectorPool, cfg.Embedding.Dimension)

	// Initialize the content extractor, optional: with no Anthropic
	// API key configured, tenders skip background extraction and
	// content-status reports CONTENT_EXTRACTION_UNAVAILABLE. Left as a
	// nil interface (not a nil *ContentExtractorAdapter) when disabled,
	// so TenderService's `s.extractor != nil` guard works correctly.
	var contentExtractor tenderports.ContentExtractor
	if cfg.Anthropic.APIKey != "" {
		anthropicExtractor := extractor.NewAnthropicExtractor(cfg.Anthropic.APIKey, redisClient)
		contentExtractor = tenderService.NewContentExtractorAdapter(anthropicExtractor)
		logger.Info("Content extraction enabled")
	} else {
		logger.Info("ANTHROPIC_API_KEY not set, content extraction disabled")
	}

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(observability.PanicReporter())
	router.Use(gin.Recovery())
	router.Use(observability.ErrorReporter())
	router.Use(httpPlatform.RequestIDMiddleware())
	router.Use(httpPlatform.LoggerMiddleware(logger))
	router.Use(httpPlatform.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", healthCheckHandler(ctx, pgClient, redisClient))

	// Ping endpoint
	router.GET("/ping", pingHandler)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Auth middleware
	authMiddleware := auth.AuthMiddleware(jwtManager)

	// Initialize repositories
	accountRepository := accountRepo.NewAccountRepository(pgClient.Pool)
	tokenRepository := authRepo.NewRefreshTokenRepository(pgClient.Pool)
	profileRepository := profileRepo.NewProfileRepository(pgClient.Pool)
	tenderRepository := tenderRepo.NewTenderRepository(pgClient.Pool)
	interactionRepository := feedbackRepo.NewInteractionRepository(pgClient.Pool)

	// Initialize services
	authSvc := authService.NewAuthService(
		accountRepository,
		tokenRepository,
		jwtManager,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	profileSvc := profileService.NewProfileService(profileRepository, embedder, vectorStore)

	tenderSvc := tenderService.NewTenderService(tenderRepository, embedder, vectorStore, contentExtractor)

	feedbackSvc := feedbackService.NewFeedbackService(
		interactionRepository,
		profileRepository,
		tenderRepository,
		profileSvc,
		feedbackService.Config{
			DedupWindow:           cfg.Feedback.InteractionDedupWindow,
			ReembedMinInterval:    cfg.Feedback.ReembedMinInterval,
			NReembed:              cfg.Feedback.NReembed,
			DiscoveredInterestMin: cfg.Feedback.DiscoveredInterestMin,
		},
	)

	matcher := recommendService.NewMatcher(
		profileRepository,
		vectorStore,
		tenderRepository,
		recommendService.NewVectorStoreAdapter(vectorStore),
		interactionRepository,
		cfg.Scoring.DefaultWeights,
	)

	// Initialize handlers
	authHdl := authHandler.NewAuthHandler(authSvc)
	profileHdl := profileHandler.NewProfileHandler(profileSvc)
	tenderHdl := tenderHandler.NewTenderHandler(tenderSvc)
	feedbackHdl := feedbackHandler.NewFeedbackHandler(feedbackSvc, profileRepository)
	recommendHdl := recommendHandler.NewRecommendHandler(matcher, profileSvc)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authHdl.RegisterRoutes(v1)
		profileHdl.RegisterRoutes(v1, authMiddleware)
		tenderHdl.RegisterRoutes(v1, authMiddleware)
		feedbackHdl.RegisterRoutes(v1, authMiddleware)
		recommendHdl.RegisterRoutes(v1, authMiddleware)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// healthCheckHandler reports PostgreSQL and Redis connectivity.
func healthCheckHandler(ctx context.Context, pgClient *postgres.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := make(map[string]string)

		if err := pgClient.Health(ctx); err != nil {
			services["postgres"] = "down"
		} else {
			services["postgres"] = "up"
		}

		if err := redisClient.Health(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}

		httpPlatform.RespondWithHealth(c, services)
	}
}

func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
