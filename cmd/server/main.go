package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"tribune/internal/auth"
	"tribune/internal/config"
	"tribune/internal/flagging"
	"tribune/internal/handler"
	"tribune/internal/middleware"
	"tribune/internal/notify"
	"tribune/internal/ratelimit"
	"tribune/internal/repository/postgres"
	"tribune/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// In debug mode, tee logs into a timestamped file as well
	logOutput := io.Writer(os.Stdout)
	if cfg.Debug {
		if logFile, err := config.SetupLogFile(cfg.LogDir, 5); err == nil {
			defer logFile.Close()
			logOutput = io.MultiWriter(os.Stdout, logFile)
		} else {
			log.Printf("file logging disabled: %v", err)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	commentRepo := postgres.NewCommentRepository(repoConfig)
	voteRepo := postgres.NewVoteRepository(repoConfig)
	flagRepo := postgres.NewFlagRepository(repoConfig)
	articleRepo := postgres.NewArticleRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Throttle store: shared Redis when configured, in-process otherwise
	var limiterStore ratelimit.Store
	if cfg.RedisURL != "" {
		limiterStore, err = ratelimit.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect rate limiter store: %v", err)
		}
		logger.Info("rate limiter using redis")
	} else {
		limiterStore, err = ratelimit.NewMemoryStore(10_000)
		if err != nil {
			log.Fatalf("Failed to create rate limiter store: %v", err)
		}
		logger.Warn("rate limiter using in-process store; limits do not hold across instances")
	}
	limiter := ratelimit.New(limiterStore)

	// Flag reason taxonomy
	reasons, err := flagging.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load flag reasons: %v", err)
	}

	// Reply notifications (no-op when SMTP settings are incomplete)
	notifier := notify.NewMailer(cfg, logger)

	// Create services
	commentService := service.NewCommentService(commentRepo, articleRepo, userRepo, flagRepo, reasons, notifier, logger)
	voteService := service.NewVoteService(commentRepo, voteRepo, txManager, logger)
	threadService := service.NewThreadService(commentRepo, voteRepo, userRepo, logger)

	// Create handlers
	commentHandler := handler.NewCommentHandler(commentService, threadService, limiter, logger)
	voteHandler := handler.NewVoteHandler(voteService, limiter, logger)
	flagHandler := handler.NewFlagHandler(commentService, reasons, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", commentHandler.HealthCheck)

	// Article comment routes
	mux.HandleFunc("GET /api/articles/{id}/comments", commentHandler.ListArticleComments)
	mux.HandleFunc("POST /api/articles/{id}/comments", commentHandler.CreateComment)

	// Flag reason taxonomy - must come before the {id} routes
	mux.HandleFunc("GET /api/comments/flag-reasons", flagHandler.ListReasons)

	// Comment routes
	mux.HandleFunc("GET /api/comments/{id}/replies", commentHandler.ListReplies)
	mux.HandleFunc("POST /api/comments/{id}/replies", commentHandler.CreateReply)
	mux.HandleFunc("PATCH /api/comments/{id}", commentHandler.EditComment)
	mux.HandleFunc("DELETE /api/comments/{id}", commentHandler.DeleteComment)
	mux.HandleFunc("POST /api/comments/{id}/moderate", commentHandler.ModerateComment)
	mux.HandleFunc("POST /api/comments/{id}/flags", flagHandler.FlagComment)

	// Vote routes (PUT is an alias for idempotent clients)
	mux.HandleFunc("POST /api/comments/{id}/vote", voteHandler.CastVote)
	mux.HandleFunc("PUT /api/comments/{id}/vote", voteHandler.CastVote)
	mux.HandleFunc("DELETE /api/comments/{id}/vote", voteHandler.RemoveVote)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
