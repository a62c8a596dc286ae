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

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"tessera/internal/auth"
	"tessera/internal/config"
	"tessera/internal/handler"
	"tessera/internal/handler/sse"
	"tessera/internal/idgen"
	"tessera/internal/middleware"
	"tessera/internal/repository/postgres"
	"tessera/internal/service"
	"tessera/internal/service/notify"
)

const maxLogFiles = 10

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
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

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)

	// Create services
	ids := idgen.UUIDv7()
	hub := notify.NewHub()
	pageService := service.NewPageService(pageRepo, ids, hub, logger)
	workspaceService := service.NewWorkspaceService(workspaceRepo, ids, logger)

	// Create handlers
	pageHandler := handler.NewPageHandler(pageService, logger)
	trashHandler := handler.NewTrashHandler(pageService, logger)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, logger)
	subscribeHandler := handler.NewSubscribeHandler(pageService, hub, sse.DefaultConfig(), logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", pageHandler.HealthCheck)

	// Workspace routes
	mux.HandleFunc("GET /api/workspaces", workspaceHandler.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", workspaceHandler.GetWorkspace)

	// Page routes
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("POST /api/pages/reorder", pageHandler.ReorderPages) // Must come before {id} route
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PATCH /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("DELETE /api/pages/{id}", pageHandler.TrashPage)
	mux.HandleFunc("POST /api/pages/{id}/move", pageHandler.MovePage)
	mux.HandleFunc("POST /api/pages/{id}/duplicate", pageHandler.DuplicatePage)
	mux.HandleFunc("POST /api/pages/{id}/restore", pageHandler.RestorePage)
	mux.HandleFunc("DELETE /api/pages/{id}/purge", pageHandler.PurgePage)

	// Change notification stream (SSE)
	mux.HandleFunc("GET /api/pages/{id}/subscribe", subscribeHandler.SubscribeToPage)

	// Trash routes
	mux.HandleFunc("GET /api/trash", trashHandler.ListTrash)
	mux.HandleFunc("DELETE /api/trash", trashHandler.EmptyTrash)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		root = middleware.Auth(jwtVerifier)(root)
	} else {
		if cfg.Environment == "prod" {
			log.Fatal("JWKS_URL is required in prod")
		}
		logger.Warn("token verification disabled, stamping all requests", "user_id", cfg.DevUserID)
		root = middleware.StaticUser(cfg.DevUserID)(root)
	}
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
