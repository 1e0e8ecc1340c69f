package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Quill/internal/api/middleware"
	"Quill/internal/api/routes"
	"Quill/internal/auth"
	"Quill/internal/config"
	"Quill/internal/core/admin"
	"Quill/internal/core/posts"
	postgresRepo "Quill/internal/db/postgres"
	"Quill/internal/db/postgrest"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize repositories: direct Postgres when DATABASE_URL is set,
	// otherwise the hosted REST endpoint
	var publicRepo, adminRepo posts.Repository
	var db *sql.DB
	if cfg.UsesDirectDatabase() {
		var err error
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
		db, err = postgresRepo.Open(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Printf("Failed to close database: %v", closeErr)
			}
		}()

		log.Println("Connected to database")

		if err := postgresRepo.Migrate(db, cfg.MigrationsDir); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Println("Migrations completed successfully")

		adminRepo = postgresRepo.NewPostRepository(db)
		publicRepo = adminRepo
	} else {
		client := &http.Client{Timeout: cfg.UpstreamTimeout}
		publicRepo = postgrest.NewPostRepository(cfg.ProjectURL, cfg.ReadKey(), client)
		adminRepo = postgrest.NewPostRepository(cfg.ProjectURL, cfg.ServiceKey, client)
		log.Printf("Using data service at %s", cfg.ProjectURL)
	}

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret, auth.WithTTL(cfg.TokenTTL))
	postService := posts.NewPostService(publicRepo, adminRepo)
	adminService := admin.NewAdminService(cfg.AdminUsername, cfg.AdminPassword, tokens)

	if cfg.AllowAnonWrite {
		log.Println("WARNING: ALLOW_ANONYMOUS_WRITES is enabled, publish and save are unauthenticated")
	}

	r := routes.NewRouter(routes.RouterConfig{
		PostService:          postService,
		AdminService:         adminService,
		Auth:                 middleware.NewAdminAuthMiddleware(tokens),
		AllowedOrigins:       cfg.CORSAllowedOrigins,
		AllowAnonymousWrites: cfg.AllowAnonWrite,
		Production:           cfg.IsProduction(),
		AccessLog:            true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Quill listening on port %s (%s)\n", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server failed: %v", err)
		}
		return
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
