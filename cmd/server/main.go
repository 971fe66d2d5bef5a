package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mfadvisor-backend/internal/config"
	"mfadvisor-backend/internal/crew"
	"mfadvisor-backend/internal/database"
	"mfadvisor-backend/internal/handlers"
	"mfadvisor-backend/internal/mfapi"
	"mfadvisor-backend/internal/repository"
	"mfadvisor-backend/internal/router"
	"mfadvisor-backend/internal/tools"
	"mfadvisor-backend/internal/websocket"
	"mfadvisor-backend/internal/worker"
	"mfadvisor-backend/migrations"
	"mfadvisor-backend/web"
)

func main() {
	log.Println("🚀 Starting Mutual Fund Advisor Backend...")

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

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, migrations.Files); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Assemble the Advisor Crew ────
	mfClient := mfapi.NewClient(cfg.MFAPIBaseURL, redisClients.Cache)
	registry := tools.NewRegistry(tools.NewToolbelt(mfClient))

	crewService, err := crew.NewService(
		context.Background(),
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiConcurrentReqs,
		cfg.CrewConfigDir,
		registry,
		redisClients.PubSub,
		redisClients.Queue,
	)
	if err != nil {
		log.Fatalf("✗ Crew initialization failed: %v", err)
	}
	defer crewService.Close()
	log.Println("✓ Advisor crew assembled")

	// ──── Step 6: Start Run-Log Worker Pool ────
	runRepo := repository.NewRunRepo(pool)
	workerPool := worker.NewPool(redisClients.Queue, runRepo, 2)
	workerPool.Start()
	log.Println("✓ Run-log workers started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, crew.UpdatesChannel)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		log.Fatalf("✗ Static UI unavailable: %v", err)
	}

	chatHandler := handlers.NewChatHandler(crewService)
	runHandler := handlers.NewRunHandler(runRepo)

	r := router.New(chatHandler, runHandler, wsHub, staticFS, cfg.FrontendURL)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
		// Crew runs are slow: several model calls plus tool round trips.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Mutual Fund Advisor ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat UI: http://localhost:%s/", cfg.Port)
	log.Printf("  API:     http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
