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

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/catalog"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/config"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/hub"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/policy"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/service"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/store"
	handler "github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting support responder...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Workers per session: %d", cfg.Workers)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	if err := db.Seed(); err != nil {
		log.Printf("WARN: failed to seed starter data: %v", err)
		// Don't fail startup for this
	}

	// Load the response catalog; an empty or failed load falls back to the
	// single default entry.
	ctx := context.Background()
	cat := catalog.Load(ctx, db)
	log.Printf("Response catalog loaded: %d entries", cat.Snapshot().Len())

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize connection hub
	h := hub.NewHub()
	go h.Run()

	// Initialize service
	svc := service.New(db, cfg, cat, h, policyEngine)

	// Create HTTP server
	server := handler.NewServer(svc, cfg)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down responder...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Drain session engines first so in-flight resolutions finish.
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to drain session engines gracefully: %v", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Responder stopped")
}
