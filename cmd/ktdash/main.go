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

	"github.com/ktdash/ktdash/internal/database"
	"github.com/ktdash/ktdash/internal/logging"
	"github.com/ktdash/ktdash/internal/server"
)

func main() {
	port := os.Getenv("KTDASH_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("KTDASH_DB_PATH")
	if dbPath == "" {
		dbPath = "ktdash.db"
	}

	env := os.Getenv("KTDASH_ENV")
	production := env == "production"

	logger := logging.Setup(os.Getenv("KTDASH_LOG_LEVEL"), production)

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, server.Config{SecureCookies: production}, logger)

	// Expired rate-limit windows accumulate; sweep them periodically.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("KTDash running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
