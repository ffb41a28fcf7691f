/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the booth engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Build the zap logger
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables:
    -port / PORT           HTTP server port (default: 8080)
    -db / DB_PATH          SQLite database path (default: booth.db)
                           Use ":memory:" for an in-memory database
    -mode / COSTING_MODE   Default costing mode: per_unit | fixed_event
    -log-level / LOG_LEVEL zap level (default: info)
    -dev                   Development logging (console encoder)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/booth.db"

  # Run in fixed-event accounting by default
  ./server -mode=fixed_event

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stallworks/booth-engine/api"
	"github.com/stallworks/booth-engine/pkg/logger"
	"github.com/stallworks/booth-engine/pos"
	"github.com/stallworks/booth-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over the environment.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "booth.db"), "SQLite database path")
	mode := flag.String("mode", envStr("COSTING_MODE", string(pos.CostPerUnit)), "default costing mode (per_unit|fixed_event)")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "log level")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	zlog, err := logger.New(*logLevel, *dev)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	defaultMode := pos.CostingMode(*mode)
	if !defaultMode.Valid() {
		zlog.Fatalw("unknown costing mode", "mode", *mode)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		zlog.Fatalw("failed to initialize database", "path", *dbPath, "error", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, zlog, defaultMode)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Infow("server starting",
			"addr", fmt.Sprintf("http://localhost:%d", *port),
			"db", *dbPath,
			"costingMode", defaultMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatalw("server forced to shutdown", "error", err)
	}

	zlog.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
