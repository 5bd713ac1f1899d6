/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Staffing Engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Optionally apply a seed file
  5. Start the over-allocation monitor
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: staffing.db)
            Use ":memory:" for in-memory database
  -seed     Seed JSON file applied on startup (optional)
  -monitor  Over-allocation sweep interval; 0 disables (default: 5m)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the monitor
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/staffing.db"

  # Run with in-memory database and a seed file
  ./server -db=":memory:" -seed=./seeds/team.json

  # Sweep for over-allocation every minute
  ./server -monitor=1m

ENVIRONMENT:
  No environment variables currently. All config via flags.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - api/monitor.go: Background over-allocation monitor
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
	"syscall"
	"time"

	"github.com/warp/staffing-engine/api"
	"github.com/warp/staffing-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "staffing.db", "SQLite database path")
	seedPath := flag.String("seed", "", "seed JSON file applied on startup")
	monitorInterval := flag.Duration("monitor", 5*time.Minute, "over-allocation sweep interval, 0 disables")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Apply seed file
	if *seedPath != "" {
		data, err := os.ReadFile(*seedPath)
		if err != nil {
			log.Fatalf("Failed to read seed file: %v", err)
		}
		seed, err := handler.Factory.ParseSeed(string(data))
		if err != nil {
			log.Fatalf("Failed to parse seed file: %v", err)
		}
		if err := seed.Apply(context.Background(), store); err != nil {
			log.Fatalf("Failed to apply seed file: %v", err)
		}
		log.Printf("Seeded %d resources, %d cost centers, %d allocations from %s",
			len(seed.Resources), len(seed.CostCenters), len(seed.Allocations), *seedPath)
	}

	// Start the over-allocation monitor
	handler.Monitor.CheckInterval = *monitorInterval
	handler.Monitor.Enabled = *monitorInterval > 0
	handler.Monitor.Start()
	defer handler.Monitor.Stop()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
