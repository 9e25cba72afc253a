/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the mortgage engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the rate provider chain (HTTP client behind a TTL cache)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: mortgage.db)
              Use ":memory:" for an in-memory database
  -rates-url  Exchange rate API base URL (empty = built-in static table)
  -rates-ttl  Exchange rate cache TTL (default: 24h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/mortgage.db"

  # Run offline with the static rate table
  ./server -rates-url=""

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
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

	"github.com/warp/mortgage-engine/api"
	"github.com/warp/mortgage-engine/rates"
	"github.com/warp/mortgage-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "mortgage.db", "SQLite database path")
	ratesURL := flag.String("rates-url", rates.DefaultBaseURL, "exchange rate API base URL (empty for the built-in table)")
	ratesTTL := flag.Duration("rates-ttl", rates.DefaultTTL, "exchange rate cache TTL")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Rate provider: live source behind a cache, or the static table
	// when running offline.
	var provider rates.Provider = rates.Static{}
	if *ratesURL != "" {
		provider = rates.NewCache(rates.NewClient(*ratesURL), *ratesTTL)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, provider)

	// Rebuild the comparison set from saved scenarios
	if err := handler.LoadScenarios(context.Background()); err != nil {
		log.Printf("Warning: Failed to load scenarios: %v", err)
	}

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
