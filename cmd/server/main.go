/*
main.go - Application entry point

PURPOSE:
  Starts the Master Eligibility List HTTP server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from the environment
  2. Apply command-line flag overrides
  3. Build the ruleset registry (presets plus optional rules file)
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port       HTTP server port            (MEL_PORT, default 8080)
  -ruleset    Default ruleset version     (MEL_RULESET, default FY2025)
  -rules      JSON ruleset file to load   (MEL_RULES_FILE)
  -log-level  debug, info, warn, error    (MEL_LOG_LEVEL, default info)

  MEL_CORS_ORIGINS and MEL_SHUTDOWN_TIMEOUT are environment-only.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active classifications to complete (MEL_SHUTDOWN_TIMEOUT)
  3. Exit

EXAMPLES:
  # Serve the FY2026 tables by default
  ./server -ruleset=FY2026

  # Load a locally published table
  MEL_RULES_FILE=./fy2027.json ./server -ruleset=FY2027

SEE ALSO:
  - config/config.go: Environment configuration
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ywgi/AirForceMELGenerator/api"
	"github.com/ywgi/AirForceMELGenerator/config"
	"github.com/ywgi/AirForceMELGenerator/quota"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.Ruleset, "ruleset", cfg.Ruleset, "Default ruleset version")
	flag.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "JSON ruleset file to register")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	registry, err := cfg.Registry()
	if err != nil {
		log.Fatalf("Failed to load rulesets: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(registry, cfg.Ruleset, quota.DefaultRates(), logger)

	// Create router
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost%s", cfg.Addr())
		log.Printf("Rulesets: %v (default %s)", registry.Versions(), cfg.Ruleset)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
