package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/config"
	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/handlers"
	"github.com/poliscope/poliscope/internal/identity"
	"github.com/poliscope/poliscope/internal/jobs"
	"github.com/poliscope/poliscope/internal/middleware"
	"github.com/poliscope/poliscope/internal/notify"
	"github.com/poliscope/poliscope/internal/refdata"
	"github.com/poliscope/poliscope/internal/sources/adapters"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and background reconciliation job",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log.Printf("Starting Poliscope...")

	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		return err
	}
	if err := database.AutoMigrate(); err != nil {
		return err
	}
	if err := database.InitializeDefaults(); err != nil {
		return err
	}
	db := database.GetDB()

	tables, err := refdata.Load()
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	log.Printf("Reference data loaded: %d departments", tables.Departments())

	persons := database.NewPersonStore(db)
	decisions := database.NewDecisionLogStore(db)
	resolver := identity.NewResolver(persons, decisions, cfg.ResolverConfig())

	reconciler := affairs.NewReconciler(db)
	registry := adapters.NewDefaultRegistry()
	log.Printf("Record adapters registered: %v", registry.Sources())

	notifier := notify.NewNotifier(cfg.SlackBotToken, cfg.SlackChannel)
	if notifier.Enabled() {
		log.Printf("Slack notifications enabled for channel %s", cfg.SlackChannel)
	} else {
		log.Printf("Slack notifications disabled")
	}

	hub := handlers.NewReviewHub()
	router := handlers.NewRouter(db, resolver, persons, decisions, reconciler, registry, tables, hub, notifier)

	mux := http.NewServeMux()
	router.SetupRoutes(mux)

	corsMiddleware := middleware.NewCORSMiddleware() // Allow all origins
	handler := corsMiddleware.Wrap(middleware.RequestIDMiddleware(mux))

	// Background reconciliation job
	stop := make(chan struct{})
	job := jobs.NewReconciliationJob(db, reconciler, notifier)
	go job.Start(stop)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Record webhook endpoint: http://localhost:%d/webhook/records/{source}", cfg.HTTPPort)
	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")
	close(stop)
	if err := httpServer.Close(); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Shutdown complete")
	return nil
}
