package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"

	"crown-hotels-booking/internal/config"
	"crown-hotels-booking/internal/jobs"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/notification"
	"crown-hotels-booking/internal/repository/postgres"
	"crown-hotels-booking/internal/scheduler"
	"crown-hotels-booking/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-check-in-reminders')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Crown Hotels cronjob runner...", "log_level", cfg.Log.Level)

	// Jobs read bookings written by the server, so they need the shared database
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("Cronjob runner requires the %s database driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize notification channel
	sender, closeSender, err := notification.NewSenderFromConfig(cfg.Notification)
	if err != nil {
		logger.Error("Failed to initialize notification channel", "error", err)
		log.Fatalf("Failed to initialize notification channel: %v", err)
	}
	defer closeSender()

	// Initialize Services
	reminderService := service.NewReminderService(
		store.GuestRepository,
		store.BookingRepository,
		notification.NewNotifier(sender),
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{Reminders: reminderService})

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.RunByName(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			fmt.Printf("Available jobs:\n  - %s\n", strings.Join(jobRunner.Jobs(), "\n  - "))
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
