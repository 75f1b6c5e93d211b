package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "crown-hotels-booking/internal/api/http"
	"crown-hotels-booking/internal/config"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/notification"
	"crown-hotels-booking/internal/repository"
	"crown-hotels-booking/internal/repository/memory"
	"crown-hotels-booking/internal/repository/postgres"
	"crown-hotels-booking/internal/security"
	"crown-hotels-booking/internal/service"

	_ "github.com/lib/pq"
)

// repositories is the storage backend chosen by configuration.
type repositories struct {
	guests   repository.GuestRepository
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	hotels   repository.HotelRepository
	tx       repository.Transactor
	close    func() error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Crown Hotels booking service...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "database", cfg.Database.Database)
	logger.Info("Notification configuration", "channel", cfg.Notification.Channel)

	// Initialize storage
	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repos.close()

	// Initialize notification channel
	sender, closeSender, err := notification.NewSenderFromConfig(cfg.Notification)
	if err != nil {
		logger.Error("Failed to initialize notification channel", "error", err)
		log.Fatalf("Failed to initialize notification channel: %v", err)
	}
	defer closeSender()
	notifier := notification.NewNotifier(sender)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	staff := make([]service.StaffAccount, 0, len(cfg.Staff))
	for _, s := range cfg.Staff {
		staff = append(staff, service.StaffAccount{Username: s.Username, PasswordHash: s.PasswordHash, Role: s.Role})
	}

	// Initialize Services
	payments := service.NewMockPaymentService()
	roomSvc := service.NewRoomService(repos.rooms, repos.hotels, repos.tx)
	services := httpapi.Services{
		Bookings:     service.NewBookingService(repos.guests, repos.rooms, repos.bookings, repos.tx, payments, notifier),
		Availability: service.NewAvailabilityService(repos.rooms, repos.bookings),
		Guests:       service.NewGuestService(repos.guests),
		Rooms:        roomSvc,
		Auth:         service.NewAuthService(staff, tokenManager),
	}

	if cfg.Seed.Rooms {
		added, err := roomSvc.SeedRooms(context.Background())
		if err != nil {
			logger.Error("Failed to seed rooms", "error", err)
			log.Fatalf("Failed to seed rooms: %v", err)
		}
		logger.Info("Room seeding finished", "added", added)
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(services, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			guests:   store.Guests,
			rooms:    store.Rooms,
			bookings: store.Bookings,
			hotels:   store.Hotels,
			tx:       store,
			close:    func() error { return nil },
		}, nil
	}

	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	store := postgres.NewStore(db)
	return &repositories{
		guests:   store.GuestRepository,
		rooms:    store.RoomRepository,
		bookings: store.BookingRepository,
		hotels:   store.HotelRepository,
		tx:       store,
		close:    db.Close,
	}, nil
}
