package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wortschatz/internal/config"
	"wortschatz/internal/exercise"
	"wortschatz/internal/handler"
	"wortschatz/internal/importer"
	"wortschatz/internal/middleware"
	"wortschatz/internal/repository/postgres"
	"wortschatz/internal/scheduler"
	"wortschatz/internal/service"
	"wortschatz/internal/srs"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Wortschatz Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	wordRepo := postgres.NewWordRepo(db)
	itemRepo := postgres.NewReviewItemRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Seed the vocabulary when a directory is configured
	if cfg.VocabDir != "" {
		imp := importer.NewImporter(wordRepo, logger)
		if _, err := imp.ImportDir(cfg.VocabDir); err != nil {
			logger.Warn("Vocabulary import failed", zap.Error(err))
		}
	}

	// Initialize the scheduling core and services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := srs.NewEngine()
	composer := srs.NewComposer(rng)
	generator := exercise.NewGenerator(wordRepo, rng)

	authService := service.NewAuthService(userRepo, cfg.BotPassword)
	learningService := service.NewLearningService(itemRepo, wordRepo, sessionRepo, userRepo, engine, composer, generator, logger)
	statsService := service.NewStatsService(itemRepo, sessionRepo, userRepo, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	bot.Use(middleware.AuthMiddleware(authService, logger))

	// Initialize handler
	h := handler.NewHandler(bot, authService, learningService, statsService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start the reminder scheduler
	reminders := scheduler.NewScheduler(itemRepo, h, cfg.Notify.StartHour, cfg.Notify.EndHour, logger)
	if err := reminders.Start(); err != nil {
		logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	reminders.Stop()

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Info("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations applied successfully")
	return nil
}
