package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/lessonhub/backend/internal/bot"
	"github.com/lessonhub/backend/internal/config"
	"github.com/lessonhub/backend/internal/logger"
	"github.com/lessonhub/backend/internal/repositories"
	"github.com/lessonhub/backend/internal/services"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if cfg.Bot.Token == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting LessonHub Bot")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	completionRepo := repositories.NewLessonCompletionRepository(db)
	favoriteRepo := repositories.NewLessonFavoriteRepository(db)

	// Initialize services
	identityService := services.NewIdentityService(userRepo, logger.Logger)
	progressService := services.NewProgressService(completionRepo, favoriteRepo, logger.Logger)

	// Initialize Telegram bot
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Initialize handler
	h := bot.NewHandler(b, identityService, progressService, logger.Logger)
	h.RegisterHandlers()

	// Start bot in background
	go func() {
		logger.Logger.Info("Bot started")
		b.Start()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down bot...")
	b.Stop()
	logger.Logger.Info("Bot stopped")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
