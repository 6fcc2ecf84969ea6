package setup

import (
	"context"

	"github.com/wardenbot/warden/internal/database"
	"github.com/wardenbot/warden/internal/redis"
	"github.com/wardenbot/warden/internal/setup/config"
	"github.com/wardenbot/warden/internal/setup/logger"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config  // Application configuration
	Logger       *zap.Logger     // Main application logger
	DBLogger     *zap.Logger     // Database-specific logger
	DB           database.Client // Database connection pool
	RedisManager *redis.Manager  // Redis connection manager
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	mainLogger, dbLogger, err := logger.GetLoggers(logDir, cfg.Debug.LogLevel, cfg.Debug.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for the ban cache
	redisManager := redis.NewManager(&cfg.Redis, mainLogger)

	// Initialize database with migrations
	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, dbLogger.Named("database"), true)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       mainLogger,
		DBLogger:     dbLogger,
		DB:           db,
		RedisManager: redisManager,
	}, nil
}

// CleanupApp releases all resources in reverse initialization order.
func (a *App) CleanupApp() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	a.RedisManager.Close()

	_ = a.Logger.Sync()
	_ = a.DBLogger.Sync()
}
