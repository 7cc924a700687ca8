package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/dependencies/clock"
	"github.com/mcoot/shadowsprint/internal/services/classification"
	"github.com/mcoot/shadowsprint/internal/services/ghost"
	"github.com/mcoot/shadowsprint/internal/services/progress"
	"github.com/mcoot/shadowsprint/internal/services/settings"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/memory"
	redisstorage "github.com/mcoot/shadowsprint/internal/storage/redis"
	"github.com/mcoot/shadowsprint/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage; may be disconnected, in which case every service serves defaults
	Store storage.Handle

	// External dependencies
	Clock clock.Clock

	Game config.Game

	// Services
	SettingsService       *settings.Service
	ProgressService       *progress.Service
	GhostService          *ghost.Service
	ClassificationService *classification.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend (see config.StorageType*)
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Game holds tuning values. If zero value, defaults to config.DefaultGame()
	Game config.Game
}

// FromServer builds a factory Config from process configuration
func FromServer(cfg config.Server, logger *slog.Logger) Config {
	fc := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
		Game:        cfg.Game,
	}
	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired.
// A store that cannot be reached at startup is not fatal: the app runs
// disconnected and serves defaults.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	game := cfg.Game
	if game.MaxLevels == 0 {
		game = config.DefaultGame()
	}
	if err := game.Validate(); err != nil {
		return nil, err
	}

	handle, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(handle, clock.New(), game, logger), nil
}

func openStore(cfg Config, logger *slog.Logger) (storage.Handle, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeNone:
		logger.Warn("no store configured, serving defaults without persistence")
		return storage.Disconnected(), nil
	case config.StorageTypeMemory:
		return storage.Connect(memory.New()), nil
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return storage.Handle{}, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			logger.Warn("redis unreachable, serving defaults without persistence",
				slog.String("error", err.Error()),
			)
			return storage.Disconnected(), nil
		}
		logger.Info("connected to redis")
		return storage.Connect(store), nil
	case config.StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return storage.Handle{}, errors.New("SQLitePath required when StorageType is sqlite")
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Warn("sqlite unavailable, serving defaults without persistence",
				slog.String("path", cfg.SQLitePath),
				slog.String("error", err.Error()),
			)
			return storage.Disconnected(), nil
		}
		logger.Info("opened sqlite store", slog.String("path", cfg.SQLitePath))
		return storage.Connect(store), nil
	default:
		return storage.Handle{}, fmt.Errorf("invalid StorageType %q", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(handle storage.Handle, clk clock.Clock, game config.Game, logger *slog.Logger) *App {
	ghostService := ghost.New(handle, game, clk, logger)

	return &App{
		Store:                 handle,
		Clock:                 clk,
		Game:                  game,
		SettingsService:       settings.New(handle, game, logger),
		ProgressService:       progress.New(handle, game, clk, logger),
		GhostService:          ghostService,
		ClassificationService: classification.New(ghostService, game, logger),
	}
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
