package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/interfaces"
	"github.com/bobmcallan/vire-analytics/internal/services/analytics"
	"github.com/bobmcallan/vire-analytics/internal/storage/surrealdb"
)

// App holds the initialized configuration, logger, optional storage and the
// analytics service. It is the shared core used by cmd/vire-analytics.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager // nil when the report cache is disabled
	AnalyticsService *analytics.Service
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, VIRE_CONFIG, then the binary
// directory, then the development fallback.
func resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("VIRE_CONFIG"); env != "" {
		return env
	}
	configPath = filepath.Join(getBinaryDir(), "vire-analytics.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return "config/vire-analytics.toml"
	}
	return configPath
}

// NewApp loads configuration, builds the logger, connects the report cache
// when enabled and creates the analytics service. A cache that cannot be
// reached is logged and skipped; reports are then always computed fresh.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: startupStart,
	}

	var cache interfaces.ReportCache
	if config.Storage.Enabled {
		mgr, err := surrealdb.NewManager(ctx, logger, config.Storage)
		if err != nil {
			logger.Warn().Err(err).Msg("Report cache unavailable - reports will be computed fresh")
		} else {
			a.Storage = mgr
			cache = mgr.ReportCache()
		}
	}

	a.AnalyticsService = analytics.NewService(cache, config.Analytics, logger)

	logger.Debug().
		Bool("cache", cache != nil).
		Dur("elapsed", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases storage connections.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
