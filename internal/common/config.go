package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// SchemaVersion is folded into every report data version. Bump it whenever the
// report layout or a metric definition changes so cached reports go stale.
const SchemaVersion = "3"

// Config holds all configuration for vire-analytics
type Config struct {
	Environment string          `toml:"environment"`
	Analytics   AnalyticsConfig `toml:"analytics"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
}

// AnalyticsConfig holds the tunables of the analytics engine
type AnalyticsConfig struct {
	RiskFreeRate      float64 `toml:"risk_free_rate"`      // annual, decimal (0.02 = 2%)
	TradingDays       int     `toml:"trading_days"`        // annualisation factor; fixed convention
	TopHoldings       int     `toml:"top_holdings"`        // length of the ranked holdings list
	XIRRTolerance     float64 `toml:"xirr_tolerance"`      // absolute tolerance on the rate
	XIRRMaxIterations int     `toml:"xirr_max_iterations"` // root-finder iteration budget
}

// StorageConfig holds SurrealDB connection settings for the report cache.
// The cache is optional; when disabled reports are always computed fresh.
type StorageConfig struct {
	Enabled   bool   `toml:"enabled"`
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Analytics: AnalyticsConfig{
			RiskFreeRate:      0.02,
			TradingDays:       252,
			TopHoldings:       10,
			XIRRTolerance:     1e-7,
			XIRRMaxIterations: 100,
		},
		Storage: StorageConfig{
			Enabled:   false,
			Address:   "ws://localhost:8000/rpc",
			Namespace: "vire",
			Database:  "analytics",
			Username:  "root",
			Password:  "root",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateAnalytics(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIRE_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("VIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("VIRE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if v := os.Getenv("VIRE_RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Analytics.RiskFreeRate = f
		}
	}
	if v := os.Getenv("VIRE_TOP_HOLDINGS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Analytics.TopHoldings = n
		}
	}

	// Storage overrides
	if v := os.Getenv("VIRE_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("VIRE_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("VIRE_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}
	if v := os.Getenv("VIRE_STORAGE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Storage.Enabled = b
		}
	}
}

// validateAnalytics resets out-of-range analytics settings to their defaults.
func validateAnalytics(config *Config) {
	def := NewDefaultConfig().Analytics
	a := &config.Analytics

	if a.RiskFreeRate < -1 || a.RiskFreeRate > 1 {
		a.RiskFreeRate = def.RiskFreeRate
	}
	// 252 is the convention every metric is defined against
	if a.TradingDays != def.TradingDays {
		a.TradingDays = def.TradingDays
	}
	if a.TopHoldings <= 0 {
		a.TopHoldings = def.TopHoldings
	}
	if a.XIRRTolerance <= 0 {
		a.XIRRTolerance = def.XIRRTolerance
	}
	if a.XIRRMaxIterations <= 0 {
		a.XIRRMaxIterations = def.XIRRMaxIterations
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
