package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Analytics AnalyticsConfig
	UI        UIConfig
	Logging   LoggingConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AnalyticsConfig holds tunables for the aggregation layer.
type AnalyticsConfig struct {
	TopCategories       int `mapstructure:"top_categories"`
	AnomalyWindow       int `mapstructure:"anomaly_window"`
	ForecastHorizonDays int `mapstructure:"forecast_horizon_days"`
	ComparisonMonths    int `mapstructure:"comparison_months"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix LEDGERLENS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "ledgerlens", "ledgerlens.db"))
	v.SetDefault("analytics.top_categories", 8)
	v.SetDefault("analytics.anomaly_window", 20)
	v.SetDefault("analytics.forecast_horizon_days", 7)
	v.SetDefault("analytics.comparison_months", 9)
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "Australia/Melbourne")
	v.SetDefault("logging.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "ledgerlens", "ledgerlens.log"))
	v.SetDefault("logging.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LEDGERLENS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ledgerlens"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LEDGERLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// This is primarily used by the TUI settings view for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("LEDGERLENS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "ledgerlens", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("analytics.top_categories", cfg.Analytics.TopCategories)
	v.Set("analytics.anomaly_window", cfg.Analytics.AnomalyWindow)
	v.Set("analytics.forecast_horizon_days", cfg.Analytics.ForecastHorizonDays)
	v.Set("analytics.comparison_months", cfg.Analytics.ComparisonMonths)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("logging.path", cfg.Logging.Path)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
