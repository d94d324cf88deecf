package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".betconnect"))
		}

		// Check /etc
		v.AddConfigPath("/etc/betconnect/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Environment defaults
	v.SetDefault("betconnect.environment", "staging")

	// Session defaults
	v.SetDefault("session.token_validity", "2h")
	v.SetDefault("session.refresh_interval", "15m")
	v.SetDefault("session.read_timeout", "100s")

	// Paging defaults
	v.SetDefault("paging.first_page", 1)
	v.SetDefault("paging.min_limit", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.BetConnect.Username == "" {
		return fmt.Errorf("betconnect.username is required")
	}
	if cfg.BetConnect.Password == "" {
		return fmt.Errorf("betconnect.password is required")
	}
	if cfg.BetConnect.APIKey == "" || cfg.BetConnect.APIKey == "your-api-key-here" {
		return fmt.Errorf("betconnect.api_key must be set to a valid API key")
	}

	switch strings.ToLower(cfg.BetConnect.Environment) {
	case "staging":
	case "production":
		if cfg.BetConnect.ProductionURL == "" {
			return fmt.Errorf("betconnect.production_url is required for the production environment")
		}
	default:
		return fmt.Errorf("invalid betconnect.environment: %s (must be 'production' or 'staging')", cfg.BetConnect.Environment)
	}

	if cfg.Session.TokenValidity <= 0 {
		return fmt.Errorf("session.token_validity must be positive")
	}
	if cfg.Session.RefreshInterval <= 0 {
		return fmt.Errorf("session.refresh_interval must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
