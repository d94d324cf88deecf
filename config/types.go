package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	BetConnect BetConnectConfig `mapstructure:"betconnect"`
	Session    SessionConfig    `mapstructure:"session"`
	Paging     PagingConfig     `mapstructure:"paging"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// BetConnectConfig holds the exchange credentials and target environment
type BetConnectConfig struct {
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	APIKey        string `mapstructure:"api_key"`
	Environment   string `mapstructure:"environment"`
	ProductionURL string `mapstructure:"production_url"`
}

// SessionConfig controls the token lifecycle and per-call timeout
type SessionConfig struct {
	TokenValidity   time.Duration `mapstructure:"token_validity"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
}

// PagingConfig holds the pagination defaults for listing endpoints
type PagingConfig struct {
	FirstPage int `mapstructure:"first_page"`
	MinLimit  int `mapstructure:"min_limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
