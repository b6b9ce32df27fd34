package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all BrowseKit configuration.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Browser BrowserConfig `yaml:"browser"`
	Logging LogConfig     `yaml:"logging"`
}

// SessionConfig holds HTTP transport configuration.
type SessionConfig struct {
	UserAgent       string  `envconfig:"BROWSEKIT_USER_AGENT" yaml:"user_agent" default:"BrowseKit/1.0"`
	TimeoutSeconds  int     `envconfig:"BROWSEKIT_TIMEOUT" yaml:"timeout_seconds" default:"30"`
	RetryMax        int     `envconfig:"BROWSEKIT_RETRY_MAX" yaml:"retry_max" default:"3"`
	RetryWaitMinSec int     `envconfig:"BROWSEKIT_RETRY_WAIT_MIN" yaml:"retry_wait_min_seconds" default:"1"`
	RetryWaitMaxSec int     `envconfig:"BROWSEKIT_RETRY_WAIT_MAX" yaml:"retry_wait_max_seconds" default:"30"`
	RateLimitRPS    float64 `envconfig:"BROWSEKIT_RATE_LIMIT_RPS" yaml:"rate_limit_rps" default:"0"`
	FollowRedirects bool    `envconfig:"BROWSEKIT_FOLLOW_REDIRECTS" yaml:"follow_redirects" default:"true"`
	VerifySSL       bool    `envconfig:"BROWSEKIT_VERIFY_SSL" yaml:"verify_ssl" default:"true"`
	Proxy           string  `envconfig:"BROWSEKIT_PROXY" yaml:"proxy"`
}

// BrowserConfig holds browsing behavior configuration.
type BrowserConfig struct {
	RaiseOn404 bool `envconfig:"BROWSEKIT_RAISE_ON_404" yaml:"raise_on_404" default:"false"`
	Verbose    int  `envconfig:"BROWSEKIT_VERBOSE" yaml:"verbose" default:"0"`
	Debug      bool `envconfig:"BROWSEKIT_DEBUG" yaml:"debug" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"BROWSEKIT_LOG_LEVEL" yaml:"level" default:"info"`
	Development bool   `envconfig:"BROWSEKIT_LOG_DEV" yaml:"development" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from environment variables, then overlays
// values from a YAML file. File values win over environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			UserAgent:       "BrowseKit/1.0",
			TimeoutSeconds:  30,
			RetryMax:        3,
			RetryWaitMinSec: 1,
			RetryWaitMaxSec: 30,
			FollowRedirects: true,
			VerifySSL:       true,
		},
		Browser: BrowserConfig{},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
