package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"fixly/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Location LocationConfig `yaml:"location"`
	Exports  ExportConfig   `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type APIConfig struct {
	BaseURL        string          `yaml:"base_url"`
	TimeoutSeconds int             `yaml:"timeout_seconds"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Retry          RetryConfig     `yaml:"retry"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RetryConfig struct {
	MaxRetries     int     `yaml:"max_retries"`
	InitialDelayMS int     `yaml:"initial_delay_ms"`
	MaxDelayMS     int     `yaml:"max_delay_ms"`
	BackoffFactor  float64 `yaml:"backoff_factor"`
}

type SessionConfig struct {
	// CredentialsPath is the durable store for tokens and the current
	// user, the desktop analogue of browser local storage.
	CredentialsPath string `yaml:"credentials_path"`
	StateTTLSeconds int    `yaml:"state_ttl_seconds"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type LocationConfig struct {
	DefaultCity string `yaml:"default_city"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Подставляем переменные окружения в YAML до разбора
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base_url is required")
	}

	if c.Session.CredentialsPath == "" {
		return errors.New("session credentials_path is required")
	}

	if c.API.Retry.BackoffFactor < 0 {
		return errors.New("api retry backoff_factor must not be negative")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "fixly"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = models.DefaultRequestTimeout
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = models.DefaultRateLimitRPS
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = models.DefaultRateLimitBurst
	}
	if c.API.Retry.MaxRetries == 0 {
		c.API.Retry.MaxRetries = 3
	}
	if c.API.Retry.InitialDelayMS == 0 {
		c.API.Retry.InitialDelayMS = 500
	}
	if c.API.Retry.MaxDelayMS == 0 {
		c.API.Retry.MaxDelayMS = 10_000
	}
	if c.API.Retry.BackoffFactor == 0 {
		c.API.Retry.BackoffFactor = 2
	}
	if c.Session.StateTTLSeconds == 0 {
		c.Session.StateTTLSeconds = models.DefaultViewStateTTL
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// Timeout returns the HTTP client timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StateTTL returns the view-state TTL as a duration.
func (c *SessionConfig) StateTTL() time.Duration {
	return time.Duration(c.StateTTLSeconds) * time.Second
}
