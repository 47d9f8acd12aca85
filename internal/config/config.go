package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Listener
	Host string `env:"HOST" default:""`
	Port int    `env:"PORT" default:"5000"`

	// Cross-origin allow-list (single origin)
	ClientURL string `env:"CLIENT_URL" default:"http://localhost:3000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Monitoring
	MetricsEnabled bool `env:"METRICS_ENABLED" default:"false"`

	// Realtime transport
	PingInterval   time.Duration `env:"PING_INTERVAL" default:"25s"`
	PingTimeout    time.Duration `env:"PING_TIMEOUT" default:"20s"`
	MaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE" default:"1000000"`

	// Lifecycle
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Default returns the configuration used when no environment variable is set.
func Default() *Config {
	return &Config{
		GoEnv:           "development",
		Host:            "",
		Port:            5000,
		ClientURL:       "http://localhost:3000",
		LogLevel:        "info",
		LogFormat:       "text",
		MetricsEnabled:  false,
		PingInterval:    25 * time.Second,
		PingTimeout:     20 * time.Second,
		MaxMessageSize:  1_000_000,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadConfig loads configuration from an optional .env file and the process environment.
// Variables already present in the environment win over the .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return loadFromEnv()
}

func loadFromEnv() (*Config, error) {
	def := Default()
	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", def.GoEnv); err != nil {
		return nil, err
	}

	// Listener
	if err := loadEnvString(&config.Host, "HOST", def.Host); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.Port, "PORT", def.Port); err != nil {
		return nil, err
	}

	// CORS
	if err := loadEnvString(&config.ClientURL, "CLIENT_URL", def.ClientURL); err != nil {
		return nil, err
	}

	// Logging
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", def.LogLevel); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", def.LogFormat); err != nil {
		return nil, err
	}

	// Monitoring
	if err := loadEnvBool(&config.MetricsEnabled, "METRICS_ENABLED", def.MetricsEnabled); err != nil {
		return nil, err
	}

	// Realtime transport
	if err := loadEnvDuration(&config.PingInterval, "PING_INTERVAL", def.PingInterval); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.PingTimeout, "PING_TIMEOUT", def.PingTimeout); err != nil {
		return nil, err
	}
	if err := loadEnvInt64(&config.MaxMessageSize, "WS_MAX_MESSAGE_SIZE", def.MaxMessageSize); err != nil {
		return nil, err
	}

	// Lifecycle
	if err := loadEnvDuration(&config.ShutdownTimeout, "SHUTDOWN_TIMEOUT", def.ShutdownTimeout); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.TrimSpace(value)
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}

	if u, err := url.Parse(c.ClientURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("CLIENT_URL must be an absolute URL, got %q", c.ClientURL))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if c.PingInterval <= 0 {
		problems = append(problems, "PING_INTERVAL must be positive")
	}
	if c.PingTimeout <= 0 {
		problems = append(problems, "PING_TIMEOUT must be positive")
	}
	if c.MaxMessageSize <= 0 {
		problems = append(problems, "WS_MAX_MESSAGE_SIZE must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}

	return nil
}

// Addr returns the host:port the listener binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AllowedOrigins returns the process-wide cross-origin allow-list.
func (c *Config) AllowedOrigins() []string {
	return []string{c.ClientURL}
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
