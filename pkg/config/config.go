package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Redis         RedisConfig
	Session       SessionConfig
	Notifications NotificationsConfig
	Logging       LoggingConfig
	Telemetry     TelemetryConfig
}

// ServerConfig holds gateway HTTP server configuration
type ServerConfig struct {
	Port int
	Host string
}

// BackendConfig holds the upstream REST API configuration
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL     string
	Enabled bool
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// NotificationsConfig holds notification polling configuration
type NotificationsConfig struct {
	PollInterval time.Duration
	PageSize     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string
	Format       string // "json" or "text"
	ScalyrFormat bool   // Enable Scalyr-compatible JSON format
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	JaegerURL         string
	PrometheusEnabled bool
	PrometheusPort    int
	ServiceName       string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	// Load from environment
	viper.SetEnvPrefix("CNDR")
	viper.AutomaticEnv()

	// Load from config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.condenser")
	viper.AddConfigPath("/etc/condenser")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getInt("http_server_port", 8080),
			Host: getString("http_server_host", "0.0.0.0"),
		},
		Backend: BackendConfig{
			URL:     getString("backend_url", "http://127.0.0.1:8000/api"),
			Timeout: getDuration("backend_timeout", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:     getString("redis_url", ""),
			Enabled: getString("redis_url", "") != "",
		},
		Session: SessionConfig{
			KeyPrefix: getString("session_key_prefix", "condenser:session"),
			TTL:       getDuration("session_ttl", 720*time.Hour),
		},
		Notifications: NotificationsConfig{
			PollInterval: getDuration("notify_poll_interval", 30*time.Second),
			PageSize:     getInt("notify_page_size", 50),
		},
		Logging: LoggingConfig{
			Level:        getString("log_level", "INFO"),
			Format:       getString("log_format", "json"),
			ScalyrFormat: getBool("log_scalyr_format", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", true),
			JaegerURL:         getString("jaeger_url", "http://localhost:14268/api/traces"),
			PrometheusEnabled: getBool("prometheus_enabled", true),
			PrometheusPort:    getInt("prometheus_port", 9090),
			ServiceName:       getString("service_name", "condenser"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("backend_url", "http://127.0.0.1:8000/api")
	viper.SetDefault("backend_timeout", 10*time.Second)
	viper.SetDefault("http_server_port", 8080)
	viper.SetDefault("http_server_host", "0.0.0.0")
	viper.SetDefault("session_key_prefix", "condenser:session")
	viper.SetDefault("session_ttl", 720*time.Hour)
	viper.SetDefault("notify_poll_interval", 30*time.Second)
	viper.SetDefault("notify_page_size", 50)
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("log_scalyr_format", true)
	viper.SetDefault("telemetry_enabled", true)
	viper.SetDefault("prometheus_enabled", true)
	viper.SetDefault("prometheus_port", 9090)
	viper.SetDefault("service_name", "condenser")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	// Also check environment variable directly
	if val := os.Getenv("CNDR_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("CNDR_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("CNDR_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	if val := os.Getenv("CNDR_" + toEnvKey(key)); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	// Convert snake_case to UPPER_SNAKE_CASE
	result := ""
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result += "_"
		}
		if r == '-' || r == '_' {
			result += "_"
		} else {
			result += string(r)
		}
	}
	return result
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend_timeout must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("http_server_port must be between 1 and 65535")
	}
	if c.Notifications.PollInterval < time.Second {
		return fmt.Errorf("notify_poll_interval must be at least 1s")
	}
	if c.Notifications.PageSize <= 0 || c.Notifications.PageSize > 500 {
		return fmt.Errorf("notify_page_size must be between 1 and 500")
	}
	return nil
}
