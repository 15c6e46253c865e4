package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates all configuration settings for the application.
type Config struct {
	// Environment indicates the running environment (e.g., "development", "production").
	Environment string `mapstructure:"environment"`
	// LogLevel sets the global logging verbosity.
	LogLevel string `mapstructure:"log_level"`
	// Server holds configuration for the HTTP server.
	Server ServerConfig `mapstructure:"server"`
	// Database holds configuration for the database connection.
	Database DatabaseConfig `mapstructure:"database"`
	// Redis holds configuration for the Redis connection.
	Redis RedisConfig `mapstructure:"redis"`
	// Market holds configuration for the market data provider.
	Market MarketConfig `mapstructure:"market"`
	// Scanner holds configuration for the screening engine.
	Scanner ScannerConfig `mapstructure:"scanner"`
	// Telegram holds configuration for Telegram alert notifications.
	Telegram TelegramConfig `mapstructure:"telegram"`
	// Telemetry holds configuration for OpenTelemetry integration.
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port"`
	// AllowedOrigins is a list of CORS allowed origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig defines the PostgreSQL database connection settings.
type DatabaseConfig struct {
	// Host is the database server hostname or IP.
	Host string `mapstructure:"host"`
	// Port is the database server port.
	Port int `mapstructure:"port"`
	// User is the database username.
	User string `mapstructure:"user"`
	// Password is the database password.
	Password string `mapstructure:"password"`
	// DBName is the name of the database to connect to.
	DBName string `mapstructure:"dbname"`
	// SSLMode defines the SSL connection mode.
	SSLMode string `mapstructure:"sslmode"`
	// DatabaseURL is a connection string that can override individual fields.
	DatabaseURL string `mapstructure:"database_url"`
}

// RedisConfig defines the Redis connection settings.
type RedisConfig struct {
	// Host is the Redis server hostname.
	Host string `mapstructure:"host"`
	// Port is the Redis server port.
	Port int `mapstructure:"port"`
	// Password is the Redis authentication password.
	Password string `mapstructure:"password"`
	// DB is the Redis database index to use.
	DB int `mapstructure:"db"`
}

// MarketConfig defines settings for the chart/quote provider.
type MarketConfig struct {
	// BaseURL is the base URL of the chart API.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `mapstructure:"timeout"`
	// Interval is the bar interval requested from the provider.
	Interval string `mapstructure:"interval"`
	// Range is the history range requested from the provider.
	Range string `mapstructure:"range"`
	// QuoteCacheTTL is the TTL string for cached quotes.
	QuoteCacheTTL string `mapstructure:"quote_cache_ttl"`
}

// ScannerConfig defines settings for the screening engine.
type ScannerConfig struct {
	// BatchSize is the number of symbols fetched concurrently per batch.
	BatchSize int `mapstructure:"batch_size"`
	// BatchDelayMs is the pause in milliseconds between batches.
	BatchDelayMs int `mapstructure:"batch_delay_ms"`
	// TopN is the number of ranked candidates persisted per job.
	TopN int `mapstructure:"top_n"`
	// MinRiskReward is the admission floor for a setup's reward:risk ratio.
	MinRiskReward float64 `mapstructure:"min_risk_reward"`
	// MinCompositeScore is the admission floor for the composite score.
	MinCompositeScore float64 `mapstructure:"min_composite_score"`
	// AlertTTL is the duration string an alert stays valid after creation.
	AlertTTL string `mapstructure:"alert_ttl"`
	// Universe is the list of symbols eligible for scanning. Empty selects
	// the built-in default universe.
	Universe []string `mapstructure:"universe"`
}

// TelegramConfig defines settings for the Telegram alert bot.
type TelegramConfig struct {
	// BotToken is the authentication token for the Telegram bot.
	BotToken string `mapstructure:"bot_token"`
	// ChatID is the chat that receives top-pick alerts.
	ChatID string `mapstructure:"chat_id"`
}

// TelemetryConfig defines settings for OpenTelemetry.
type TelemetryConfig struct {
	// Enabled controls whether telemetry is active.
	Enabled bool `mapstructure:"enabled"`
	// OTLPEndpoint is the OTLP HTTP collector endpoint. Empty selects the
	// stdout exporter for development.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// ServiceName is the name of the service for tracing.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// LogLevel sets the log level for telemetry components.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the configuration from the config file and environment variables.
//
// Returns:
//
//	*Config: The loaded configuration structure.
//	error: An error if the configuration could not be parsed.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind standard DATABASE_URL
	_ = viper.BindEnv("database.database_url", "DATABASE_URL")

	// Bind Telegram environment variables
	_ = viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults initializes the default configuration values in Viper.
func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "change-me-in-production")
	viper.SetDefault("database.dbname", "stockpulse")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Market data provider
	viper.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("market.timeout", 15)
	viper.SetDefault("market.interval", "1d")
	viper.SetDefault("market.range", "3mo")
	viper.SetDefault("market.quote_cache_ttl", "5m")

	// Scanner
	viper.SetDefault("scanner.batch_size", 10)
	viper.SetDefault("scanner.batch_delay_ms", 200)
	viper.SetDefault("scanner.top_n", 15)
	viper.SetDefault("scanner.min_risk_reward", 4.5)
	viper.SetDefault("scanner.min_composite_score", 55.0)
	viper.SetDefault("scanner.alert_ttl", "24h")
	viper.SetDefault("scanner.universe", []string{})

	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_id", "")

	// Telemetry
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.otlp_endpoint", "")
	viper.SetDefault("telemetry.service_name", "github.com/stockpulse/stockpulse-go")
	viper.SetDefault("telemetry.service_version", "1.0.0")
	viper.SetDefault("telemetry.log_level", "info")
}

// AlertTTLDuration parses the configured alert TTL, falling back to 24h.
func (c *ScannerConfig) AlertTTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.AlertTTL); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// BatchDelay returns the inter-batch pause as a duration.
func (c *ScannerConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

// QuoteCacheTTLDuration parses the configured quote cache TTL, falling back to 5m.
func (c *MarketConfig) QuoteCacheTTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.QuoteCacheTTL); err == nil && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// validateConfig validates critical operational settings.
func validateConfig(config *Config) error {
	if config.Scanner.BatchSize <= 0 {
		return fmt.Errorf("scanner.batch_size must be positive, got %d", config.Scanner.BatchSize)
	}
	if config.Scanner.TopN <= 0 {
		return fmt.Errorf("scanner.top_n must be positive, got %d", config.Scanner.TopN)
	}
	if config.Scanner.MinRiskReward <= 0 {
		return fmt.Errorf("scanner.min_risk_reward must be positive, got %f", config.Scanner.MinRiskReward)
	}
	if config.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url cannot be empty")
	}

	if config.Environment == "production" || config.Environment == "staging" {
		if strings.Contains(config.Market.BaseURL, "localhost") || strings.Contains(config.Market.BaseURL, "127.0.0.1") {
			return fmt.Errorf("market.base_url '%s' points at localhost in %s environment", config.Market.BaseURL, config.Environment)
		}
	}

	return nil
}
