package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Market.BaseURL)
	assert.Equal(t, "1d", cfg.Market.Interval)
	assert.Equal(t, "3mo", cfg.Market.Range)
	assert.Equal(t, 10, cfg.Scanner.BatchSize)
	assert.Equal(t, 200, cfg.Scanner.BatchDelayMs)
	assert.Equal(t, 15, cfg.Scanner.TopN)
	assert.InDelta(t, 4.5, cfg.Scanner.MinRiskReward, 1e-9)
	assert.InDelta(t, 55.0, cfg.Scanner.MinCompositeScore, 1e-9)
	assert.Equal(t, "24h", cfg.Scanner.AlertTTL)
	assert.Empty(t, cfg.Scanner.Universe)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("SCANNER_BATCH_SIZE", "5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scanner.BatchSize)
	assert.Equal(t, "test-token", cfg.Telegram.BotToken)
}

func TestScannerConfig_Durations(t *testing.T) {
	cfg := ScannerConfig{AlertTTL: "12h", BatchDelayMs: 200}
	assert.Equal(t, 12*time.Hour, cfg.AlertTTLDuration())
	assert.Equal(t, 200*time.Millisecond, cfg.BatchDelay())

	// Unparseable TTL falls back to the 24h default
	broken := ScannerConfig{AlertTTL: "not-a-duration"}
	assert.Equal(t, 24*time.Hour, broken.AlertTTLDuration())
}

func TestMarketConfig_QuoteCacheTTL(t *testing.T) {
	cfg := MarketConfig{QuoteCacheTTL: "90s"}
	assert.Equal(t, 90*time.Second, cfg.QuoteCacheTTLDuration())

	empty := MarketConfig{}
	assert.Equal(t, 5*time.Minute, empty.QuoteCacheTTLDuration())
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			Market:      MarketConfig{BaseURL: "https://query1.finance.yahoo.com"},
			Scanner: ScannerConfig{
				BatchSize:     10,
				TopN:          15,
				MinRiskReward: 4.5,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "zero batch size", mutate: func(c *Config) { c.Scanner.BatchSize = 0 }, wantErr: true},
		{name: "zero top n", mutate: func(c *Config) { c.Scanner.TopN = 0 }, wantErr: true},
		{name: "zero risk reward floor", mutate: func(c *Config) { c.Scanner.MinRiskReward = 0 }, wantErr: true},
		{name: "empty market url", mutate: func(c *Config) { c.Market.BaseURL = "" }, wantErr: true},
		{name: "localhost provider in production", mutate: func(c *Config) {
			c.Environment = "production"
			c.Market.BaseURL = "http://localhost:9000"
		}, wantErr: true},
		{name: "localhost provider in development", mutate: func(c *Config) {
			c.Market.BaseURL = "http://localhost:9000"
		}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
