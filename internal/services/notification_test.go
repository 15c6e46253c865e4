package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
)

func testAlert() *models.ScannerAlert {
	return &models.ScannerAlert{
		ID:              "alert-1",
		Symbol:          "NVDA",
		AlertType:       models.AlertTypeTopPick,
		EntryPrice:      decimal.NewFromFloat(880.25),
		StopLoss:        decimal.NewFromFloat(865.10),
		TargetPrice:     decimal.NewFromFloat(956.00),
		RiskRewardRatio: decimal.NewFromFloat(5.0),
		ExpiresAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewNotificationService_NoToken(t *testing.T) {
	ns := NewNotificationService(config.TelegramConfig{})

	assert.False(t, ns.Enabled())
	// Without a bot, notifications are a silent no-op
	require.NoError(t, ns.NotifyTopPick(context.Background(), testAlert()))
}

func TestNewNotificationService_InvalidChatID(t *testing.T) {
	ns := NewNotificationService(config.TelegramConfig{
		BotToken: "123456:token",
		ChatID:   "not-a-number",
	})

	assert.False(t, ns.Enabled())
}

func TestFormatTopPickMessage(t *testing.T) {
	message := formatTopPickMessage(testAlert())

	assert.Contains(t, message, "TOP PICK: NVDA")
	assert.Contains(t, message, "$880.25")
	assert.Contains(t, message, "$865.10")
	assert.Contains(t, message, "$956.00")
	assert.Contains(t, message, "5.0:1")
	assert.Contains(t, message, "30 Aug 2026")
}
