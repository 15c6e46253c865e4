package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	botmodels "github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
)

// NotificationService pushes top pick alerts to a Telegram chat. With
// no bot token configured it degrades to a no-op.
type NotificationService struct {
	bot    *bot.Bot
	chatID int64
}

// NewNotificationService creates the Telegram notifier. An empty token
// or unparseable chat ID leaves the bot disabled.
func NewNotificationService(cfg config.TelegramConfig) *NotificationService {
	ns := &NotificationService{}

	if cfg.BotToken == "" {
		return ns
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("Invalid telegram chat ID, notifications disabled")
		return ns
	}

	telegramBot, err := bot.New(cfg.BotToken)
	if err != nil {
		logrus.WithError(err).Warn("Failed to initialize telegram bot, notifications disabled")
		return ns
	}

	ns.bot = telegramBot
	ns.chatID = chatID
	return ns
}

// Enabled reports whether alerts will actually be delivered.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil
}

// NotifyTopPick sends the top pick alert to the configured chat.
func (ns *NotificationService) NotifyTopPick(ctx context.Context, alert *models.ScannerAlert) error {
	if ns.bot == nil {
		return nil
	}

	_, err := ns.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    ns.chatID,
		Text:      formatTopPickMessage(alert),
		ParseMode: botmodels.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

// formatTopPickMessage creates the Telegram message for a top pick.
func formatTopPickMessage(alert *models.ScannerAlert) string {
	entry, _ := alert.EntryPrice.Float64()
	stop, _ := alert.StopLoss.Float64()
	target, _ := alert.TargetPrice.Float64()
	ratio, _ := alert.RiskRewardRatio.Float64()

	message := fmt.Sprintf("🚨 *TOP PICK: %s*\n\n", alert.Symbol)
	message += fmt.Sprintf("💲 *Entry:* $%.2f\n", entry)
	message += fmt.Sprintf("🛑 *Stop Loss:* $%.2f\n", stop)
	message += fmt.Sprintf("🎯 *Target:* $%.2f\n", target)
	message += fmt.Sprintf("📊 *Risk/Reward:* %.1f:1\n", ratio)
	message += fmt.Sprintf("⏰ *Valid until:* %s\n", alert.ExpiresAt.UTC().Format(time.RFC1123))
	message += "\n⚡ *Trade wisely!* Always manage your risk and position size."

	return message
}
