package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// Telegram sends daily classification snapshots to a chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// SendSnapshot formats and delivers the daily classification.
func (t *Telegram) SendSnapshot(symbol string, m *model.MarketMetrics) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatSnapshot(symbol, m))
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	t.logger.Info().Str("symbol", symbol).Msg("Snapshot notification sent")
	return nil
}

// FormatSnapshot renders a MarketMetrics record as a Telegram HTML message.
func FormatSnapshot(symbol string, m *model.MarketMetrics) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", symbol, m.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Market: <b>%s</b>\n", m.MarketStatus))
	b.WriteString(fmt.Sprintf("Trend: %s %s\n", trendEmoji(m.MACDTrend), m.MACDTrend))
	b.WriteString(fmt.Sprintf("Volume: %s | Volatility: %s\n\n", m.VolumeStatus, m.VolatilityStatus))
	b.WriteString(fmt.Sprintf("💡 %s", m.TradeDecision))

	return b.String()
}

func trendEmoji(trend string) string {
	if trend == model.TrendBullish {
		return "📈"
	}
	return "📉"
}
