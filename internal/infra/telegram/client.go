// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"availability_notification_bot/internal/domain/dispatch"

	"gopkg.in/telebot.v3"
)

// TelebotSender delivers message bodies to Telegram chat channels using the
// gopkg.in/telebot.v3 library. The bot is send-only; no poller runs.
type TelebotSender struct {
	bot *telebot.Bot
}

func NewTelebotSender(b *telebot.Bot) *TelebotSender {
	return &TelebotSender{bot: b}
}

// Send posts the body to the channel's configured chat.
func (s *TelebotSender) Send(_ context.Context, ch dispatch.ChannelConfig, body string) error {
	_, err := s.bot.Send(telebot.ChatID(ch.ChatID), body)
	return err
}
