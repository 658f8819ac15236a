// Package telegram delivers reminder notifications to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintrack/internal/notify"
)

type Config struct {
	Token  string
	ChatID int64
	// Endpoint overrides tgbotapi.APIEndpoint; it must contain two %s verbs.
	Endpoint string
	Client   *http.Client
}

// Sender posts notifications to a single chat.
type Sender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ notify.Notifier = (*Sender)(nil)

// New authenticates the bot token against the Bot API.
func New(cfg Config) (*Sender, error) {
	if cfg.Token == "" {
		return nil, errors.New("missing telegram bot token")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("missing telegram chat id")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Sender{bot: bot, chatID: cfg.ChatID}, nil
}

func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := tgbotapi.NewMessage(s.chatID, msg.Subject()+"\n\n"+msg.Body())
	if _, err := s.bot.Send(out); err != nil {
		return fmt.Errorf("telegram send reminder %s: %w", msg.ReminderID, err)
	}
	return nil
}
