// Package cli holds the bootstrap shared by every command: env loading,
// logging, storage and notification channel selection.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/notify/gmail"
	"fintrack/internal/notify/telegram"
	"fintrack/internal/ports"
	"fintrack/internal/reminders"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
)

// DefaultShutdownTimeout bounds graceful shutdown of servers and loops.
const DefaultShutdownTimeout = 30 * time.Second

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads and validates the environment.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	lc.Format = cfg.LogFormat
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// Fatal logs err and exits.
func Fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, log.FieldError, err)
	os.Exit(1)
}

// OpenStore opens the backend selected by DATA_BACKEND.
func OpenStore(cfg *config.Config, logger *log.Logger) (ports.Store, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.Open(bc, logger)
}

// SchedulerConfig maps REMINDER_* settings.
func SchedulerConfig(cfg *config.Config) reminders.SchedulerConfig {
	return reminders.SchedulerConfig{
		Interval:    cfg.ReminderInterval,
		MaxAttempts: cfg.ReminderMaxAttempts,
		Rollover:    cfg.ReminderRollover,
	}
}

// Notifier returns the sender for NOTIFY_CHANNEL. The returned close
// function releases broker connections and is never nil.
func Notifier(ctx context.Context, cfg *config.Config, logger *log.Logger) (notify.Notifier, func() error, error) {
	if cfg.NotifyChannel == "amqp" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("amqp client: %w", err)
		}
		return client, client.Close, nil
	}
	n, err := DirectNotifier(ctx, cfg, cfg.NotifyChannel, logger)
	return n, func() error { return nil }, err
}

// DirectNotifier builds a sender that delivers without the broker. The
// notify worker uses it with whichever direct channel is configured.
func DirectNotifier(ctx context.Context, cfg *config.Config, channel string, logger *log.Logger) (notify.Notifier, error) {
	switch channel {
	case "gmail":
		s, err := gmail.New(ctx, gmail.Config{
			Sender:     cfg.GmailSender,
			ClientJSON: cfg.GoogleOAuthClientJSON,
			ClientFile: cfg.GoogleOAuthClientFile,
			TokenJSON:  cfg.GoogleOAuthTokenJSON,
			TokenFile:  cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("gmail sender: %w", err)
		}
		logger.Info("Notifications via Gmail", "sender", cfg.GmailSender)
		return s, nil
	case "telegram":
		s, err := telegram.New(telegram.Config{Token: cfg.TelegramToken, ChatID: cfg.TelegramChatID})
		if err != nil {
			return nil, fmt.Errorf("telegram sender: %w", err)
		}
		logger.Info("Notifications via Telegram", "chat_id", cfg.TelegramChatID)
		return s, nil
	case "log", "":
		logger.Warn("No notification channel configured, reminders stay pending")
		return notify.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unsupported notification channel %q", channel)
	}
}

// WorkerChannel picks the delivery channel for the notify worker: gmail
// when a sender is configured, then telegram, then log.
func WorkerChannel(cfg *config.Config) string {
	switch {
	case cfg.NotifyChannel == "gmail" || cfg.NotifyChannel == "telegram":
		return cfg.NotifyChannel
	case cfg.GmailSender != "":
		return "gmail"
	case cfg.TelegramToken != "" && cfg.TelegramChatID != 0:
		return "telegram"
	default:
		return "log"
	}
}

// Exporter returns the Google Sheets exporter, or nil when no spreadsheet
// is configured.
func Exporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.TransactionExporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	c, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return c, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownContext bounds graceful shutdown after the signal context ends.
func ShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// IgnoreCanceled treats context cancellation as a clean exit.
func IgnoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
