package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

func TestWorkerChannel(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"explicit gmail", config.Config{NotifyChannel: "gmail"}, "gmail"},
		{"explicit telegram", config.Config{NotifyChannel: "telegram"}, "telegram"},
		{"amqp with gmail sender", config.Config{NotifyChannel: "amqp", GmailSender: "a@b.co", TelegramToken: "x", TelegramChatID: 1}, "gmail"},
		{"amqp with telegram", config.Config{NotifyChannel: "amqp", TelegramToken: "x", TelegramChatID: 1}, "telegram"},
		{"telegram without chat", config.Config{NotifyChannel: "amqp", TelegramToken: "x"}, "log"},
		{"nothing", config.Config{NotifyChannel: "log"}, "log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkerChannel(&tt.cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirectNotifier(t *testing.T) {
	cfg := &config.Config{}

	n, err := DirectNotifier(context.Background(), cfg, "log", log.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Send(context.Background(), notify.Message{ReminderID: "r1"}); !errors.Is(err, notify.ErrNotConfigured) {
		t.Errorf("log sender should report ErrNotConfigured, got %v", err)
	}

	if _, err := DirectNotifier(context.Background(), cfg, "gmail", log.Discard()); err == nil {
		t.Error("gmail without credentials should fail")
	}
	if _, err := DirectNotifier(context.Background(), cfg, "pigeon", log.Discard()); err == nil {
		t.Error("unknown channel should fail")
	}
}

func TestNotifierClosesCleanly(t *testing.T) {
	n, closeFn, err := Notifier(context.Background(), &config.Config{NotifyChannel: "log"}, log.Discard())
	if err != nil || n == nil || closeFn == nil {
		t.Fatalf("n=%v closeFn=%v err=%v", n, closeFn, err)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}
}

func TestExporterDisabledWithoutSpreadsheet(t *testing.T) {
	e, err := Exporter(context.Background(), &config.Config{}, log.Discard())
	if err != nil || e != nil {
		t.Fatalf("expected no exporter, got %v (err=%v)", e, err)
	}
}

func TestOpenStoreMemory(t *testing.T) {
	store, err := OpenStore(&config.Config{DataBackend: "memory"}, log.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Ping(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestSchedulerConfig(t *testing.T) {
	sc := SchedulerConfig(&config.Config{ReminderInterval: time.Minute, ReminderMaxAttempts: 3, ReminderRollover: true})
	if sc.Interval != time.Minute || sc.MaxAttempts != 3 || !sc.Rollover {
		t.Errorf("unexpected scheduler config %+v", sc)
	}
}

func TestIgnoreCanceled(t *testing.T) {
	if IgnoreCanceled(fmt.Errorf("wrapped: %w", context.Canceled)) != nil {
		t.Error("canceled should be ignored")
	}
	boom := errors.New("boom")
	if IgnoreCanceled(boom) != boom {
		t.Error("other errors pass through")
	}
}
