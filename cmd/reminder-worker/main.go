package main

import (
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/reminders"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentReminders)

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to open store", err)
	}
	defer store.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	notifier, closeNotifier, err := cli.Notifier(ctx, cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize notifier", err)
	}
	defer closeNotifier()

	sc := cli.SchedulerConfig(cfg)
	scheduler := reminders.NewScheduler(reminders.NewService(store, logger), notifier, sc, logger)
	logger.Info("Starting reminder-worker",
		"interval", sc.Interval,
		"rollover", sc.Rollover,
		"max_attempts", sc.MaxAttempts,
		log.FieldChannel, cfg.NotifyChannel)

	if err := scheduler.Start(ctx); err != nil {
		cli.Fatal(logger, "Failed to start scheduler", err)
	}
	<-ctx.Done()

	shutdownCtx, cancel := cli.ShutdownContext(cli.DefaultShutdownTimeout)
	defer cancel()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("Scheduler did not stop cleanly", log.FieldError, err)
	}
}
