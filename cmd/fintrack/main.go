package main

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/reminders"
	"fintrack/internal/users"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	bootLogger := log.New(log.DefaultConfig())
	if err != nil {
		cli.Fatal(bootLogger, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	weekStart, err := analytics.ParseWeekday(cfg.WeekStart)
	if err != nil {
		cli.Fatal(logger, "Invalid WEEK_START", err)
	}

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to open store", err)
	}
	defer store.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	exporter, err := cli.Exporter(ctx, cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Sheets exporter", err)
	}

	reminderService := reminders.NewService(store, logger)
	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Store:          store,
		Reminders:      reminderService,
		Users:          users.NewService(store, logger),
		Exporter:       exporter,
		Logger:         logger,
		WeekStart:      weekStart,
		ReportCacheTTL: cfg.ReportCacheTTL,
		RateLimitRPM:   cfg.RateLimitRPM,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"notify_channel", cfg.NotifyChannel,
			"sheets_export", exporter != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.ReminderSchedulerEnabled {
		notifier, closeNotifier, err := cli.Notifier(ctx, cfg, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize notifier", err)
		}
		defer closeNotifier()

		scheduler := reminders.NewScheduler(reminderService, notifier, cli.SchedulerConfig(cfg), logger)
		if err := scheduler.Start(gctx); err != nil {
			cli.Fatal(logger, "Failed to start reminder scheduler", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := cli.ShutdownContext(cli.DefaultShutdownTimeout)
			defer cancel()
			return scheduler.Stop(shutdownCtx)
		})
	} else {
		logger.Info("Reminder scheduler disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := cli.ShutdownContext(cli.DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); cli.IgnoreCanceled(err) != nil {
		cli.Fatal(logger, "Server stopped with error", err)
	}
	logger.Info("Server stopped gracefully")
}
