package main

import (
	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentNotify)
	logger.Info("Starting notify-worker", "queue", cfg.AMQPQueue)

	ctx, stop := cli.SignalContext()
	defer stop()

	channel := cli.WorkerChannel(cfg)
	sender, err := cli.DirectNotifier(ctx, cfg, channel, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize delivery channel", err)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer client.Close()

	w := worker.NewNotificationWorker(sender, worker.DefaultConfig(), logger)
	err = client.ConsumeReminderNotifications(ctx, w.HandleReminderNotification)

	stats := w.Stats()
	logger.Info("Worker stopped",
		log.FieldChannel, channel,
		"delivered", stats.Delivered,
		"dropped", stats.Dropped,
		"failed", stats.Failed)
	if cli.IgnoreCanceled(err) != nil {
		cli.Fatal(logger, "Message consumption failed", err)
	}
}
