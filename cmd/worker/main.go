package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"pinshop/internal/app/bootstrap"
	"pinshop/internal/app/worker"
	"pinshop/internal/platform/config"
	"pinshop/internal/platform/logging"
)

// The standalone worker drains a shared credentials queue. It pairs with an
// API server started with EMBEDDED_WORKER=false.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "json", "info").Error(context.Background(), "config load failed", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel).With("process", "worker")

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "worker exited with error", "error", err)
		os.Exit(1)
	}
}

var errInlineQueue = errors.New("inline queue cannot be shared across processes, set QUEUE_BACKEND to redis or amqp")

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.QueueBackend == config.QueueInline {
		return errInlineQueue
	}

	var deps bootstrap.Closers
	defer deps.CloseAll(log)

	notifications, err := bootstrap.OpenQueue(ctx, cfg, log, bootstrap.LazyRedis(cfg, &deps), &deps)
	if err != nil {
		return err
	}

	w := worker.NewNotificationWorker(notifications, bootstrap.NewMailer(cfg, log), log, cfg.MailSendTimeout)
	if err := w.Start(ctx); err != nil {
		return err
	}
	log.Info(context.Background(), "worker exited cleanly")
	return nil
}
