package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinshop/internal/api"
	"pinshop/internal/app/bootstrap"
	"pinshop/internal/app/service"
	"pinshop/internal/app/worker"
	"pinshop/internal/common/security"
	"pinshop/internal/platform/config"
	"pinshop/internal/platform/logging"
)

func main() {
	bootLog := logging.New(os.Stderr, "json", "info")

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error(context.Background(), "config load failed", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server exited with error", "error", err)
		os.Exit(1)
	}
}

// requestTimeout stays under writeTimeout so chi can still answer 504
// before the server drops the connection.
const (
	writeTimeout   = 10 * time.Second
	requestTimeout = 8 * time.Second
)

func newHTTPServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps bootstrap.Closers
	defer deps.CloseAll(log)

	// 2. Storage
	stores, err := bootstrap.OpenStores(ctx, cfg, log, &deps)
	if err != nil {
		return err
	}
	log.Info(ctx, "store ready", "backend", cfg.StoreBackend)

	// 3. Sessions and notification queue
	redisClient := bootstrap.LazyRedis(cfg, &deps)
	sessions, err := bootstrap.OpenSessions(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	notifications, err := bootstrap.OpenQueue(ctx, cfg, log, redisClient, &deps)
	if err != nil {
		return err
	}
	log.Info(ctx, "session and queue ready", "sessions", cfg.SessionBackend, "queue", cfg.QueueBackend)

	// 4. Services
	accountService := service.NewAccountService(stores.Accounts, security.RandomCredentials{}, sessions, notifications, log,
		service.AccountOptions{
			MaxAttempts:    cfg.RegisterMaxAttempts,
			StoreTimeout:   cfg.StoreTimeout,
			PublishTimeout: cfg.NotifyPublishTimeout,
		})
	catalogService := service.NewCatalogService(stores.Products, log, cfg.StoreTimeout)
	cartService := service.NewCartService(stores.Accounts, stores.Products, log, cfg.StoreTimeout)

	// 5. Notification worker (as a goroutine unless cmd/worker runs it)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	notificationWorker := worker.NewNotificationWorker(notifications, bootstrap.NewMailer(cfg, log), log, cfg.MailSendTimeout)
	workerDone := make(chan struct{})
	if cfg.EmbeddedWorker {
		go func() {
			defer close(workerDone)
			if err := notificationWorker.Start(workerCtx); err != nil {
				log.Error(workerCtx, "notification worker failed", "error", err)
			}
		}()
	} else {
		close(workerDone)
	}

	// 6. Router & HTTP Server
	router := api.NewRouter(accountService, catalogService, cartService, sessions, log, api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SessionTTL:     cfg.SessionTTL,
		RequestTimeout: requestTimeout,
	})
	server := newHTTPServer(cfg.APIPort, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 7. Graceful Shutdown
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(context.Background(), "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", "error", err)
	}

	// Let in-flight registrations hand off their notifications before the
	// worker and the queue go away.
	accountService.Wait()
	workerCancel()
	<-workerDone

	log.Info(context.Background(), "server and worker stopped gracefully")
	return nil
}
