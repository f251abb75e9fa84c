package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lgsbc-git/lgstech-backend/internal/api"
	"github.com/lgsbc-git/lgstech-backend/internal/config"
	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
	"github.com/lgsbc-git/lgstech-backend/internal/service"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
	"github.com/lgsbc-git/lgstech-backend/internal/worker"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx := context.Background()

	subStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open subscriber store", "error", err)
		os.Exit(1)
	}
	defer subStore.Close()
	logger.Info("subscriber store ready", "backend", cfg.StoreBackend)

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up mail transport", "error", err)
		os.Exit(1)
	}

	confirmSender, pool := confirmationSender(cfg, sender, logger)

	templates, err := mailer.NewTemplates(cfg.ClientURL)
	if err != nil {
		logger.Error("failed to load email templates", "error", err)
		os.Exit(1)
	}

	subs := service.NewSubscriptionService(subStore, confirmSender, templates, cfg.AdminKey, service.PolicyFor(cfg.ConfirmationRequired), logger)
	contacts := service.NewContactService(sender, templates, cfg.ContactRecipient, logger)

	if cfg.AdminKey == "" {
		logger.Warn("ADMIN_KEY is empty; the subscriber listing is disabled")
	}

	router := api.NewRouter(subs, contacts, cfg.AllowedOrigins, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if pool != nil {
		pool.Stop()
	}

	logger.Info("server stopped")
}

// confirmationSender returns the sender used for confirmation emails. With
// MAIL_ASYNC they go through the outbox pool, which the caller must stop.
// Contact messages always use transport directly so their failures reach
// the client.
func confirmationSender(cfg *config.Config, transport mailer.Sender, logger *slog.Logger) (mailer.Sender, *worker.Pool) {
	if !cfg.MailAsync {
		return transport, nil
	}
	pool := worker.NewPool(cfg.MailWorkers, transport, logger)
	pool.Start(context.Background())
	return pool, pool
}

func newSender(ctx context.Context, cfg *config.Config, logger *slog.Logger) (mailer.Sender, error) {
	if cfg.MailTransport == config.TransportSES {
		client, err := mailer.NewSESClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return mailer.NewSESSender(client, cfg.MailUser, logger), nil
	}
	return mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword), nil
}
