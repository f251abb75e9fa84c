// Command registry inspects and edits the subscriber registry directly,
// using the same environment as the server. No emails are sent.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lgsbc-git/lgstech-backend/internal/config"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	open := func(ctx context.Context) (store.SubscriberStore, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		return store.Open(ctx, cfg, logger)
	}

	if err := newRootCmd(open).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
