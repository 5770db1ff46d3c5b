package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/nhle/bugnet-provider/internal/app"
)

var version = "0.1.0"

func main() {
	// A local .env may carry BUGNET_* overrides; its absence is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := app.NewRootCommand(version, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("command failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
