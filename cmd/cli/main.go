package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(cfg.LogLevel).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
