package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/handler"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"github.com/wadjakorntonsri/share-saver/pkg/core/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if err := serve(ctx, cfg); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)

	if err := cfg.CheckServer(); err != nil {
		return err
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	service := services.NewLedgerService(repo)
	mux := handler.NewRouter(cfg, service)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
