package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/ezwallet/internal/httpserver"
	"github.com/Skotchmaster/ezwallet/pkg/config"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create tables and indexes before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg := config.MustLoad()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.IntoContext(ctx, logger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("store_close_failed", "err", err)
		}
	}()
	if migrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pub := events.New(cfg.KafkaBrokers)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_failed", "err", err)
		}
	}()

	e := httpserver.New(store, tokens.NewCodec(cfg.AccessKey), pub, logger)
	addr := fmt.Sprintf(":%d", cfg.ServerPort)

	go func() {
		logger.Info("http_listen", "addr", addr, "store", cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "err", err)
	}
	return nil
}
