package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/PavanMeka09/expense-server/internal/config"
	"github.com/PavanMeka09/expense-server/internal/events"
	"github.com/PavanMeka09/expense-server/internal/server"
	"github.com/PavanMeka09/expense-server/internal/service"
	"github.com/PavanMeka09/expense-server/internal/storage/sqlite"
	"github.com/PavanMeka09/expense-server/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		slog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	svc := service.NewLedgerService(store, publisher)

	// h2c allows HTTP/2 without TLS for clients that want it; plain HTTP/1.1
	// still works.
	handler := h2c.NewHandler(server.New(svc).Handler(), &http2.Server{})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
