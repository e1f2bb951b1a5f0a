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

	"golang.org/x/sync/errgroup"

	"github.com/kmohsen11/Argos/internal/config"
	httpdelivery "github.com/kmohsen11/Argos/internal/delivery/http"
	"github.com/kmohsen11/Argos/internal/mail"
	"github.com/kmohsen11/Argos/internal/messaging/kafka"
	"github.com/kmohsen11/Argos/internal/metrics"
	"github.com/kmohsen11/Argos/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Pre-order relay stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	dispatcher, err := mail.NewDispatcherFromConfig(cfg.Mail)
	if err != nil {
		return err
	}

	// The relay listens next to the API by default.
	port := cfg.Port
	if os.Getenv("PORT") == "" {
		port = "8081"
	}

	m := metrics.New()
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr: ":" + port,
		Handler: httpdelivery.NewRouter(nil, httpdelivery.RouterConfig{
			CORSOrigin: cfg.CORSOrigin,
			Metrics:    m.Handler(),
			Relay:      httpdelivery.NewRelayHandler(dispatcher, cfg.Relay.Rate, cfg.Relay.Burst, m),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.ConsumeEvents {
		brokers := kafka.ParseBrokers(cfg.KafkaBrokers)
		if len(brokers) == 0 {
			return errors.New("CONSUME_EVENTS requires KAFKA_BROKERS")
		}
		broker := kafka.NewKafkaBroker(brokers)
		defer broker.Close()

		consumer := notification.NewMailConsumer(broker, dispatcher, cfg.PreorderTopic, cfg.ConsumerGroup, cfg.NotifyTimeout)
		g.Go(func() error {
			consumer.Run(ctx)
			return nil
		})
		slog.Info("🔄 Kafka consumer started", "topic", cfg.PreorderTopic)
	}

	g.Go(func() error {
		slog.Info("🚀 Relay starting", "addr", srv.Addr, "path", httpdelivery.RelayPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
