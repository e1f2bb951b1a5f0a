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
	"github.com/kmohsen11/Argos/internal/form"
	"github.com/kmohsen11/Argos/internal/mail"
	"github.com/kmohsen11/Argos/internal/messaging"
	"github.com/kmohsen11/Argos/internal/messaging/kafka"
	"github.com/kmohsen11/Argos/internal/messaging/memory"
	"github.com/kmohsen11/Argos/internal/metrics"
	"github.com/kmohsen11/Argos/internal/notification"
	"github.com/kmohsen11/Argos/internal/repository/postgres"
	"github.com/kmohsen11/Argos/internal/service"
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
		slog.Error("Pre-order API stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- Database ---
	db, err := postgres.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	g, ctx := errgroup.WithContext(ctx)

	// --- Messaging ---
	var broker messaging.Broker
	if cfg.Notifier == config.NotifierEvents || cfg.ConsumeEvents {
		broker = newBroker(cfg)
		defer broker.Close()
	}

	// --- Mail ---
	var dispatcher *mail.Dispatcher
	if cfg.RelayEnabled || cfg.ConsumeEvents {
		dispatcher, err = mail.NewDispatcherFromConfig(cfg.Mail)
		if err != nil {
			return err
		}
	}

	// --- Pipeline ---
	svc := service.NewPreorderService(
		postgres.NewPreorderRepository(db),
		newNotifier(cfg, broker),
		service.WithMetrics(m),
		service.WithTimeouts(cfg.SubmitTimeout, cfg.NotifyTimeout),
	)

	store, closeStore, err := newFormStore(ctx, cfg, g)
	if err != nil {
		return err
	}
	defer closeStore()
	machine := form.NewMachine(store, svc)

	// --- HTTP API ---
	routes := httpdelivery.RouterConfig{CORSOrigin: cfg.CORSOrigin, Metrics: m.Handler()}
	if cfg.RelayEnabled {
		routes.Relay = httpdelivery.NewRelayHandler(dispatcher, cfg.Relay.Rate, cfg.Relay.Burst, m)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewRouter(httpdelivery.NewHandler(svc, machine), routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start everything ---
	if cfg.ConsumeEvents {
		consumer := notification.NewMailConsumer(broker, dispatcher, cfg.PreorderTopic, cfg.ConsumerGroup, cfg.NotifyTimeout)
		g.Go(func() error {
			consumer.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		slog.Info("🚀 HTTP server starting", "addr", srv.Addr, "notifier", cfg.Notifier, "form_store", cfg.FormStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.LockTTL())
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		machine.Wait()
		return err
	})

	return g.Wait()
}

func newBroker(cfg *config.Config) messaging.Broker {
	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		slog.Info("Using Kafka broker", "brokers", brokers)
		return kafka.NewKafkaBroker(brokers)
	}
	slog.Info("Using in-process broker")
	return memory.NewBroker(64)
}

func newNotifier(cfg *config.Config, broker messaging.Broker) notification.Notifier {
	switch cfg.Notifier {
	case config.NotifierEvents:
		return notification.NewEventNotifier(broker, cfg.PreorderTopic)
	case config.NotifierNone:
		return notification.Noop{}
	default:
		return notification.NewRelayClient(cfg.RelayURL, &http.Client{Timeout: cfg.NotifyTimeout})
	}
}

// newFormStore returns the store and a func that releases it once every
// in-flight submission has finished.
func newFormStore(ctx context.Context, cfg *config.Config, g *errgroup.Group) (form.Store, func(), error) {
	if cfg.FormStore == config.FormStoreRedis {
		client, err := form.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return form.NewRedisStore(client, cfg.FormTTL, cfg.LockTTL()), func() { client.Close() }, nil
	}

	store := form.NewMemoryStore(cfg.FormTTL)
	g.Go(func() error {
		store.Run(ctx, time.Minute)
		return nil
	})
	return store, func() {}, nil
}
