package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appoutbox "guesthouse/internal/app/outbox"
	"guesthouse/internal/app/service"
	"guesthouse/internal/app/snapshot"
	"guesthouse/internal/infra/broker/kafka"
	"guesthouse/internal/infra/config"
	ginserver "guesthouse/internal/infra/http/gin"
	"guesthouse/internal/infra/inbox"
	"guesthouse/internal/infra/obs"
	"guesthouse/internal/infra/outbox"
	"guesthouse/internal/infra/report"
	"guesthouse/internal/infra/schedule"
	"guesthouse/internal/infra/security"
	"guesthouse/internal/infra/storage/memory"
	"guesthouse/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("guesthouse stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	instanceID := uuid.NewString()

	catalog, err := config.LoadCatalog(cfg.HousesFile, cfg.Currency)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(registry)

	producer, closeProducer, err := openProducer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeProducer()
	publisher := outbox.Publisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix, IDs: uuid.NewString}

	store, err := openBackend(ctx, cfg, publisher, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Close(closeCtx)
	}()

	if err := runMigration(ctx, cfg, store, logger); err != nil {
		return err
	}

	snap := snapshot.NewStore(catalog)
	store.checks["snapshot"] = snap.Ready

	var uploader *s3.Client
	if cfg.S3Endpoint != "" {
		if uploader, err = s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger); err != nil {
			return err
		}
	}

	authorizer := security.PINAuthorizer{Hash: cfg.AccessPINHash}
	deps := service.Deps{
		UoWFactory:     store.factory,
		Catalog:        catalog,
		Outbox:         store.outbox,
		Encoder:        appoutbox.JSONEventEncoder{Source: "guesthouse"},
		Idempotency:    store.idempotency,
		Reports:        snap,
		ReportRenderer: report.Workbook{},
		Authorizer:     authorizer,
		Metrics:        metrics,
		Logger:         logger,
	}
	if uploader != nil {
		deps.ReportUploader = uploader
	}
	app := service.Build(deps)

	bg := startTasks(ctx, logger)
	defer bg.Stop()

	if store.local != nil {
		reloader := snapshot.PollingSource{UoWFactory: store.factory, Logger: logger}
		// The commit ctx still carries the finished unit, so reload on a fresh one.
		store.local.OnCommit(func(context.Context, memory.Data) error {
			reloadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := reloader.Reload(reloadCtx, snap); err != nil {
				logger.Warn("snapshot reload after commit failed", "error", err)
			}
			return nil
		})
	}
	bg.Go("snapshot", func(ctx context.Context) error { return store.source.Run(ctx, snap) })

	if store.queue != nil {
		worker := &outbox.Worker{
			Queue:     store.queue,
			Publisher: publisher,
			Interval:  cfg.OutboxPollInterval,
			Backoff:   cfg.RetryBackoff,
			ID:        instanceID,
			Metrics:   metrics,
			Logger:    logger,
		}
		bg.Go("outbox", worker.Run)
	}

	if store.mongo != nil && len(cfg.KafkaBrokers) > 0 {
		consumer, err := openRefreshConsumer(ctx, cfg, store, snap, publisher, instanceID, logger)
		if err != nil {
			return err
		}
		defer consumer.Close()
		topics := []string{publisher.TopicFor("booking")}
		bg.Go("refresh-consumer", func(ctx context.Context) error { return consumer.Run(ctx, topics) })
	}

	if cfg.ReportCron != "" {
		scheduler, err := schedule.New(cfg.ReportCron, app.Commands, time.Local, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	handlers := ginserver.Handlers{
		Bookings: ginserver.BookingHandler{Commands: app.Commands, Queries: app.Queries, Logger: logger},
		Contacts: ginserver.ContactHandler{Commands: app.Commands, Queries: app.Queries, Logger: logger},
		Settings: ginserver.SettingsHandler{Commands: app.Commands, Queries: app.Queries, Logger: logger},
		Stats:    ginserver.StatsHandler{Queries: app.Queries, Logger: logger},
		Reports:  ginserver.ReportHandler{Commands: app.Commands, Queries: app.Queries, Logger: logger},
		Auth:     ginserver.PINMiddleware{Authorizer: authorizer},
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{
		Checks: store.checks,
	}, handlers)

	bg.Go("http-shutdown", func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "instance", instanceID)
	err = server.ListenAndServe()
	// a failed listen leaves ctx alive, so the tasks are stopped here
	bg.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}

func openProducer(cfg config.Config, logger *slog.Logger) (outbox.Producer, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, events are logged only")
		return outbox.LogProducer{Logger: logger}, func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("guesthouse"))
	if err != nil {
		return nil, nil, err
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}, nil
}

// openRefreshConsumer subscribes this instance to booking events so writes
// made by other instances show up in the snapshot without waiting for the
// next poll. Each instance uses its own group to see every event.
func openRefreshConsumer(ctx context.Context, cfg config.Config, store *backend, snap *snapshot.Store, publisher outbox.Publisher, instanceID string, logger *slog.Logger) (*kafka.Consumer, error) {
	group := "guesthouse-refresh-" + instanceID
	seen, err := inbox.NewStore(ctx, store.mongo.DB, group, cfg.IdempotencyTTL)
	if err != nil {
		return nil, err
	}
	reloader := snapshot.PollingSource{UoWFactory: store.factory, Logger: logger}
	handler := kafka.RefreshHandler{
		Inbox:   seen,
		Refresh: func(ctx context.Context) error { return reloader.Reload(ctx, snap) },
	}
	return kafka.NewConsumer(cfg.KafkaBrokers, group, kafka.NewConfig("guesthouse-"+instanceID), handler, logger)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
