package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guesthouse/internal/app/middleware"
	"guesthouse/internal/app/migration"
	appoutbox "guesthouse/internal/app/outbox"
	"guesthouse/internal/app/snapshot"
	"guesthouse/internal/app/uow"
	"guesthouse/internal/infra/config"
	mongodb "guesthouse/internal/infra/db/mongo"
	"guesthouse/internal/infra/firestore"
	"guesthouse/internal/infra/outbox"
	"guesthouse/internal/infra/storage/file"
	"guesthouse/internal/infra/storage/memory"
)

// backend is one storage mode resolved into the ports the application needs.
type backend struct {
	factory     uow.UoWFactory
	outbox      appoutbox.Outbox
	idempotency middleware.IdempotencyStore
	source      snapshot.Source
	target      migration.Target
	checks      map[string]func() error

	// local is set for the in-process modes, queue and mongo in mongo mode.
	local *memory.Store
	queue *outbox.Store
	mongo *mongodb.Client

	closers []func(context.Context) error
}

func (b *backend) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

func openBackend(ctx context.Context, cfg config.Config, publisher memory.Publisher, logger *slog.Logger) (*backend, error) {
	b := &backend{checks: map[string]func() error{}}
	switch cfg.StorageMode {
	case config.StorageMemory:
		store := memory.NewStore()
		b.factory = store
		b.local = store
		b.outbox = memory.NewOutbox(publisher)
		b.idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		b.target = migration.UnitTarget{UoWFactory: store, Markers: &migration.MemoryMarkers{}}

	case config.StorageFile:
		store, err := file.Open(cfg.DataFile, cfg.Currency, logger)
		if err != nil {
			return nil, err
		}
		b.factory = store
		b.local = store.Store
		b.outbox = memory.NewOutbox(publisher)
		b.idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		b.target = migration.UnitTarget{UoWFactory: store, Markers: &migration.MemoryMarkers{}}
		b.closers = append(b.closers, store.Flush)
		logger.Info("file storage opened", "path", store.Path())

	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		b.mongo = client
		b.closers = append(b.closers, client.Close)
		if err := client.Ping(ctx); err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		if b.queue, err = outbox.NewStore(ctx, client.DB); err != nil {
			b.Close(ctx)
			return nil, err
		}
		idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.factory = mongodb.Factory{DB: client.DB, Currency: cfg.Currency}
		b.outbox = b.queue
		b.idempotency = idem
		b.target = mongodb.MigrationTarget{DB: client.DB}
		b.checks["mongo"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

	case config.StorageFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		b.factory = firestore.Factory{Client: client, Currency: cfg.Currency}
		b.outbox = memory.NewOutbox(publisher)
		b.idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		b.target = firestore.MigrationTarget{Client: client}
		b.source = firestore.Listener{Client: client, Currency: cfg.Currency, Logger: logger}

	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
	}
	if b.source == nil {
		b.source = snapshot.PollingSource{UoWFactory: b.factory, Interval: cfg.SnapshotPoll, Logger: logger}
	}
	return b, nil
}

func runMigration(ctx context.Context, cfg config.Config, b *backend, logger *slog.Logger) error {
	if cfg.MigrateFrom == "" {
		return nil
	}
	svc := &migration.Service{
		Target: b.target,
		Reader: file.LegacyReader{Path: cfg.MigrateFrom, Currency: cfg.Currency, Logger: logger},
		Logger: logger,
	}
	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	if !res.Migrated {
		logger.Info("migration skipped, marker present", "path", cfg.MigrateFrom)
	}
	return nil
}
