package firestore

import (
	"context"
	"log/slog"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"

	"guesthouse/internal/app/snapshot"
)

// Listener feeds a snapshot store from Firestore real-time listeners, one
// per collection plus one for the rates document. A broken listener is
// reopened after RetryDelay; the store keeps its last data meanwhile.
type Listener struct {
	Client     *gcfirestore.Client
	Currency   string
	Logger     *slog.Logger
	RetryDelay time.Duration
}

func (l Listener) Run(ctx context.Context, store *snapshot.Store) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.watchQuery(ctx, bookingsCollection, func(docs []*gcfirestore.DocumentSnapshot) error {
			list, err := decodeBookings(docs, l.Currency)
			if err == nil {
				store.ReplaceBookings(list)
			}
			return err
		})
	})
	g.Go(func() error {
		return l.watchQuery(ctx, contactsCollection, func(docs []*gcfirestore.DocumentSnapshot) error {
			list, err := decodeContacts(docs)
			if err == nil {
				store.ReplaceContacts(list)
			}
			return err
		})
	})
	g.Go(func() error {
		return l.watchQuery(ctx, cancellationsCollection, func(docs []*gcfirestore.DocumentSnapshot) error {
			list, err := decodeCancellations(docs, l.Currency)
			if err == nil {
				store.ReplaceCancellations(list)
			}
			return err
		})
	})
	g.Go(func() error {
		return l.watchRates(ctx, store)
	})
	return g.Wait()
}

func (l Listener) watchQuery(ctx context.Context, collection string, apply func([]*gcfirestore.DocumentSnapshot) error) error {
	for {
		err := l.listenQuery(ctx, collection, apply)
		if isCanceled(ctx, err) {
			return ctx.Err()
		}
		l.logger().WarnContext(ctx, "firestore: listener error", "collection", collection, "err", err)
		if err := l.pause(ctx); err != nil {
			return err
		}
	}
}

func (l Listener) listenQuery(ctx context.Context, collection string, apply func([]*gcfirestore.DocumentSnapshot) error) error {
	it := l.Client.Collection(collection).Snapshots(ctx)
	defer it.Stop()
	for {
		qs, err := it.Next()
		if err != nil {
			return err
		}
		docs, err := qs.Documents.GetAll()
		if err != nil {
			return err
		}
		if err := apply(docs); err != nil {
			l.logger().ErrorContext(ctx, "firestore: decode snapshot", "collection", collection, "err", err)
		}
	}
}

func (l Listener) watchRates(ctx context.Context, store *snapshot.Store) error {
	ref := l.Client.Collection(bookingsCollection).Doc(ratesDocumentID)
	for {
		err := func() error {
			it := ref.Snapshots(ctx)
			defer it.Stop()
			for {
				snap, err := it.Next()
				if err != nil {
					return err
				}
				table, err := decodeRates(snap)
				if err != nil {
					l.logger().ErrorContext(ctx, "firestore: decode rates", "err", err)
					continue
				}
				store.ReplaceRates(table)
			}
		}()
		if isCanceled(ctx, err) {
			return ctx.Err()
		}
		l.logger().WarnContext(ctx, "firestore: rates listener error", "err", err)
		if err := l.pause(ctx); err != nil {
			return err
		}
	}
}

func (l Listener) pause(ctx context.Context) error {
	delay := l.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (l Listener) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

var _ snapshot.Source = Listener{}
