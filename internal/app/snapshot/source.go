package snapshot

import (
	"context"
	"log/slog"
	"time"

	"guesthouse/internal/app/uow"
)

// Source pushes fresh data into a Store until ctx is cancelled.
type Source interface {
	Run(ctx context.Context, store *Store) error
}

// PollingSource reloads everything through a read-only unit of work on a
// fixed interval. It serves stores that cannot push changes themselves.
type PollingSource struct {
	UoWFactory uow.UoWFactory
	Interval   time.Duration
	Logger     *slog.Logger
}

func (p PollingSource) Run(ctx context.Context, store *Store) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	if err := p.Reload(ctx, store); err != nil {
		log.Warn("snapshot reload failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Reload(ctx, store); err != nil {
				log.Warn("snapshot reload failed", "error", err)
			}
		}
	}
}

// Reload reads all collections in one unit and replaces them in store.
func (p PollingSource) Reload(ctx context.Context, store *Store) error {
	unit, execCtx, release, err := uow.ReadOnly(ctx, p.UoWFactory)
	if err != nil {
		return err
	}
	defer release()

	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return err
	}
	contacts, err := unit.Contacts().List(execCtx)
	if err != nil {
		return err
	}
	cancellations, err := unit.Cancellations().List(execCtx)
	if err != nil {
		return err
	}
	rates, err := unit.Rates().Rates(execCtx)
	if err != nil {
		return err
	}
	store.ReplaceContacts(contacts)
	store.ReplaceBookings(bookings)
	store.ReplaceCancellations(cancellations)
	store.ReplaceRates(rates)
	return nil
}
