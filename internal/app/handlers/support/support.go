package support

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"guesthouse/internal/app/uow"
	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
)

var ErrUnitOfWorkRequired = errors.New("handlers: unit of work required")

// Within runs fn on the unit carried by ctx. Without one it opens a unit on
// factory and commits it when fn succeeds, then runs the AfterCommit
// callbacks fn registered.
func Within(ctx context.Context, factory uow.UoWFactory, fn func(ctx context.Context, unit uow.UnitOfWork) error) error {
	if unit, ok := uow.FromContext(ctx); ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return ErrUnitOfWorkRequired
	}
	collected, runAfter := uow.CollectAfterCommit(ctx)
	unit, execCtx, err := uow.Begin(collected, factory, uow.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(execCtx, unit); err != nil {
		_ = unit.Rollback(execCtx)
		return err
	}
	if err := unit.Commit(execCtx); err != nil {
		return err
	}
	runAfter(ctx)
	return nil
}

// Clock and IDs are injectable so tests get stable output.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

type IDs func() string

func (g IDs) New() string {
	if g == nil {
		return uuid.NewString()
	}
	return g()
}

// RateTable loads stored rates, falling back to catalog defaults when
// nothing has been saved yet.
func RateTable(ctx context.Context, unit uow.UnitOfWork, catalog *houses.Catalog) (pricing.RateTable, error) {
	table, err := unit.Rates().Rates(ctx)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return pricing.DefaultRates(catalog), nil
	}
	return table, nil
}

// Directory loads every contact for name resolution.
func Directory(ctx context.Context, unit uow.UnitOfWork) (contacts.Directory, error) {
	list, err := unit.Contacts().List(ctx)
	if err != nil {
		return nil, err
	}
	return contacts.NewDirectory(list), nil
}

// SortByCheckIn orders bookings by check-in, then id.
func SortByCheckIn(list []*booking.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if c := a.Range.CheckIn.Compare(b.Range.CheckIn); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}
