package uow

import (
	"context"
	"errors"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/pricing"
)

// ErrConcurrentUpdate is returned by stores that detect a lost update.
var ErrConcurrentUpdate = errors.New("uow: concurrent update detected")

// UnitOfWork groups the repositories touched by one command.
type UnitOfWork interface {
	Bookings() booking.Repository
	Cancellations() booking.CancellationRepository
	Contacts() contacts.Repository
	Rates() pricing.RateStore

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
