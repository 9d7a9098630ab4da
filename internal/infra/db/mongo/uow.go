package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
)

var (
	ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")
	ErrReadOnly                = errors.New("mongo: unit of work is read-only")
)

// Factory wires Mongo sessions into the generic UnitOfWork interface.
// Writing units run in a multi-document transaction, which needs a replica set.
type Factory struct {
	DB       *mongo.Database
	Currency string
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	if !opts.ReadOnly {
		txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
		if err := session.StartTransaction(txnOpts); err != nil {
			session.EndSession(ctx)
			return nil, err
		}
	}
	return &Unit{db: f.DB, session: session, readOnly: opts.ReadOnly, currency: f.Currency}, nil
}

type Unit struct {
	db       *mongo.Database
	session  mongo.Session
	readOnly bool
	currency string
}

func (u *Unit) Bookings() domainbooking.Repository {
	return &BookingRepository{col: u.db.Collection(bookingsCollection), currency: u.currency, readOnly: u.readOnly}
}

func (u *Unit) Cancellations() domainbooking.CancellationRepository {
	return &CancellationRepository{col: u.db.Collection(cancellationsCollection), currency: u.currency, readOnly: u.readOnly}
}

func (u *Unit) Contacts() domaincontacts.Repository {
	return &ContactRepository{col: u.db.Collection(contactsCollection), readOnly: u.readOnly}
}

func (u *Unit) Rates() domainpricing.RateStore {
	return &RateStore{col: u.db.Collection(settingsCollection), readOnly: u.readOnly}
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if u.readOnly {
		return nil
	}
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if u.readOnly {
		return nil
	}
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
