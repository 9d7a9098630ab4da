package firestore

import (
	"context"
	"errors"
	"sort"

	gcfirestore "cloud.google.com/go/firestore"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/infra/records"
)

var (
	ErrReadOnly     = errors.New("firestore: unit of work is read-only")
	ErrUnitFinished = errors.New("firestore: unit of work already finished")
)

// Factory opens units that read straight from Firestore and stage writes
// until Commit applies them in a single transaction. Concurrent writers to
// the same document resolve as last write wins.
type Factory struct {
	Client   *gcfirestore.Client
	Currency string
}

func (f Factory) Begin(_ context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return &Unit{
		client:   f.Client,
		currency: f.Currency,
		readOnly: opts.ReadOnly,
		bookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
		contacts: make(map[domaincontacts.ContactID]*domaincontacts.Contact),
	}, nil
}

// Unit stages writes; a nil booking marks a delete.
type Unit struct {
	client   *gcfirestore.Client
	currency string
	readOnly bool
	done     bool

	bookings      map[domainbooking.BookingID]*domainbooking.Booking
	contacts      map[domaincontacts.ContactID]*domaincontacts.Contact
	cancellations []*domainbooking.Cancellation
	rates         domainpricing.RateTable
}

func (u *Unit) Bookings() domainbooking.Repository                  { return bookingRepository{u: u} }
func (u *Unit) Cancellations() domainbooking.CancellationRepository { return cancellationRepository{u: u} }
func (u *Unit) Contacts() domaincontacts.Repository                 { return contactRepository{u: u} }
func (u *Unit) Rates() domainpricing.RateStore                      { return rateStore{u: u} }

func (u *Unit) writable() error {
	if u.done {
		return ErrUnitFinished
	}
	if u.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (u *Unit) empty() bool {
	return len(u.bookings) == 0 && len(u.contacts) == 0 && len(u.cancellations) == 0 && u.rates == nil
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitFinished
	}
	u.done = true
	if u.readOnly || u.empty() {
		return nil
	}
	return u.client.RunTransaction(ctx, func(_ context.Context, tx *gcfirestore.Transaction) error {
		return u.stage(tx)
	})
}

// stage writes in a fixed order so retries of the transaction body are identical.
func (u *Unit) stage(tx *gcfirestore.Transaction) error {
	for _, id := range sortedKeys(u.contacts) {
		c := u.contacts[id]
		ref := u.client.Collection(contactsCollection).Doc(string(id))
		if err := tx.Set(ref, contactFields(records.FromContact(c)), gcfirestore.MergeAll); err != nil {
			return err
		}
	}
	for _, c := range u.cancellations {
		rec := records.FromCancellation(c)
		ref := u.client.Collection(cancellationsCollection).Doc(rec.BookingID)
		if err := tx.Set(ref, cancellationFields(rec)); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(u.bookings) {
		ref := u.client.Collection(bookingsCollection).Doc(string(id))
		b := u.bookings[id]
		if b == nil {
			if err := tx.Delete(ref); err != nil {
				return err
			}
			continue
		}
		if err := tx.Set(ref, bookingFields(records.FromBooking(b)), gcfirestore.MergeAll); err != nil {
			return err
		}
	}
	if u.rates != nil {
		ref := u.client.Collection(bookingsCollection).Doc(ratesDocumentID)
		if err := tx.Set(ref, rateFields(records.FromRates(u.rates))); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unit) Rollback(context.Context) error {
	u.done = true
	u.bookings = nil
	u.contacts = nil
	u.cancellations = nil
	u.rates = nil
	return nil
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var _ uow.UoWFactory = Factory{}
