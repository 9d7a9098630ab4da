package memory

import (
	"context"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
)

// Unit stages writes over the store until Commit. A nil map value marks a
// deleted record.
type Unit struct {
	store         *Store
	readOnly      bool
	done          bool
	bookings      map[domainbooking.BookingID]*domainbooking.Booking
	contacts      map[domaincontacts.ContactID]*domaincontacts.Contact
	cancellations []*domainbooking.Cancellation
	rates         domainpricing.RateTable
}

func (u *Unit) Bookings() domainbooking.Repository {
	return bookingRepository{u: u}
}

func (u *Unit) Cancellations() domainbooking.CancellationRepository {
	return cancellationRepository{u: u}
}

func (u *Unit) Contacts() domaincontacts.Repository {
	return contactRepository{u: u}
}

func (u *Unit) Rates() domainpricing.RateStore {
	return rateStore{u: u}
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitFinished
	}
	u.done = true
	if u.readOnly {
		return nil
	}
	return u.store.apply(ctx, u)
}

func (u *Unit) Rollback(context.Context) error {
	u.done = true
	u.bookings = nil
	u.contacts = nil
	u.cancellations = nil
	u.rates = nil
	return nil
}

func (u *Unit) writable() error {
	if u.done {
		return ErrUnitFinished
	}
	if u.readOnly {
		return ErrReadOnly
	}
	return nil
}
