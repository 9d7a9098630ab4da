package memory

import (
	"context"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
)

type bookingRepository struct{ u *Unit }

func (r bookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()

	out := make([]*domainbooking.Booking, 0, len(r.u.store.bookings)+len(r.u.bookings))
	for id, b := range r.u.store.bookings {
		if _, staged := r.u.bookings[id]; staged {
			continue
		}
		out = append(out, b.Clone())
	}
	for _, b := range r.u.bookings {
		if b != nil {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (r bookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b, staged := r.u.bookings[id]; staged {
		if b == nil {
			return nil, domainbooking.ErrBookingNotFound
		}
		return b.Clone(), nil
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	b, ok := r.u.store.bookings[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r bookingRepository) Save(_ context.Context, b *domainbooking.Booking) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	b.Version++
	r.u.bookings[b.ID] = b.Clone()
	return nil
}

func (r bookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	if _, err := r.ByID(ctx, id); err != nil {
		return err
	}
	r.u.bookings[id] = nil
	return nil
}

type cancellationRepository struct{ u *Unit }

func (r cancellationRepository) Append(_ context.Context, c *domainbooking.Cancellation) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	r.u.cancellations = append(r.u.cancellations, cloneCancellations([]*domainbooking.Cancellation{c})...)
	return nil
}

func (r cancellationRepository) List(context.Context) ([]*domainbooking.Cancellation, error) {
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	out := cloneCancellations(r.u.store.cancellations)
	return append(out, cloneCancellations(r.u.cancellations)...), nil
}

type contactRepository struct{ u *Unit }

func (r contactRepository) List(context.Context) ([]*domaincontacts.Contact, error) {
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	out := make([]*domaincontacts.Contact, 0, len(r.u.store.contacts)+len(r.u.contacts))
	for id, c := range r.u.store.contacts {
		if _, staged := r.u.contacts[id]; !staged {
			out = append(out, cloneContact(c))
		}
	}
	for _, c := range r.u.contacts {
		out = append(out, cloneContact(c))
	}
	return out, nil
}

func (r contactRepository) ByID(_ context.Context, id domaincontacts.ContactID) (*domaincontacts.Contact, error) {
	if c, staged := r.u.contacts[id]; staged {
		return cloneContact(c), nil
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	c, ok := r.u.store.contacts[id]
	if !ok {
		return nil, domaincontacts.ErrContactNotFound
	}
	return cloneContact(c), nil
}

func (r contactRepository) Save(_ context.Context, c *domaincontacts.Contact) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	r.u.contacts[c.ID] = cloneContact(c)
	return nil
}

type rateStore struct{ u *Unit }

// Rates returns nil when nothing has been saved.
func (r rateStore) Rates(context.Context) (domainpricing.RateTable, error) {
	if r.u.rates != nil {
		return r.u.rates.Clone(), nil
	}
	r.u.store.mu.RLock()
	defer r.u.store.mu.RUnlock()
	if r.u.store.rates == nil {
		return nil, nil
	}
	return r.u.store.rates.Clone(), nil
}

func (r rateStore) SaveRates(_ context.Context, table domainpricing.RateTable) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return err
	}
	r.u.rates = table.Clone()
	return nil
}
