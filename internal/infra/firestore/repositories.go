package firestore

import (
	"context"

	gcfirestore "cloud.google.com/go/firestore"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/infra/records"
)

type bookingRepository struct{ u *Unit }

func (r bookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	docs, err := r.u.client.Collection(bookingsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	stored, err := decodeBookings(docs, r.u.currency)
	if err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Booking, 0, len(stored)+len(r.u.bookings))
	for _, b := range stored {
		if _, staged := r.u.bookings[b.ID]; staged {
			continue
		}
		out = append(out, b)
	}
	for _, id := range sortedKeys(r.u.bookings) {
		if b := r.u.bookings[id]; b != nil {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (r bookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if b, staged := r.u.bookings[id]; staged {
		if b == nil {
			return nil, domainbooking.ErrBookingNotFound
		}
		return b.Clone(), nil
	}
	if reserved(string(id)) {
		return nil, domainbooking.ErrBookingNotFound
	}
	snap, err := r.u.client.Collection(bookingsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return decodeBooking(snap, r.u.currency)
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
	cp := *c
	cp.Snapshot = c.Snapshot.Clone()
	r.u.cancellations = append(r.u.cancellations, &cp)
	return nil
}

func (r cancellationRepository) List(ctx context.Context) ([]*domainbooking.Cancellation, error) {
	docs, err := r.u.client.Collection(cancellationsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out, err := decodeCancellations(docs, r.u.currency)
	if err != nil {
		return nil, err
	}
	return append(out, r.u.cancellations...), nil
}

type contactRepository struct{ u *Unit }

func (r contactRepository) List(ctx context.Context) ([]*domaincontacts.Contact, error) {
	docs, err := r.u.client.Collection(contactsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	stored, err := decodeContacts(docs)
	if err != nil {
		return nil, err
	}
	out := make([]*domaincontacts.Contact, 0, len(stored)+len(r.u.contacts))
	for _, c := range stored {
		if _, staged := r.u.contacts[c.ID]; !staged {
			out = append(out, c)
		}
	}
	for _, id := range sortedKeys(r.u.contacts) {
		cp := *r.u.contacts[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r contactRepository) ByID(ctx context.Context, id domaincontacts.ContactID) (*domaincontacts.Contact, error) {
	if c, staged := r.u.contacts[id]; staged {
		cp := *c
		return &cp, nil
	}
	snap, err := r.u.client.Collection(contactsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domaincontacts.ErrContactNotFound
		}
		return nil, err
	}
	return decodeContact(snap)
}

func (r contactRepository) Save(_ context.Context, c *domaincontacts.Contact) error {
	if err := r.u.writable(); err != nil {
		return err
	}
	cp := *c
	r.u.contacts[c.ID] = &cp
	return nil
}

type rateStore struct{ u *Unit }

func (s rateStore) Rates(ctx context.Context) (domainpricing.RateTable, error) {
	if s.u.rates != nil {
		return s.u.rates.Clone(), nil
	}
	snap, err := s.u.client.Collection(bookingsCollection).Doc(ratesDocumentID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRates(snap)
}

func (s rateStore) SaveRates(_ context.Context, table domainpricing.RateTable) error {
	if err := s.u.writable(); err != nil {
		return err
	}
	s.u.rates = table.Clone()
	return nil
}

func decodeBooking(snap *gcfirestore.DocumentSnapshot, currency string) (*domainbooking.Booking, error) {
	var rec records.Booking
	if err := snap.DataTo(&rec); err != nil {
		return nil, err
	}
	rec.ID = snap.Ref.ID
	return rec.ToBooking(currency)
}

func decodeBookings(docs []*gcfirestore.DocumentSnapshot, currency string) ([]*domainbooking.Booking, error) {
	out := make([]*domainbooking.Booking, 0, len(docs))
	for _, snap := range docs {
		if reserved(snap.Ref.ID) {
			continue
		}
		b, err := decodeBooking(snap, currency)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeContact(snap *gcfirestore.DocumentSnapshot) (*domaincontacts.Contact, error) {
	var rec records.Contact
	if err := snap.DataTo(&rec); err != nil {
		return nil, err
	}
	rec.ID = snap.Ref.ID
	return rec.ToContact(), nil
}

func decodeContacts(docs []*gcfirestore.DocumentSnapshot) ([]*domaincontacts.Contact, error) {
	out := make([]*domaincontacts.Contact, 0, len(docs))
	for _, snap := range docs {
		c, err := decodeContact(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeCancellations(docs []*gcfirestore.DocumentSnapshot, currency string) ([]*domainbooking.Cancellation, error) {
	out := make([]*domainbooking.Cancellation, 0, len(docs))
	for _, snap := range docs {
		var rec records.Cancellation
		if err := snap.DataTo(&rec); err != nil {
			return nil, err
		}
		rec.Booking.ID = snap.Ref.ID
		c, err := rec.ToCancellation(currency)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeRates(snap *gcfirestore.DocumentSnapshot) (domainpricing.RateTable, error) {
	if !snap.Exists() {
		return nil, nil
	}
	rates, err := parseRates(snap.Data())
	if err != nil {
		return nil, err
	}
	return rates.ToRateTable(), nil
}
