package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	domainanalytics "guesthouse/internal/domain/analytics"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	domainpricing "guesthouse/internal/domain/pricing"
)

var ErrNotReady = errors.New("snapshot: initial data not received yet")

type part uint8

const (
	partBookings part = 1 << iota
	partContacts
	partCancellations
	partRates

	partsRequired = partBookings | partContacts
)

// Snapshot is the latest state pushed by a Source.
type Snapshot struct {
	Bookings      []*domainbooking.Booking
	Contacts      []*domaincontacts.Contact
	Cancellations []*domainbooking.Cancellation
	Rates         domainpricing.RateTable
	Version       uint64
	UpdatedAt     time.Time
}

// Store holds the most recent snapshot. Sources replace one collection at a
// time; readers always get a copy they may keep.
type Store struct {
	catalog *houses.Catalog
	now     func() time.Time

	mu      sync.RWMutex
	current Snapshot
	loaded  part
	waiters []chan struct{}
}

func NewStore(catalog *houses.Catalog) *Store {
	return &Store{catalog: catalog, now: time.Now}
}

func (s *Store) ReplaceBookings(list []*domainbooking.Booking) {
	cp := make([]*domainbooking.Booking, 0, len(list))
	for _, b := range list {
		if b != nil {
			cp = append(cp, b.Clone())
		}
	}
	s.update(partBookings, func(snap *Snapshot) { snap.Bookings = cp })
}

func (s *Store) ReplaceContacts(list []*domaincontacts.Contact) {
	cp := make([]*domaincontacts.Contact, 0, len(list))
	for _, c := range list {
		if c != nil {
			clone := *c
			cp = append(cp, &clone)
		}
	}
	s.update(partContacts, func(snap *Snapshot) { snap.Contacts = cp })
}

func (s *Store) ReplaceCancellations(list []*domainbooking.Cancellation) {
	cp := make([]*domainbooking.Cancellation, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		clone := *c
		if c.Snapshot != nil {
			clone.Snapshot = c.Snapshot.Clone()
		}
		cp = append(cp, &clone)
	}
	s.update(partCancellations, func(snap *Snapshot) { snap.Cancellations = cp })
}

// ReplaceRates stores the rate table; nil means nothing has been saved.
func (s *Store) ReplaceRates(table domainpricing.RateTable) {
	var cp domainpricing.RateTable
	if table != nil {
		cp = table.Clone()
	}
	s.update(partRates, func(snap *Snapshot) { snap.Rates = cp })
}

func (s *Store) update(p part, apply func(*Snapshot)) {
	s.mu.Lock()
	apply(&s.current)
	s.current.Version++
	s.current.UpdatedAt = s.now().UTC()
	s.loaded |= p
	var wake []chan struct{}
	if s.loaded&partsRequired == partsRequired {
		wake, s.waiters = s.waiters, nil
	}
	s.mu.Unlock()
	for _, ch := range wake {
		close(ch)
	}
}

// Ready reports whether bookings and contacts have arrived at least once.
func (s *Store) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded&partsRequired != partsRequired {
		return ErrNotReady
	}
	return nil
}

// WaitReady blocks until Ready or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded&partsRequired == partsRequired {
		s.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns a copy of the latest snapshot. Slices are fresh; the
// records they point to are shared and must not be mutated.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current
	out.Bookings = append([]*domainbooking.Booking(nil), s.current.Bookings...)
	out.Contacts = append([]*domaincontacts.Contact(nil), s.current.Contacts...)
	out.Cancellations = append([]*domainbooking.Cancellation(nil), s.current.Cancellations...)
	if s.current.Rates != nil {
		out.Rates = s.current.Rates.Clone()
	}
	return out
}

// Dataset serves reports from the live snapshot.
func (s *Store) Dataset(context.Context) (domainanalytics.Dataset, error) {
	if err := s.Ready(); err != nil {
		return domainanalytics.Dataset{}, err
	}
	snap := s.Current()
	rates := snap.Rates
	if len(rates) == 0 {
		rates = domainpricing.DefaultRates(s.catalog)
	}
	return domainanalytics.Dataset{
		Catalog:       s.catalog,
		Bookings:      snap.Bookings,
		Cancellations: snap.Cancellations,
		Contacts:      domaincontacts.NewDirectory(snap.Contacts),
		Rates:         rates,
	}, nil
}
