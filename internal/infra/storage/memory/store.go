package memory

import (
	"context"
	"errors"
	"sync"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
)

var (
	ErrReadOnly     = errors.New("memory: unit of work is read-only")
	ErrUnitFinished = errors.New("memory: unit of work already finished")
)

// Data is a full copy of the store contents.
type Data struct {
	Bookings      []*domainbooking.Booking
	Contacts      []*domaincontacts.Contact
	Cancellations []*domainbooking.Cancellation
	Rates         domainpricing.RateTable
}

// CommitHook receives the full contents of a commit.
type CommitHook func(ctx context.Context, data Data) error

// Store keeps bookings, contacts, cancellations and rates in process memory.
// Units stage their writes and apply them atomically on commit; concurrent
// units touching the same record resolve as last write wins.
type Store struct {
	mu            sync.RWMutex
	bookings      map[domainbooking.BookingID]*domainbooking.Booking
	contacts      map[domaincontacts.ContactID]*domaincontacts.Contact
	cancellations []*domainbooking.Cancellation
	rates         domainpricing.RateTable
	durable       []CommitHook
	hooks         []CommitHook
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
		contacts: make(map[domaincontacts.ContactID]*domaincontacts.Contact),
	}
}

// Load replaces the contents, e.g. with what a file store read from disk.
func (s *Store) Load(data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[domainbooking.BookingID]*domainbooking.Booking, len(data.Bookings))
	for _, b := range data.Bookings {
		if b != nil {
			s.bookings[b.ID] = b.Clone()
		}
	}
	s.contacts = make(map[domaincontacts.ContactID]*domaincontacts.Contact, len(data.Contacts))
	for _, c := range data.Contacts {
		if c != nil {
			s.contacts[c.ID] = cloneContact(c)
		}
	}
	s.cancellations = cloneCancellations(data.Cancellations)
	s.rates = data.Rates.Clone()
}

func (s *Store) Export() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exportLocked()
}

func (s *Store) exportLocked() Data {
	out := Data{
		Bookings:      make([]*domainbooking.Booking, 0, len(s.bookings)),
		Contacts:      make([]*domaincontacts.Contact, 0, len(s.contacts)),
		Cancellations: cloneCancellations(s.cancellations),
	}
	for _, b := range s.bookings {
		out.Bookings = append(out.Bookings, b.Clone())
	}
	for _, c := range s.contacts {
		out.Contacts = append(out.Contacts, cloneContact(c))
	}
	if s.rates != nil {
		out.Rates = s.rates.Clone()
	}
	return out
}

// OnCommit registers a hook that runs after the new contents are visible.
// Every hook runs; their errors are joined.
func (s *Store) OnCommit(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// BeforeCommit registers a hook that must accept the new contents before
// they replace the current ones. It runs under the store lock, and an error
// aborts the commit with nothing applied.
func (s *Store) BeforeCommit(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durable = append(s.durable, hook)
}

// Sync hands the current contents to the BeforeCommit hooks, e.g. to rewrite
// a data file on shutdown.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.exportLocked()
	for _, hook := range s.durable {
		if err := hook(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

// Begin implements uow.UoWFactory.
func (s *Store) Begin(_ context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return &Unit{
		store:    s,
		readOnly: opts.ReadOnly,
		bookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
		contacts: make(map[domaincontacts.ContactID]*domaincontacts.Contact),
	}, nil
}

func (s *Store) apply(ctx context.Context, u *Unit) error {
	s.mu.Lock()
	next := s.merged(u)
	if len(s.durable) > 0 {
		data := next.exportLocked()
		for _, hook := range s.durable {
			if err := hook(ctx, data); err != nil {
				s.mu.Unlock()
				return err
			}
		}
	}
	s.bookings = next.bookings
	s.contacts = next.contacts
	s.cancellations = next.cancellations
	s.rates = next.rates
	hooks := append([]CommitHook(nil), s.hooks...)
	var snapshot Data
	if len(hooks) > 0 {
		snapshot = s.exportLocked()
	}
	s.mu.Unlock()

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx, snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// merged returns the contents the store would hold once u is applied. The
// current maps are left untouched.
func (s *Store) merged(u *Unit) *Store {
	next := &Store{
		bookings:      make(map[domainbooking.BookingID]*domainbooking.Booking, len(s.bookings)+len(u.bookings)),
		contacts:      make(map[domaincontacts.ContactID]*domaincontacts.Contact, len(s.contacts)+len(u.contacts)),
		cancellations: append(s.cancellations[:len(s.cancellations):len(s.cancellations)], u.cancellations...),
		rates:         s.rates,
	}
	for id, b := range s.bookings {
		next.bookings[id] = b
	}
	for id, b := range u.bookings {
		if b == nil {
			delete(next.bookings, id)
			continue
		}
		next.bookings[id] = b
	}
	for id, c := range s.contacts {
		next.contacts[id] = c
	}
	for id, c := range u.contacts {
		next.contacts[id] = c
	}
	if u.rates != nil {
		next.rates = u.rates
	}
	return next
}

func cloneContact(c *domaincontacts.Contact) *domaincontacts.Contact {
	cp := *c
	return &cp
}

func cloneCancellations(list []*domainbooking.Cancellation) []*domainbooking.Cancellation {
	out := make([]*domainbooking.Cancellation, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		cp := *c
		cp.Snapshot = c.Snapshot.Clone()
		out = append(out, &cp)
	}
	return out
}

var _ uow.UoWFactory = (*Store)(nil)
