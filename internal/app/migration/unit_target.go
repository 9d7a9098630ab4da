package migration

import (
	"context"
	"sync"

	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
)

// MarkerStore persists the migration marker for a UnitTarget.
type MarkerStore interface {
	Marker(ctx context.Context) (*Marker, error)
	SaveMarker(ctx context.Context, marker Marker) error
}

// UnitTarget writes each chunk in its own unit of work.
type UnitTarget struct {
	UoWFactory uow.UoWFactory
	Markers    MarkerStore
}

func (t UnitTarget) Marker(ctx context.Context) (*Marker, error) {
	return t.Markers.Marker(ctx)
}

func (t UnitTarget) SaveMarker(ctx context.Context, marker Marker) error {
	return t.Markers.SaveMarker(ctx, marker)
}

func (t UnitTarget) WriteContacts(ctx context.Context, chunk []*domaincontacts.Contact) error {
	return support.Within(ctx, t.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		for _, c := range chunk {
			if err := unit.Contacts().Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t UnitTarget) WriteBookings(ctx context.Context, chunk []*domainbooking.Booking) error {
	return support.Within(ctx, t.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		for _, b := range chunk {
			if err := unit.Bookings().Save(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// MemoryMarkers keeps the marker in process memory.
type MemoryMarkers struct {
	mu     sync.Mutex
	marker *Marker
}

func (m *MemoryMarkers) Marker(context.Context) (*Marker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marker == nil {
		return nil, nil
	}
	cp := *m.marker
	return &cp, nil
}

func (m *MemoryMarkers) SaveMarker(_ context.Context, marker Marker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marker = &marker
	return nil
}
