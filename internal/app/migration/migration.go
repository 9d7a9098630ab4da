package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
)

const (
	SchemaVersion = 1
	// ChunkSize keeps each write batch under the 500-operation limit of a
	// Firestore batch.
	ChunkSize = 450

	SourceEmpty        = "empty"
	SourceLocalStorage = "localStorage"
)

// Marker records that the one-time import has run.
type Marker struct {
	SchemaVersion int       `json:"schemaVersion" bson:"schemaVersion" firestore:"schemaVersion"`
	LastMigration time.Time `json:"lastMigration" bson:"lastMigration" firestore:"lastMigration"`
	Source        string    `json:"source" bson:"source" firestore:"source"`
	BookingsCount int       `json:"bookingsCount" bson:"bookingsCount" firestore:"bookingsCount"`
	ContactsCount int       `json:"contactsCount" bson:"contactsCount" firestore:"contactsCount"`
}

// LegacyData is what the browser-local store held.
type LegacyData struct {
	Bookings []*domainbooking.Booking
	Contacts []*domaincontacts.Contact
}

type LegacyReader interface {
	ReadLegacy(ctx context.Context) (LegacyData, error)
}

// Target is the primary store being seeded.
type Target interface {
	// Marker returns nil when the import has never run.
	Marker(ctx context.Context) (*Marker, error)
	SaveMarker(ctx context.Context, marker Marker) error
	WriteContacts(ctx context.Context, chunk []*domaincontacts.Contact) error
	WriteBookings(ctx context.Context, chunk []*domainbooking.Booking) error
}

type Result struct {
	Migrated      bool
	Source        string
	BookingsCount int
	ContactsCount int
}

type Service struct {
	Target    Target
	Reader    LegacyReader
	Logger    *slog.Logger
	Now       func() time.Time
	ChunkSize int
}

// Run imports legacy data once. An existing marker makes it a no-op.
// Contacts go first so bookings never reference a missing contact.
func (s *Service) Run(ctx context.Context) (Result, error) {
	existing, err := s.Target.Marker(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("migration: read marker: %w", err)
	}
	if existing != nil {
		return Result{}, nil
	}

	var data LegacyData
	if s.Reader != nil {
		data, err = s.Reader.ReadLegacy(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("migration: read legacy data: %w", err)
		}
	}

	marker := Marker{SchemaVersion: SchemaVersion, LastMigration: s.now(), Source: SourceEmpty}
	if len(data.Bookings) > 0 || len(data.Contacts) > 0 {
		size := s.chunkSize()
		for _, chunk := range chunks(data.Contacts, size) {
			if err := s.Target.WriteContacts(ctx, chunk); err != nil {
				return Result{}, fmt.Errorf("migration: write contacts: %w", err)
			}
		}
		for _, chunk := range chunks(data.Bookings, size) {
			if err := s.Target.WriteBookings(ctx, chunk); err != nil {
				return Result{}, fmt.Errorf("migration: write bookings: %w", err)
			}
		}
		marker.Source = SourceLocalStorage
		marker.BookingsCount = len(data.Bookings)
		marker.ContactsCount = len(data.Contacts)
	}
	if err := s.Target.SaveMarker(ctx, marker); err != nil {
		return Result{}, fmt.Errorf("migration: save marker: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("migration complete", "source", marker.Source, "bookings", marker.BookingsCount, "contacts", marker.ContactsCount)
	}
	return Result{Migrated: true, Source: marker.Source, BookingsCount: marker.BookingsCount, ContactsCount: marker.ContactsCount}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) chunkSize() int {
	if s.ChunkSize <= 0 {
		return ChunkSize
	}
	return s.ChunkSize
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
