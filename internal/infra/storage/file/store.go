package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/infra/records"
	"guesthouse/internal/infra/storage/memory"
)

// Document is the on-disk layout of the data file. Bookings and
// cancellations stay raw until decoded so entries this build cannot read are
// written back as they were found.
type Document struct {
	Bookings      []json.RawMessage `json:"bookings"`
	Contacts      []records.Contact `json:"contacts"`
	Cancellations []json.RawMessage `json:"cancellations"`
	Rates         records.Rates     `json:"rates,omitempty"`
}

// unreadable holds the raw entries decode rejected.
type unreadable struct {
	bookings      []json.RawMessage
	cancellations []json.RawMessage
}

// Store is a memory store persisted to a JSON file on every commit. The
// file is written before the commit becomes visible, so a failed write
// fails the commit.
type Store struct {
	*memory.Store
	path     string
	currency string
	logger   *slog.Logger
	kept     unreadable
}

// Open loads path (a missing file is an empty store) and keeps it in sync.
func Open(path, currency string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{Store: memory.NewStore(), path: path, currency: currency, logger: logger}
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	data, kept, skipped := decode(doc, currency)
	for _, err := range skipped {
		logger.Warn("file store: keeping unreadable record as is", "path", path, "err", err)
	}
	s.kept = kept
	s.Load(data)
	s.BeforeCommit(s.persist)
	return s, nil
}

func (s *Store) Path() string { return s.path }

// persist runs under the memory store lock, so writes are serialized.
func (s *Store) persist(_ context.Context, data memory.Data) error {
	doc, err := encode(data, s.kept)
	if err == nil {
		err = writeAtomic(s.path, doc)
	}
	if err != nil {
		s.logger.Error("file store: write failed", "path", s.path, "err", err)
		return fmt.Errorf("file store: write %s: %w", s.path, err)
	}
	return nil
}

// Flush forces a write of the current contents.
func (s *Store) Flush(ctx context.Context) error {
	return s.Sync(ctx)
}

func readDocument(path string) (Document, error) {
	var doc Document
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("file store: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("file store: decode %s: %w", path, err)
	}
	return doc, nil
}

func decode(doc Document, currency string) (memory.Data, unreadable, []error) {
	var (
		data memory.Data
		kept unreadable
		errs []error
	)
	for _, raw := range doc.Bookings {
		var rec records.Booking
		b, err := decodeBooking(raw, &rec, currency)
		if err != nil {
			errs = append(errs, fmt.Errorf("booking %q: %w", rec.ID, err))
			kept.bookings = append(kept.bookings, raw)
			continue
		}
		data.Bookings = append(data.Bookings, b)
	}
	for _, rec := range doc.Contacts {
		data.Contacts = append(data.Contacts, rec.ToContact())
	}
	for _, raw := range doc.Cancellations {
		var rec records.Cancellation
		c, err := decodeCancellation(raw, &rec, currency)
		if err != nil {
			errs = append(errs, fmt.Errorf("cancellation of %q: %w", rec.BookingID, err))
			kept.cancellations = append(kept.cancellations, raw)
			continue
		}
		data.Cancellations = append(data.Cancellations, c)
	}
	data.Rates = doc.Rates.ToRateTable()
	return data, kept, errs
}

func decodeBooking(raw json.RawMessage, rec *records.Booking, currency string) (*domainbooking.Booking, error) {
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec.ToBooking(currency)
}

func decodeCancellation(raw json.RawMessage, rec *records.Cancellation, currency string) (*domainbooking.Cancellation, error) {
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec.ToCancellation(currency)
}

// encode lays data out in a stable order and appends the kept raw entries.
// A kept booking whose id has since been saved again is dropped.
func encode(data memory.Data, kept unreadable) (Document, error) {
	doc := Document{
		Bookings:      make([]json.RawMessage, 0, len(data.Bookings)+len(kept.bookings)),
		Contacts:      make([]records.Contact, 0, len(data.Contacts)),
		Cancellations: make([]json.RawMessage, 0, len(data.Cancellations)+len(kept.cancellations)),
		Rates:         records.FromRates(data.Rates),
	}
	live := make(map[string]struct{}, len(data.Bookings))
	sort.Slice(data.Bookings, func(i, j int) bool { return lessBooking(data.Bookings[i], data.Bookings[j]) })
	for _, b := range data.Bookings {
		raw, err := json.Marshal(records.FromBooking(b))
		if err != nil {
			return doc, err
		}
		live[string(b.ID)] = struct{}{}
		doc.Bookings = append(doc.Bookings, raw)
	}
	for _, raw := range kept.bookings {
		var head struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(raw, &head) == nil && head.ID != "" {
			if _, saved := live[head.ID]; saved {
				continue
			}
		}
		doc.Bookings = append(doc.Bookings, raw)
	}
	sort.Slice(data.Contacts, func(i, j int) bool { return lessContact(data.Contacts[i], data.Contacts[j]) })
	for _, c := range data.Contacts {
		doc.Contacts = append(doc.Contacts, records.FromContact(c))
	}
	for _, c := range data.Cancellations {
		raw, err := json.Marshal(records.FromCancellation(c))
		if err != nil {
			return doc, err
		}
		doc.Cancellations = append(doc.Cancellations, raw)
	}
	doc.Cancellations = append(doc.Cancellations, kept.cancellations...)
	return doc, nil
}

func lessBooking(a, b *domainbooking.Booking) bool {
	if c := a.Range.CheckIn.Compare(b.Range.CheckIn); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

func lessContact(a, b *domaincontacts.Contact) bool {
	return a.ID < b.ID
}

// writeAtomic replaces path through a temp file in the same directory.
func writeAtomic(path string, doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
